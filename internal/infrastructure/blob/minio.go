package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds the S3-compatible backend settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// MinioStore is a thin wrapper around the minio client satisfying Store.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects and ensures the bucket exists (idempotent).
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing endpoint")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinioStore{client: mc, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exists, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exists {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

func (s *MinioStore) Save(ctx context.Context, locator string, content []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, locator, bytes.NewReader(content),
		int64(len(content)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", locator, err)
	}
	return nil
}

func (s *MinioStore) Load(ctx context.Context, locator string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, locator, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get %s: %w", locator, err)
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("minio read %s: %w", locator, err)
	}
	return b, nil
}

func (s *MinioStore) Delete(ctx context.Context, locator string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, locator, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete %s: %w", locator, err)
	}
	return nil
}
