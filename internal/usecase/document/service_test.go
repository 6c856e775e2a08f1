package document

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	domain "agriloan-backend/internal/domain/application"
	"agriloan-backend/internal/infrastructure/blob"
	"agriloan-backend/internal/testutil/blobmock"
)

func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
}

func TestService_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts png and issues an opaque locator", func(t *testing.T) {
		blobs := blobmock.New()
		svc := NewService(blobs, 0)

		ref, err := svc.Store(ctx, UploadInput{
			OriginalName: "aadhar-scan.png",
			DeclaredType: domain.DocAadharCard,
			Content:      pngBytes(),
		})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if ref.MimeType != "image/png" {
			t.Fatalf("want sniffed image/png, got %s", ref.MimeType)
		}
		if ref.DocumentType != domain.DocAadharCard {
			t.Fatalf("want aadharCard, got %s", ref.DocumentType)
		}
		if len(ref.DocumentID) != 32 {
			t.Fatalf("want 32-char document id, got %q", ref.DocumentID)
		}
		if strings.Contains(ref.StorageLocator, "aadhar") {
			t.Fatalf("locator leaks the original name: %q", ref.StorageLocator)
		}
		if !strings.HasSuffix(ref.StorageLocator, ".png") {
			t.Fatalf("locator missing extension: %q", ref.StorageLocator)
		}
		if blobs.Len() != 1 {
			t.Fatalf("want 1 blob, got %d", blobs.Len())
		}
	})

	t.Run("sniffs bytes and ignores the claimed extension", func(t *testing.T) {
		svc := NewService(blobmock.New(), 0)
		_, err := svc.Store(ctx, UploadInput{
			OriginalName: "malware.png",
			DeclaredType: domain.DocOther,
			Content:      []byte("MZ\x90\x00 definitely not an image"),
		})
		if !errors.Is(err, domain.ErrUnsupportedMedia) {
			t.Fatalf("want ErrUnsupportedMedia, got %v", err)
		}
	})

	t.Run("rejects oversize content", func(t *testing.T) {
		svc := NewService(blobmock.New(), 128)
		_, err := svc.Store(ctx, UploadInput{
			OriginalName: "big.png",
			Content:      append(pngBytes(), bytes.Repeat([]byte{0}, 200)...),
		})
		if !errors.Is(err, domain.ErrPayloadTooLarge) {
			t.Fatalf("want ErrPayloadTooLarge, got %v", err)
		}
	})

	t.Run("unknown declared type falls back to other", func(t *testing.T) {
		svc := NewService(blobmock.New(), 0)
		ref, err := svc.Store(ctx, UploadInput{
			OriginalName: "scan.png",
			DeclaredType: domain.DocumentType("rationCard"),
			Content:      pngBytes(),
		})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if ref.DocumentType != domain.DocOther {
			t.Fatalf("want other, got %s", ref.DocumentType)
		}
	})

	t.Run("original name is reduced to its base", func(t *testing.T) {
		svc := NewService(blobmock.New(), 0)
		ref, err := svc.Store(ctx, UploadInput{
			OriginalName: "../../etc/aadhar.png",
			Content:      pngBytes(),
		})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if ref.OriginalName != "aadhar.png" {
			t.Fatalf("want base name, got %q", ref.OriginalName)
		}
	})
}

func TestService_Retrieve(t *testing.T) {
	ctx := context.Background()
	blobs := blobmock.New()
	svc := NewService(blobs, 0)

	ref, err := svc.Store(ctx, UploadInput{
		OriginalName: "land.png",
		DeclaredType: domain.DocLandDocument,
		Content:      pngBytes(),
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	app := &domain.Application{
		ApplicantID: "farmer-1",
		Documents:   []domain.DocumentRef{*ref},
	}

	t.Run("owner reads own document", func(t *testing.T) {
		got, content, err := svc.Retrieve(ctx, app, ref.DocumentID, domain.Actor{UserID: "farmer-1"})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got.DocumentID != ref.DocumentID {
			t.Fatalf("ref mismatch: %+v", got)
		}
		if !bytes.Equal(content, pngBytes()) {
			t.Fatal("content mismatch")
		}
	})

	t.Run("reviewer reads any document", func(t *testing.T) {
		if _, _, err := svc.Retrieve(ctx, app, ref.DocumentID, domain.Actor{UserID: "admin-1", Reviewer: true}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		_, _, err := svc.Retrieve(ctx, app, ref.DocumentID, domain.Actor{UserID: "farmer-2"})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("want ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown document id", func(t *testing.T) {
		_, _, err := svc.Retrieve(ctx, app, "ffffffffffffffffffffffffffffffff", domain.Actor{UserID: "farmer-1"})
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			t.Fatalf("want ErrDocumentNotFound, got %v", err)
		}
	})

	t.Run("ref without backing blob", func(t *testing.T) {
		orphan := &domain.Application{
			ApplicantID: "farmer-1",
			Documents: []domain.DocumentRef{{
				DocumentID:     "a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6",
				StorageLocator: "gone.png",
			}},
		}
		_, _, err := svc.Retrieve(ctx, orphan, "a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6", domain.Actor{UserID: "farmer-1"})
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			t.Fatalf("want ErrDocumentNotFound, got %v", err)
		}
	})
}

func TestService_Discard(t *testing.T) {
	ctx := context.Background()
	blobs := blobmock.New()
	svc := NewService(blobs, 0)

	a, _ := svc.Store(ctx, UploadInput{OriginalName: "a.png", Content: pngBytes()})
	b, _ := svc.Store(ctx, UploadInput{OriginalName: "b.png", Content: pngBytes()})

	svc.Discard(ctx, []domain.DocumentRef{*a, *b})
	if blobs.Len() != 0 {
		t.Fatalf("want empty store, got %d blobs", blobs.Len())
	}
	if len(blobs.Deleted) != 2 {
		t.Fatalf("want 2 deletes, got %d", len(blobs.Deleted))
	}
}

// ctxCheckingStore rejects calls on a dead context like a remote backend.
type ctxCheckingStore struct {
	objects map[string][]byte
}

func (s *ctxCheckingStore) Save(ctx context.Context, locator string, content []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.objects[locator] = content
	return nil
}

func (s *ctxCheckingStore) Load(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, ok := s.objects[locator]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return b, nil
}

func (s *ctxCheckingStore) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(s.objects, locator)
	return nil
}

func TestService_Discard_CancelledContext(t *testing.T) {
	blobs := &ctxCheckingStore{objects: map[string][]byte{}}
	svc := NewService(blobs, 0)

	ref, err := svc.Store(context.Background(), UploadInput{OriginalName: "a.png", Content: pngBytes()})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Discard(ctx, []domain.DocumentRef{*ref})

	if len(blobs.objects) != 0 {
		t.Fatalf("blob must be deleted despite the dead caller context, got %d left", len(blobs.objects))
	}
}
