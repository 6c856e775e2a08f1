package document

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	domain "agriloan-backend/internal/domain/application"
	"agriloan-backend/internal/infrastructure/blob"
	"agriloan-backend/pkg/id"
	"agriloan-backend/pkg/metrics"

	"github.com/google/uuid"
)

// DefaultMaxSizeBytes caps a single document at 5 MiB.
const DefaultMaxSizeBytes = 5 << 20

// allowedMime maps the accepted content types to the file extension used in
// the generated storage locator. The type is sniffed from the bytes, never
// trusted from the client.
var allowedMime = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// Service is the document store: it validates uploads, issues opaque
// locators, and mediates every read with an ownership check against the
// owning aggregate.
type Service struct {
	store   blob.Store
	maxSize int64
}

func NewService(store blob.Store, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeBytes
	}
	return &Service{store: store, maxSize: maxSize}
}

type UploadInput struct {
	OriginalName string
	DeclaredType domain.DocumentType
	Content      []byte
}

// Store validates and persists one upload, returning the ref to attach to
// the aggregate. The locator is uuid-derived; the original filename is kept
// only as display metadata.
func (s *Service) Store(ctx context.Context, in UploadInput) (*domain.DocumentRef, error) {
	if int64(len(in.Content)) > s.maxSize {
		metrics.DocumentsRejected.WithLabelValues("too_large").Inc()
		return nil, fmt.Errorf("%q is %d bytes (limit %d): %w",
			in.OriginalName, len(in.Content), s.maxSize, domain.ErrPayloadTooLarge)
	}

	sniffed := http.DetectContentType(in.Content)
	ext, ok := allowedMime[sniffed]
	if !ok {
		metrics.DocumentsRejected.WithLabelValues("unsupported_media").Inc()
		return nil, fmt.Errorf("%q detected as %s: %w", in.OriginalName, sniffed, domain.ErrUnsupportedMedia)
	}

	docType := in.DeclaredType
	if !docType.Valid() {
		docType = domain.DocOther
	}

	locator := uuid.NewString() + ext
	if err := s.store.Save(ctx, locator, in.Content, sniffed); err != nil {
		return nil, fmt.Errorf("store document %q: %w", in.OriginalName, err)
	}

	metrics.DocumentsStored.Inc()
	return &domain.DocumentRef{
		DocumentID:     id.NewID32(),
		OriginalName:   filepath.Base(in.OriginalName),
		MimeType:       sniffed,
		SizeBytes:      int64(len(in.Content)),
		DocumentType:   docType,
		StorageLocator: locator,
	}, nil
}

// Retrieve returns the ref and content for a document of app. Access is
// limited to the owning applicant and reviewers.
func (s *Service) Retrieve(ctx context.Context, app *domain.Application, documentID string, actor domain.Actor) (*domain.DocumentRef, []byte, error) {
	ref, err := s.authorize(app, documentID, actor)
	if err != nil {
		return nil, nil, err
	}
	content, err := s.store.Load(ctx, ref.StorageLocator)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, nil, domain.ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("load document %s: %w", documentID, err)
	}
	return ref, content, nil
}

// Describe returns the metadata only, under the same authorization rule.
func (s *Service) Describe(app *domain.Application, documentID string, actor domain.Actor) (*domain.DocumentRef, error) {
	return s.authorize(app, documentID, actor)
}

func (s *Service) authorize(app *domain.Application, documentID string, actor domain.Actor) (*domain.DocumentRef, error) {
	if !app.ViewableBy(actor) {
		return nil, domain.ErrForbidden
	}
	ref := app.FindDocument(documentID)
	if ref == nil {
		return nil, domain.ErrDocumentNotFound
	}
	return ref, nil
}

// Discard best-effort deletes blobs stored during a submission that failed
// before the aggregate was committed. Errors are logged, not propagated: the
// submission already failed for the real reason. The cleanup runs on a
// detached context: the submission may have failed precisely because its
// deadline expired, and the deletes must still reach the backend.
func (s *Service) Discard(ctx context.Context, refs []domain.DocumentRef) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	for i := range refs {
		if err := s.store.Delete(ctx, refs[i].StorageLocator); err != nil {
			log.Printf("discard orphaned document %s: %v", refs[i].DocumentID, err)
		}
	}
}
