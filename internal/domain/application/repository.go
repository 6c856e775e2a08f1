package application

import (
	"context"
	"time"
)

type Repository interface {
	// Create persists the aggregate and its document refs in one write.
	Create(ctx context.Context, a *Application) error
	GetByApplicationID(ctx context.Context, applicationID string) (*Application, error)
	// GetByApplicationIDForUpdate locks the row for the current transaction.
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*Application, error)
	// ListByStatus returns applications newest-first.
	ListByStatus(ctx context.Context, status Status, offset, limit int) ([]Application, error)
	ListByApplicant(ctx context.Context, applicantID string, offset, limit int) ([]Application, error)
	// UpdateStatusIf sets the status only when the stored value still equals
	// from; returns false when the precondition failed (lost race).
	UpdateStatusIf(ctx context.Context, rowID uint64, from, to Status, at time.Time) (bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	ListByApplication(ctx context.Context, applicationRowID uint64) ([]Review, error)
}
