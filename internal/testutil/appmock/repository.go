package appmock

import (
	"context"
	"errors"
	"time"

	domain "agriloan-backend/internal/domain/application"
)

// Ensure compile-time compliance
var (
	_ domain.Repository       = (*Repo)(nil)
	_ domain.ReviewRepository = (*ReviewRepo)(nil)
)

var errUnimplemented = errors.New("appmock: method not implemented")

// Repo is a function-backed mock for domain.Repository. Fill in the fields a
// test needs; unfilled ones fail loudly.
type Repo struct {
	CreateFn                      func(ctx context.Context, a *domain.Application) error
	GetByApplicationIDFn          func(ctx context.Context, applicationID string) (*domain.Application, error)
	GetByApplicationIDForUpdateFn func(ctx context.Context, applicationID string) (*domain.Application, error)
	ListByStatusFn                func(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Application, error)
	ListByApplicantFn             func(ctx context.Context, applicantID string, offset, limit int) ([]domain.Application, error)
	UpdateStatusIfFn              func(ctx context.Context, rowID uint64, from, to domain.Status, at time.Time) (bool, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return errUnimplemented
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.Application, error) {
	if m.GetByApplicationIDForUpdateFn != nil {
		return m.GetByApplicationIDForUpdateFn(ctx, applicationID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Application, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status, offset, limit)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByApplicant(ctx context.Context, applicantID string, offset, limit int) ([]domain.Application, error) {
	if m.ListByApplicantFn != nil {
		return m.ListByApplicantFn(ctx, applicantID, offset, limit)
	}
	return nil, errUnimplemented
}

func (m *Repo) UpdateStatusIf(ctx context.Context, rowID uint64, from, to domain.Status, at time.Time) (bool, error) {
	if m.UpdateStatusIfFn != nil {
		return m.UpdateStatusIfFn(ctx, rowID, from, to, at)
	}
	return false, errUnimplemented
}

// ReviewRepo mocks domain.ReviewRepository.
type ReviewRepo struct {
	CreateFn            func(ctx context.Context, r *domain.Review) error
	ListByApplicationFn func(ctx context.Context, applicationRowID uint64) ([]domain.Review, error)
}

func (m *ReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return errUnimplemented
}

func (m *ReviewRepo) ListByApplication(ctx context.Context, applicationRowID uint64) ([]domain.Review, error) {
	if m.ListByApplicationFn != nil {
		return m.ListByApplicationFn(ctx, applicationRowID)
	}
	return nil, errUnimplemented
}
