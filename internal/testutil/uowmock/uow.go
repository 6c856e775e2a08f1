package uowmock

import (
	"context"
	"errors"

	domain "agriloan-backend/internal/domain/application"
	"agriloan-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock satisfying uow.UnitOfWork.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinApplicationTxFn func(ctx context.Context, applicationID string, fn func(r uow.Repos, a *domain.Application) error) error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinApplicationTx(ctx context.Context, applicationID string, fn func(r uow.Repos, a *domain.Application) error) error {
	if m.WithinApplicationTxFn != nil {
		return m.WithinApplicationTxFn(ctx, applicationID, fn)
	}
	return errUnimplemented
}

// Passthrough builds a UoW that runs callbacks directly against the given
// repos with no real transaction, locking via repo.GetByApplicationIDForUpdate.
func Passthrough(apps domain.Repository, reviews domain.ReviewRepository) *UoW {
	repos := uow.Repos{Applications: apps, Reviews: reviews}
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinApplicationTxFn: func(ctx context.Context, applicationID string, fn func(r uow.Repos, a *domain.Application) error) error {
			a, err := repos.Applications.GetByApplicationIDForUpdate(ctx, applicationID)
			if err != nil {
				return err
			}
			return fn(repos, a)
		},
	}
}
