package uow

import (
	"context"

	"agriloan-backend/internal/domain/application"
)

type Repos struct {
	Applications application.Repository
	Reviews      application.ReviewRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID string, fn func(r Repos, a *application.Application) error) error
}
