package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "agriloan-backend/internal/domain/application"
	"agriloan-backend/internal/domain/uow"
	"agriloan-backend/pkg/id"
)

func TestWithinApplicationTx_CommitsTransition(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	tx := NewGormUoW(db)
	ctx := context.Background()

	a := makeApplication(id.NewID32(), id.NewID32())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := tx.WithinApplicationTx(ctx, a.ApplicationID, func(r uow.Repos, locked *domain.Application) error {
		if locked.ID != a.ID {
			t.Fatalf("locked the wrong row: %d", locked.ID)
		}
		now := time.Now().UTC()
		ok, err := r.Applications.UpdateStatusIf(ctx, locked.ID, domain.StatusPending, domain.StatusApproved, now)
		if err != nil || !ok {
			t.Fatalf("UpdateStatusIf: ok=%v err=%v", ok, err)
		}
		return r.Reviews.Create(ctx, &domain.Review{
			ReviewID:         id.NewID32(),
			ApplicationRowID: locked.ID,
			FromStatus:       domain.StatusPending,
			ToStatus:         domain.StatusApproved,
			ActorID:          "admin-1",
			Note:             "ok",
			CreatedAt:        now,
		})
	})
	if err != nil {
		t.Fatalf("WithinApplicationTx: %v", err)
	}

	got, err := repo.GetByApplicationID(ctx, a.ApplicationID)
	if err != nil {
		t.Fatalf("GetByApplicationID: %v", err)
	}
	if got.Status != domain.StatusApproved {
		t.Fatalf("want approved after commit, got %s", got.Status)
	}

	reviews := NewReviewRepository(db)
	rows, err := reviews.ListByApplication(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByApplication: %v", err)
	}
	if len(rows) != 1 || rows[0].ToStatus != domain.StatusApproved {
		t.Fatalf("unexpected history: %+v", rows)
	}
}

func TestWithinApplicationTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	tx := NewGormUoW(db)
	ctx := context.Background()

	a := makeApplication(id.NewID32(), id.NewID32())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	wantErr := errors.New("boom")
	err := tx.WithinApplicationTx(ctx, a.ApplicationID, func(r uow.Repos, locked *domain.Application) error {
		ok, err := r.Applications.UpdateStatusIf(ctx, locked.ID, domain.StatusPending, domain.StatusApproved, time.Now().UTC())
		if err != nil || !ok {
			t.Fatalf("UpdateStatusIf: ok=%v err=%v", ok, err)
		}
		return wantErr // force rollback
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("want boom, got %v", err)
	}

	got, err := repo.GetByApplicationID(ctx, a.ApplicationID)
	if err != nil {
		t.Fatalf("GetByApplicationID: %v", err)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("status must stay pending after rollback, got %s", got.Status)
	}
}

func TestWithinApplicationTx_UnknownID(t *testing.T) {
	db := openTestDB(t)
	tx := NewGormUoW(db)

	err := tx.WithinApplicationTx(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
		func(uow.Repos, *domain.Application) error {
			t.Fatal("callback must not run for an unknown application")
			return nil
		})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestReviewRepository_AppendOnlyOrdering(t *testing.T) {
	db := openTestDB(t)
	apps := NewApplicationRepository(db)
	reviews := NewReviewRepository(db)
	ctx := context.Background()

	a := makeApplication(id.NewID32(), id.NewID32())
	if err := apps.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	moves := []struct{ from, to domain.Status }{
		{domain.StatusPending, domain.StatusApproved},
		{domain.StatusApproved, domain.StatusActive},
		{domain.StatusActive, domain.StatusCompleted},
	}
	for _, m := range moves {
		err := reviews.Create(ctx, &domain.Review{
			ReviewID:         id.NewID32(),
			ApplicationRowID: a.ID,
			FromStatus:       m.from,
			ToStatus:         m.to,
			ActorID:          "admin-1",
			CreatedAt:        time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Create review: %v", err)
		}
	}

	rows, err := reviews.ListByApplication(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByApplication: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("want 3 history rows, got %d", len(rows))
	}
	for i, m := range moves {
		if rows[i].FromStatus != m.from || rows[i].ToStatus != m.to {
			t.Fatalf("row %d out of order: %+v", i, rows[i])
		}
	}

	if _, err := reviews.ListByApplication(ctx, 9999); err != nil {
		t.Fatalf("empty history must not error: %v", err)
	}
}
