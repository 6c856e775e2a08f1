package mysql

import (
	"context"
	"time"

	domain "agriloan-backend/internal/domain/application"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	// Document refs ride along via the association, same insert.
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error) {
	var out domain.Application
	res := r.db.WithContext(ctx).
		Preload("Documents").
		Where("application_id = ?", applicationID).
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.Application, error) {
	var out domain.Application
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Documents").
		Where("application_id = ?", applicationID).
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) ListByStatus(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Application, error) {
	var out []domain.Application
	res := r.db.WithContext(ctx).
		Preload("Documents").
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID string, offset, limit int) ([]domain.Application, error) {
	var out []domain.Application
	res := r.db.WithContext(ctx).
		Preload("Documents").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&out)
	return out, res.Error
}

// UpdateStatusIf is the optimistic write: the UPDATE carries the expected
// current status, so a concurrent transition that got there first leaves
// zero rows affected and the caller knows it lost.
func (r *ApplicationRepository) UpdateStatusIf(ctx context.Context, rowID uint64, from, to domain.Status, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("id = ? AND status = ?", rowID, from).
		Updates(map[string]any{
			"status":            to,
			"status_updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
