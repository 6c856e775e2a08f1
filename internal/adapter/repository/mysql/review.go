package mysql

import (
	"context"

	domain "agriloan-backend/internal/domain/application"

	"gorm.io/gorm"
)

type ReviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) *ReviewRepository { return &ReviewRepository{db: db} }

func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

func (r *ReviewRepository) ListByApplication(ctx context.Context, applicationRowID uint64) ([]domain.Review, error) {
	var out []domain.Review
	res := r.db.WithContext(ctx).
		Where("application_row_id = ?", applicationRowID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
