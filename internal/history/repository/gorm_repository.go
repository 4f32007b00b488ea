package repository

import (
	"context"
	"errors"
	"time"

	"leafscan-backend/internal/history/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormAnalysisRepository implements AnalysisRepository using GORM
type gormAnalysisRepository struct {
	db *gorm.DB
}

// NewGormAnalysisRepository creates a new GORM-based AnalysisRepository
func NewGormAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &gormAnalysisRepository{db: db}
}

func (r *gormAnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *gormAnalysisRepository) FindByID(ctx context.Context, id string) (*domain.Analysis, error) {
	var a domain.Analysis
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *gormAnalysisRepository) FindByUserID(ctx context.Context, userID string, limit int) ([]*domain.Analysis, error) {
	var out []*domain.Analysis
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&out).Error
	return out, err
}

func (r *gormAnalysisRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Analysis{}, "id = ?", id).Error
}
