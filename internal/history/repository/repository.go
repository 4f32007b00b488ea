package repository

import (
	"context"

	"leafscan-backend/internal/history/domain"
)

// AnalysisRepository defines the interface for analysis history data access
type AnalysisRepository interface {
	// Create assigns an id when empty and inserts the analysis
	Create(ctx context.Context, a *domain.Analysis) error

	// FindByID returns nil, nil when no analysis matches
	FindByID(ctx context.Context, id string) (*domain.Analysis, error)

	// FindByUserID returns the user's analyses, newest first. limit <= 0 means no limit.
	FindByUserID(ctx context.Context, userID string, limit int) ([]*domain.Analysis, error)

	Delete(ctx context.Context, id string) error
}
