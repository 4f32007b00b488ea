package usecase

import (
	"context"
	"io"

	"leafscan-backend/internal/history/domain"
	"leafscan-backend/pkg/classifier"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	recentCount      = 5
)

// HistoryUsecase defines the business logic for analysis history
type HistoryUsecase interface {
	// Record stores a prediction together with generated recommendations
	Record(ctx context.Context, userID, imagePath string, p classifier.Prediction) (*domain.Analysis, error)

	// List returns the user's analyses, newest first
	List(ctx context.Context, userID string, limit int) ([]*domain.Analysis, error)

	Stats(ctx context.Context, userID string) (*domain.Stats, error)

	// Delete removes an analysis owned by userID and its saved upload
	Delete(ctx context.Context, userID, id string) error

	// ExportCSV writes all of the user's analyses as CSV, newest first
	ExportCSV(ctx context.Context, userID string, w io.Writer) error
}
