package usecase

import (
	"context"

	historydomain "leafscan-backend/internal/history/domain"
	"leafscan-backend/internal/prediction/domain"
	"leafscan-backend/pkg/classifier"
)

// PredictionUsecase validates uploads and orchestrates classification
type PredictionUsecase interface {
	// Predict classifies an upload on behalf of an already verified user
	Predict(ctx context.Context, userID string, upload *domain.Upload) (*domain.Result, error)

	Health() domain.Health
}

// HistoryRecorder persists successful predictions
type HistoryRecorder interface {
	Record(ctx context.Context, userID, imagePath string, p classifier.Prediction) (*historydomain.Analysis, error)
}
