package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"leafscan-backend/internal/history/domain"
	"leafscan-backend/internal/history/repository"
	"leafscan-backend/pkg/apperr"
	"leafscan-backend/pkg/classifier"
)

// historyUsecase implements HistoryUsecase interface
type historyUsecase struct {
	repo repository.AnalysisRepository
}

// NewHistoryUsecase creates a new instance of historyUsecase
func NewHistoryUsecase(repo repository.AnalysisRepository) HistoryUsecase {
	return &historyUsecase{repo: repo}
}

func (u *historyUsecase) Record(ctx context.Context, userID, imagePath string, p classifier.Prediction) (*domain.Analysis, error) {
	rec, err := json.Marshal(Recommend(p.Label, p.Confidence))
	if err != nil {
		return nil, apperr.Internal(err)
	}

	a := &domain.Analysis{
		UserID:          userID,
		ImagePath:       imagePath,
		Result:          p.Label,
		Confidence:      p.Confidence,
		Recommendations: string(rec),
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (u *historyUsecase) List(ctx context.Context, userID string, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	items, err := u.repo.FindByUserID(ctx, userID, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if items == nil {
		items = []*domain.Analysis{}
	}
	return items, nil
}

func (u *historyUsecase) Stats(ctx context.Context, userID string) (*domain.Stats, error) {
	items, err := u.repo.FindByUserID(ctx, userID, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return summarize(items), nil
}

func (u *historyUsecase) Delete(ctx context.Context, userID, id string) error {
	a, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if a == nil {
		return apperr.NotFound("Analysis not found")
	}
	if a.UserID != userID {
		return apperr.Forbidden("Not allowed to delete this analysis")
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	if a.ImagePath != "" {
		// the retention sweep may already have removed it
		if err := os.Remove(a.ImagePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return apperr.Internal(err)
		}
	}
	return nil
}

// summarize expects items newest first.
func summarize(items []*domain.Analysis) *domain.Stats {
	stats := &domain.Stats{RecentAnalyses: []*domain.Analysis{}}
	if len(items) == 0 {
		return stats
	}

	var sum float64
	counts := make(map[string]int)
	var seen []string
	for _, a := range items {
		sum += a.Confidence
		if a.Result == classifier.LabelHealthy {
			stats.HealthyCount++
			continue
		}
		if counts[a.Result] == 0 {
			seen = append(seen, a.Result)
		}
		counts[a.Result]++
	}

	stats.TotalAnalyses = len(items)
	stats.DiseasedCount = stats.TotalAnalyses - stats.HealthyCount
	stats.AvgConfidence = sum / float64(stats.TotalAnalyses)

	// ties go to the disease seen most recently
	for _, d := range seen {
		if stats.MostCommonDisease == nil || counts[d] > counts[*stats.MostCommonDisease] {
			disease := d
			stats.MostCommonDisease = &disease
		}
	}

	n := recentCount
	if len(items) < n {
		n = len(items)
	}
	stats.RecentAnalyses = items[:n]
	return stats
}
