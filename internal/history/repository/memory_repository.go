package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"leafscan-backend/internal/history/domain"

	"github.com/google/uuid"
)

type memoryAnalysisRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Analysis
	order []string // insertion order, breaks CreatedAt ties
}

// NewMemoryAnalysisRepository keeps analyses in process memory
func NewMemoryAnalysisRepository() AnalysisRepository {
	return &memoryAnalysisRepository{items: make(map[string]*domain.Analysis)}
}

func (r *memoryAnalysisRepository) Create(_ context.Context, a *domain.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	if _, exists := r.items[a.ID]; !exists {
		r.order = append(r.order, a.ID)
	}
	r.items[a.ID] = &stored
	return nil
}

func (r *memoryAnalysisRepository) FindByID(_ context.Context, id string) (*domain.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memoryAnalysisRepository) FindByUserID(_ context.Context, userID string, limit int) ([]*domain.Analysis, error) {
	r.mu.RLock()
	var out []*domain.Analysis
	for i := len(r.order) - 1; i >= 0; i-- {
		a, ok := r.items[r.order[i]]
		if ok && a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryAnalysisRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return nil
	}
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
