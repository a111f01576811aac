package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-lost-found/internal/domain/activity"
)

type activityRepo struct {
	mu   sync.RWMutex
	byID map[string]activity.Entry
}

func NewActivityRepo() activity.Repository {
	return &activityRepo{
		byID: make(map[string]activity.Entry),
	}
}

func (r *activityRepo) Create(ctx context.Context, e activity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("entry id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("entry already exists")
	}

	r.byID[e.ID] = e
	return nil
}

func (r *activityRepo) ListByPet(ctx context.Context, petID string, filter activity.ListFilter) ([]activity.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]activity.Entry, 0)

	for _, e := range r.byID {
		if e.PetID != petID {
			continue
		}

		if len(filter.Types) > 0 {
			ok := false
			for _, t := range filter.Types {
				if e.Type == t {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}

		if filter.From != nil {
			if e.OccurredAt.Before(*filter.From) {
				continue
			}
		}
		if filter.To != nil {
			if e.OccurredAt.After(*filter.To) {
				continue
			}
		}

		out = append(out, e)
	}

	// Más reciente primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
