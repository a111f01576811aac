package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/domain/reports"
)

type reportsRepo struct {
	mu   sync.RWMutex
	byID map[string]reports.Report
}

func NewReportsRepo() reports.Repository {
	return &reportsRepo{
		byID: make(map[string]reports.Report),
	}
}

func (r *reportsRepo) Create(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rep.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.byID[rep.ID]; exists {
		return errors.New("report already exists")
	}
	r.byID[rep.ID] = cloneReport(rep)
	return nil
}

func (r *reportsRepo) Update(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[rep.ID]
	if !exists {
		return ErrNotFound
	}
	// Matches se maneja solo vía Append/Clear/Remove: Update no los pisa.
	rep.Matches = cur.Matches
	r.byID[rep.ID] = cloneReport(rep)
	return nil
}

func (r *reportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.byID[id]
	if !ok {
		return reports.Report{}, ErrNotFound
	}
	return cloneReport(rep), nil
}

func (r *reportsRepo) ListByPet(ctx context.Context, petID string) ([]reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.Report, 0)
	for _, rep := range r.byID {
		if rep.PetID == petID {
			out = append(out, cloneReport(rep))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *reportsRepo) FindOpen(ctx context.Context, t reports.Type) ([]reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.Report, 0)
	for _, rep := range r.byID {
		if rep.Type == t && rep.Status == reports.StatusOpen {
			out = append(out, cloneReport(rep))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *reportsRepo) FindOpenByPet(ctx context.Context, petID string, t reports.Type) (reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rep := range r.byID {
		if rep.PetID == petID && rep.Type == t && rep.Status == reports.StatusOpen {
			return cloneReport(rep), nil
		}
	}
	return reports.Report{}, ErrNotFound
}

// AppendMatch: append condicional bajo el lock del repo; dos escritores
// concurrentes no pueden duplicar un candidato.
func (r *reportsRepo) AppendMatch(ctx context.Context, reportID string, m matching.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.byID[reportID]
	if !ok {
		return ErrNotFound
	}
	for _, cur := range rep.Matches {
		if cur.CandidateReportID == m.CandidateReportID {
			return nil
		}
	}
	rep.Matches = append(rep.Matches, m)
	r.byID[reportID] = rep
	return nil
}

func (r *reportsRepo) HasMatch(ctx context.Context, reportID, candidateReportID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.byID[reportID]
	if !ok {
		return false, ErrNotFound
	}
	for _, m := range rep.Matches {
		if m.CandidateReportID == candidateReportID {
			return true, nil
		}
	}
	return false, nil
}

func (r *reportsRepo) ClearMatches(ctx context.Context, reportID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.byID[reportID]
	if !ok {
		return ErrNotFound
	}
	rep.Matches = nil
	r.byID[reportID] = rep
	return nil
}

func (r *reportsRepo) RemoveMatchesFor(ctx context.Context, candidateReportID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rep := range r.byID {
		if len(rep.Matches) == 0 {
			continue
		}
		kept := rep.Matches[:0]
		for _, m := range rep.Matches {
			if m.CandidateReportID != candidateReportID {
				kept = append(kept, m)
			}
		}
		rep.Matches = kept
		r.byID[id] = rep
	}
	return nil
}

// cloneReport copia el slice de matches para que los callers no muten
// el estado interno del repo.
func cloneReport(rep reports.Report) reports.Report {
	if len(rep.Matches) > 0 {
		ms := make([]matching.Match, len(rep.Matches))
		copy(ms, rep.Matches)
		rep.Matches = ms
	}
	return rep
}
