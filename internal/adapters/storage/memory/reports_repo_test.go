package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/domain/reports"
)

func openLost(id, petID string, createdAt time.Time) reports.Report {
	return reports.Report{
		ID:             id,
		PetID:          petID,
		ReporterUserID: "user-1",
		Type:           reports.TypeLost,
		Status:         reports.StatusOpen,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func TestReportsRepo_AppendMatchIsConditional(t *testing.T) {
	repo := NewReportsRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, openLost("rep-1", "pet-1", time.Now())); err != nil {
		t.Fatalf("Create: %v", err)
	}

	m := matching.Match{CandidateReportID: "cand-1", Score: 9}
	for i := 0; i < 3; i++ {
		if err := repo.AppendMatch(ctx, "rep-1", m); err != nil {
			t.Fatalf("AppendMatch: %v", err)
		}
	}

	got, err := repo.GetByID(ctx, "rep-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got.Matches))
	}
}

func TestReportsRepo_AppendMatchConcurrent(t *testing.T) {
	repo := NewReportsRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, openLost("rep-1", "pet-1", time.Now())); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.AppendMatch(ctx, "rep-1", matching.Match{CandidateReportID: "cand-1", Score: 9})
		}()
	}
	wg.Wait()

	got, _ := repo.GetByID(ctx, "rep-1")
	if len(got.Matches) != 1 {
		t.Fatalf("concurrent append duplicated: %d", len(got.Matches))
	}
}

func TestReportsRepo_UpdateDoesNotTouchMatches(t *testing.T) {
	repo := NewReportsRepo()
	ctx := context.Background()

	rep := openLost("rep-1", "pet-1", time.Now())
	if err := repo.Create(ctx, rep); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.AppendMatch(ctx, "rep-1", matching.Match{CandidateReportID: "cand-1", Score: 9}); err != nil {
		t.Fatalf("AppendMatch: %v", err)
	}

	// Un update del reporte (sin matches en el struct) no borra el historial.
	rep.Description = "updated"
	if err := repo.Update(ctx, rep); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := repo.GetByID(ctx, "rep-1")
	if got.Description != "updated" {
		t.Fatalf("description not updated: %q", got.Description)
	}
	if len(got.Matches) != 1 {
		t.Fatalf("update wiped matches: %d", len(got.Matches))
	}
}

func TestReportsRepo_RemoveMatchesFor(t *testing.T) {
	repo := NewReportsRepo()
	ctx := context.Background()

	for _, id := range []string{"rep-1", "rep-2"} {
		if err := repo.Create(ctx, openLost(id, "pet-"+id, time.Now())); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
		_ = repo.AppendMatch(ctx, id, matching.Match{CandidateReportID: "cand-1", Score: 9})
		_ = repo.AppendMatch(ctx, id, matching.Match{CandidateReportID: "cand-2", Score: 8})
	}

	if err := repo.RemoveMatchesFor(ctx, "cand-1"); err != nil {
		t.Fatalf("RemoveMatchesFor: %v", err)
	}

	for _, id := range []string{"rep-1", "rep-2"} {
		got, _ := repo.GetByID(ctx, id)
		if len(got.Matches) != 1 || got.Matches[0].CandidateReportID != "cand-2" {
			t.Fatalf("%s: candidate not purged: %+v", id, got.Matches)
		}
	}
}

func TestReportsRepo_FindOpenByPet(t *testing.T) {
	repo := NewReportsRepo()
	ctx := context.Background()

	rep := openLost("rep-1", "pet-1", time.Now())
	if err := repo.Create(ctx, rep); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.FindOpenByPet(ctx, "pet-1", reports.TypeLost)
	if err != nil {
		t.Fatalf("FindOpenByPet: %v", err)
	}
	if got.ID != "rep-1" {
		t.Fatalf("unexpected report: %s", got.ID)
	}

	if _, err := repo.FindOpenByPet(ctx, "pet-1", reports.TypeFound); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for other type, got %v", err)
	}

	// Cerrado deja de aparecer como abierto.
	rep.Status = reports.StatusClosed
	if err := repo.Update(ctx, rep); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := repo.FindOpenByPet(ctx, "pet-1", reports.TypeLost); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after close, got %v", err)
	}
}

func TestReportsRepo_ClonesOnRead(t *testing.T) {
	repo := NewReportsRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, openLost("rep-1", "pet-1", time.Now())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = repo.AppendMatch(ctx, "rep-1", matching.Match{CandidateReportID: "cand-1", Score: 9})

	got, _ := repo.GetByID(ctx, "rep-1")
	got.Matches[0].CandidateReportID = "mutated"

	fresh, _ := repo.GetByID(ctx, "rep-1")
	if fresh.Matches[0].CandidateReportID != "cand-1" {
		t.Fatal("caller mutation leaked into repo state")
	}
}
