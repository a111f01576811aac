package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	entries []Entry
}

func (r *testRepo) Create(_ context.Context, e Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *testRepo) ListByPet(_ context.Context, petID string, _ ListFilter) ([]Entry, error) {
	var out []Entry
	for _, e := range r.entries {
		if e.PetID == petID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestRecord(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	e, err := svc.Record(context.Background(), RecordInput{
		PetID:    "pet-1",
		ReportID: "rep-1",
		Type:     TypeReportLost,
		Title:    " Rocky reported lost ",
		Actor:    Actor{Type: ActorTypeUser, ID: "user-1"},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if e.ID == "" {
		t.Fatal("expected generated id")
	}
	if e.Title != "Rocky reported lost" {
		t.Fatalf("title not trimmed: %q", e.Title)
	}
	if !e.OccurredAt.Equal(fixed) || !e.RecordedAt.Equal(fixed) {
		t.Fatalf("unexpected timestamps: %v / %v", e.OccurredAt, e.RecordedAt)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("entry not stored: %d", len(repo.entries))
	}
}

func TestRecord_Validation(t *testing.T) {
	svc := NewService(&testRepo{})
	ctx := context.Background()

	cases := []RecordInput{
		// sin pet, sin tipo, sin actor, actor sin id
		{Type: TypeReportLost, Actor: Actor{Type: ActorTypeUser, ID: "u"}},
		{PetID: "pet-1", Actor: Actor{Type: ActorTypeUser, ID: "u"}},
		{PetID: "pet-1", Type: TypeReportLost},
		{PetID: "pet-1", Type: TypeReportLost, Actor: Actor{Type: ActorTypeUser}},
	}
	for i, in := range cases {
		if _, err := svc.Record(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestListByPet_RequiresPetID(t *testing.T) {
	svc := NewService(&testRepo{})

	if _, err := svc.ListByPet(context.Background(), "  ", ListFilter{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
