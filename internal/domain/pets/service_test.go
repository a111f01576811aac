package pets

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

var errRepoNotFound = errors.New("repo: not found")

func (r *testRepo) Create(_ context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(_ context.Context, ownerUserID string) ([]Pet, error) {
	var out []Pet
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	svc := NewService(newTestRepo())

	p, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:     " Rocky ",
		Species:  "dog",
		Breed:    "Labrador Retriever",
		Age:      "3",
		FurColor: "golden",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated id")
	}
	if p.Name != "Rocky" {
		t.Fatalf("name not trimmed: %q", p.Name)
	}
	if p.OwnerUserID != "user-1" {
		t.Fatalf("unexpected owner: %s", p.OwnerUserID)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", CreateInput{Name: "Rocky", Species: "dog"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without owner, got %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", CreateInput{Species: "dog"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without name, got %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Rocky"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without species, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-1", CreateInput{Name: "Rocky", Species: "dog"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.UpdateProfile(ctx, p.ID, "user-1", UpdateProfileInput{
		FurColor:  strPtr("golden"),
		Age:       strPtr("4"),
		BirthDate: strPtr("2022-06-15"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.FurColor != "golden" || got.Age != "4" {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.BirthDate == nil || !got.BirthDate.Equal(time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("birth date not parsed: %v", got.BirthDate)
	}
	// Campos no incluidos en el patch quedan como estaban.
	if got.Name != "Rocky" || got.Species != "dog" {
		t.Fatalf("untouched fields changed: %+v", got)
	}

	// String vacío limpia la fecha.
	got, err = svc.UpdateProfile(ctx, p.ID, "user-1", UpdateProfileInput{BirthDate: strPtr("")})
	if err != nil {
		t.Fatalf("UpdateProfile clear: %v", err)
	}
	if got.BirthDate != nil {
		t.Fatalf("birth date not cleared: %v", got.BirthDate)
	}
}

func TestUpdateProfile_OnlyOwner(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-1", CreateInput{Name: "Rocky", Species: "dog"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, p.ID, "user-2", UpdateProfileInput{Age: strPtr("4")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-1", CreateInput{Name: "Rocky", Species: "dog"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, p.ID, "user-1", UpdateProfileInput{Name: strPtr("  ")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput clearing name, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, p.ID, "user-1", UpdateProfileInput{BirthDate: strPtr("15/06/2022")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}
}
