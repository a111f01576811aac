package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestQuery_SpeciesRequired(t *testing.T) {
	svc := NewService(newFakeStore(nil, nil), NewScorer(nil), nil)

	_, err := svc.Query(context.Background(), QueryInput{Species: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuery_NegativeMinScoreRejected(t *testing.T) {
	svc := NewService(newFakeStore(nil, nil), NewScorer(nil), nil)

	_, err := svc.Query(context.Background(), QueryInput{Species: "dog", MinScore: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuery_DefaultThresholdAndOrdering(t *testing.T) {
	strong := lostLabrador() // contra el probe de abajo: 2+3+2+6 = 13
	weak := Candidate{       // solo especie y proximidad: 6 < 8
		ReportID: "rep-lost-9",
		PetID:    "pet-9",
		Species:  "dog",
		Location: &Coordinates{Lng: 34.78, Lat: 32.09},
	}
	medium := lostLabrador() // sin edad: 2+3+6 = 11
	medium.ReportID = "rep-lost-5"
	medium.PetID = "pet-5"
	medium.Age = ""

	store := newFakeStore([]Candidate{weak, medium, strong}, nil)
	svc := NewService(store, NewScorer(nil), nil)

	got, err := svc.Query(context.Background(), QueryInput{
		Species:  "dog",
		Breed:    "Labrador",
		Age:      "3",
		FurColor: "golden",
		Location: &Coordinates{Lng: 34.781, Lat: 32.091},
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "rep-lost-1", got[0].Candidate.ReportID)
	assert.Equal(t, 13, got[0].Score)
	assert.Equal(t, "rep-lost-5", got[1].Candidate.ReportID)
	assert.Equal(t, 11, got[1].Score)
}

func TestQuery_ExplicitMinScore(t *testing.T) {
	weak := Candidate{
		ReportID: "rep-lost-9",
		PetID:    "pet-9",
		Species:  "dog",
		Location: &Coordinates{Lng: 34.78, Lat: 32.09},
	}
	store := newFakeStore([]Candidate{weak}, nil)
	svc := NewService(store, NewScorer(nil), nil)

	probe := QueryInput{
		Species:  "dog",
		Location: &Coordinates{Lng: 34.78, Lat: 32.09},
		MinScore: intPtr(6),
	}
	got, err := svc.Query(context.Background(), probe)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 6, got[0].Score)

	// min_score=0 también es válido y devuelve hasta los puntajes cero.
	probe.MinScore = intPtr(0)
	got, err = svc.Query(context.Background(), probe)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestQuery_TieBreakIsStable(t *testing.T) {
	a := Candidate{ReportID: "rep-b", PetID: "p1", Species: "cat"}
	b := Candidate{ReportID: "rep-a", PetID: "p2", Species: "cat"}

	store := newFakeStore([]Candidate{a, b}, nil)
	svc := NewService(store, NewScorer(nil), nil)

	got, err := svc.Query(context.Background(), QueryInput{Species: "cat", MinScore: intPtr(0)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rep-a", got[0].Candidate.ReportID)
	assert.Equal(t, "rep-b", got[1].Candidate.ReportID)
}
