package matching

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-lost-found/internal/ports/notify"
)

// fakeStore: implementación en memoria de Store para los tests del
// scanner. Los hooks permiten inyectar fallas o bloquear llamadas.
type fakeStore struct {
	mu      sync.Mutex
	lost    []Candidate
	found   []Candidate
	matches map[string][]Match // lostReportID => matches

	openLostHook func(ctx context.Context) error
	hasMatchErr  error
	appendErr    error
}

func newFakeStore(lost, found []Candidate) *fakeStore {
	return &fakeStore{lost: lost, found: found, matches: map[string][]Match{}}
}

func (s *fakeStore) OpenLost(ctx context.Context) ([]Candidate, error) {
	if s.openLostHook != nil {
		if err := s.openLostHook(ctx); err != nil {
			return nil, err
		}
	}
	return s.lost, nil
}

func (s *fakeStore) OpenFound(context.Context) ([]Candidate, error) {
	return s.found, nil
}

func (s *fakeStore) HasMatch(_ context.Context, lostReportID, candidateReportID string) (bool, error) {
	if s.hasMatchErr != nil {
		return false, s.hasMatchErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches[lostReportID] {
		if m.CandidateReportID == candidateReportID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) AppendMatch(_ context.Context, lostReportID string, m Match) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[lostReportID] = append(s.matches[lostReportID], m)
	return nil
}

// spyGateway registra cada envío; sendErr fuerza la falla.
type spyGateway struct {
	mu      sync.Mutex
	sent    []string // user IDs notificados, en orden
	sendErr error
}

func (g *spyGateway) Send(_ context.Context, userID, _, _, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return "", g.sendErr
	}
	g.sent = append(g.sent, userID)
	return "msg-1", nil
}

// spyScorer cuenta las invocaciones delegando en el scorer real.
type spyScorer struct {
	inner PairScorer
	calls int
}

func (s *spyScorer) Score(lost, found Candidate) int {
	s.calls++
	return s.inner.Score(lost, found)
}

func TestScanner_RecordsAndNotifiesMatch(t *testing.T) {
	store := newFakeStore([]Candidate{lostLabrador()}, []Candidate{foundNearbyLabrador()})
	gw := &spyGateway{}
	sc := NewScanner(store, NewScorer(nil), gw, nil, nil)

	require.NoError(t, sc.Scan(context.Background()))

	ms := store.matches["rep-lost-1"]
	require.Len(t, ms, 1)
	assert.Equal(t, "rep-found-1", ms[0].CandidateReportID)
	assert.Equal(t, "pet-2", ms[0].CandidatePetID)
	assert.Equal(t, 13, ms[0].Score)
	assert.False(t, ms[0].MatchedAt.IsZero())

	assert.Equal(t, []string{"user-1"}, gw.sent)
}

func TestScanner_BelowThresholdNotRecorded(t *testing.T) {
	lost := lostLabrador()
	// Cerca pero solo proximidad: 6 < umbral 7.
	found := Candidate{
		ReportID: "rep-found-2",
		PetID:    "pet-3",
		Species:  "dog",
		Location: &Coordinates{Lng: 34.7805, Lat: 32.0905},
	}
	store := newFakeStore([]Candidate{lost}, []Candidate{found})
	gw := &spyGateway{}
	sc := NewScanner(store, NewScorer(nil), gw, nil, nil)

	require.NoError(t, sc.Scan(context.Background()))

	assert.Empty(t, store.matches["rep-lost-1"])
	assert.Empty(t, gw.sent)
}

func TestScanner_ExactThresholdIsRecorded(t *testing.T) {
	lost := lostLabrador()
	// Raza exacta (4) + pelaje (3) a ~5 km: pasa el pre-filtro de 10 km
	// pero queda fuera del radio fino de 3 km. Exactamente el umbral de 7.
	found := Candidate{
		ReportID: "rep-found-7",
		PetID:    "pet-7",
		Species:  "dog",
		Breed:    "labrador retriever",
		FurColor: "golden",
		Location: &Coordinates{Lng: 34.78, Lat: 32.135},
	}
	require.Equal(t, 7, NewScorer(nil).Score(lost, found))

	store := newFakeStore([]Candidate{lost}, []Candidate{found})
	gw := &spyGateway{}
	sc := NewScanner(store, NewScorer(nil), gw, nil, nil)

	require.NoError(t, sc.Scan(context.Background()))

	ms := store.matches["rep-lost-1"]
	require.Len(t, ms, 1)
	assert.Equal(t, 7, ms[0].Score)
	assert.Equal(t, []string{"user-1"}, gw.sent)
}

func TestScanner_DistancePrefilterSkipsScoring(t *testing.T) {
	lost := lostLabrador()
	// Mismo perro calcado pero a ~15 km: el pre-filtro de 10 km lo
	// descarta antes de llamar al scorer.
	found := foundNearbyLabrador()
	found.Location = &Coordinates{Lng: 34.78, Lat: 32.225}

	store := newFakeStore([]Candidate{lost}, []Candidate{found})
	spy := &spyScorer{inner: NewScorer(nil)}
	sc := NewScanner(store, spy, nil, nil, nil)

	require.NoError(t, sc.Scan(context.Background()))

	assert.Zero(t, spy.calls)
	assert.Empty(t, store.matches["rep-lost-1"])
}

func TestScanner_RescanIsIdempotent(t *testing.T) {
	store := newFakeStore([]Candidate{lostLabrador()}, []Candidate{foundNearbyLabrador()})
	gw := &spyGateway{}
	sc := NewScanner(store, NewScorer(nil), gw, nil, nil)

	ctx := context.Background()
	require.NoError(t, sc.Scan(ctx))
	require.NoError(t, sc.Scan(ctx))
	require.NoError(t, sc.Scan(ctx))

	// Un solo match registrado y una sola notificación: los ticks
	// siguientes ven el match existente y no vuelven a avisar.
	assert.Len(t, store.matches["rep-lost-1"], 1)
	assert.Equal(t, []string{"user-1"}, gw.sent)
}

func TestScanner_SkipsSamePetPair(t *testing.T) {
	lost := lostLabrador()
	found := foundNearbyLabrador()
	found.PetID = lost.PetID

	store := newFakeStore([]Candidate{lost}, []Candidate{found})
	sc := NewScanner(store, NewScorer(nil), nil, nil, nil)

	require.NoError(t, sc.Scan(context.Background()))
	assert.Empty(t, store.matches["rep-lost-1"])
}

func TestScanner_StoreErrorAbortsTick(t *testing.T) {
	boom := errors.New("db down")

	t.Run("loading reports", func(t *testing.T) {
		store := newFakeStore(nil, nil)
		store.openLostHook = func(context.Context) error { return boom }
		sc := NewScanner(store, NewScorer(nil), nil, nil, nil)

		err := sc.Scan(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("checking existing match", func(t *testing.T) {
		store := newFakeStore([]Candidate{lostLabrador()}, []Candidate{foundNearbyLabrador()})
		store.hasMatchErr = boom
		sc := NewScanner(store, NewScorer(nil), nil, nil, nil)

		err := sc.Scan(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, store.matches["rep-lost-1"])
	})

	t.Run("appending match", func(t *testing.T) {
		store := newFakeStore([]Candidate{lostLabrador()}, []Candidate{foundNearbyLabrador()})
		store.appendErr = boom
		gw := &spyGateway{}
		sc := NewScanner(store, NewScorer(nil), gw, nil, nil)

		err := sc.Scan(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, gw.sent, "sin match persistido no hay aviso")
	})
}

func TestScanner_NotifyErrorDoesNotAbort(t *testing.T) {
	lostB := lostLabrador()
	lostB.ReportID = "rep-lost-2"
	lostB.PetID = "pet-5"
	lostB.OwnerUserID = "user-2"

	store := newFakeStore([]Candidate{lostLabrador(), lostB}, []Candidate{foundNearbyLabrador()})
	gw := &spyGateway{sendErr: notify.ErrNoDevice}
	sc := NewScanner(store, NewScorer(nil), gw, nil, nil)

	require.NoError(t, sc.Scan(context.Background()))

	// Ambos matches quedan persistidos aunque ningún push salió.
	assert.Len(t, store.matches["rep-lost-1"], 1)
	assert.Len(t, store.matches["rep-lost-2"], 1)
	assert.Empty(t, gw.sent)
}

func TestScanner_OverlappingTickIsRejected(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	store := newFakeStore([]Candidate{lostLabrador()}, []Candidate{foundNearbyLabrador()})
	store.openLostHook = func(context.Context) error {
		close(entered)
		<-release
		return nil
	}
	sc := NewScanner(store, NewScorer(nil), nil, nil, nil)

	done := make(chan error, 1)
	go func() { done <- sc.Scan(context.Background()) }()
	<-entered

	// Segundo tick mientras el primero sigue adentro.
	assert.ErrorIs(t, sc.Scan(context.Background()), ErrScanInProgress)

	close(release)
	require.NoError(t, <-done)

	// Con el primero terminado, un tick nuevo vuelve a pasar.
	store.openLostHook = nil
	require.NoError(t, sc.Scan(context.Background()))
	assert.Len(t, store.matches["rep-lost-1"], 1)
}

func TestScanner_ContextCancelStopsSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore([]Candidate{lostLabrador()}, []Candidate{foundNearbyLabrador()})
	sc := NewScanner(store, NewScorer(nil), nil, nil, nil)

	assert.ErrorIs(t, sc.Scan(ctx), context.Canceled)
	assert.Empty(t, store.matches["rep-lost-1"])
}
