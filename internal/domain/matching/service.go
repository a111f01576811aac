package matching

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Service resuelve la consulta ad-hoc: "encontré esta mascota,
// ¿qué reportes de pérdida abiertos se le parecen?".
type Service struct {
	store  Store
	scorer PairScorer
	cfg    ConfigSource
}

func NewService(store Store, scorer PairScorer, cfg ConfigSource) *Service {
	if cfg == nil {
		cfg = Static(DefaultConfig())
	}
	return &Service{store: store, scorer: scorer, cfg: cfg}
}

// QueryInput es el payload de la mascota encontrada. Species es lo único
// obligatorio (sin especie el scorer devuelve 0 contra todo).
type QueryInput struct {
	Species  string
	Breed    string
	Age      string
	FurColor string
	EyeColor string
	Location *Coordinates

	// MinScore: si es nil se usa QueryThreshold de la config
	// (más exigente que el umbral del scanner a propósito: acá no hay
	// pre-filtro de distancia y el que consulta espera pocos resultados buenos).
	MinScore *int
}

// QueryMatch es un reporte de pérdida abierto puntuado contra el payload.
type QueryMatch struct {
	Candidate Candidate
	Score     int
}

// Query puntúa todos los reportes de pérdida abiertos contra el payload
// y devuelve los que alcanzan el mínimo, ordenados por puntaje descendente.
func (s *Service) Query(ctx context.Context, in QueryInput) ([]QueryMatch, error) {
	if strings.TrimSpace(in.Species) == "" {
		return nil, ErrInvalidInput
	}

	min := s.cfg.Current().QueryThreshold
	if in.MinScore != nil {
		if *in.MinScore < 0 {
			return nil, ErrInvalidInput
		}
		min = *in.MinScore
	}

	lost, err := s.store.OpenLost(ctx)
	if err != nil {
		return nil, err
	}

	probe := Candidate{
		Species:  in.Species,
		Breed:    in.Breed,
		Age:      in.Age,
		FurColor: in.FurColor,
		EyeColor: in.EyeColor,
		Location: in.Location,
	}

	out := make([]QueryMatch, 0)
	for _, l := range lost {
		score := s.scorer.Score(l, probe)
		if score < min {
			continue
		}
		out = append(out, QueryMatch{Candidate: l, Score: score})
	}

	// Descendente por score; desempate por report id para salida estable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Candidate.ReportID < out[j].Candidate.ReportID
	})

	return out, nil
}
