package activity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	PetID    string
	ReportID string
	Type     Type
	Title    string
	Detail   string
	Actor    Actor
}

// Record agrega una línea al timeline. OccurredAt == RecordedAt == now:
// acá no hay backdating, todo lo que se registra acaba de pasar.
func (s *Service) Record(ctx context.Context, in RecordInput) (Entry, error) {
	if strings.TrimSpace(in.PetID) == "" {
		return Entry{}, ErrInvalidInput
	}
	if in.Type == "" {
		return Entry{}, ErrInvalidInput
	}
	if in.Actor.Type == "" || strings.TrimSpace(in.Actor.ID) == "" {
		return Entry{}, ErrInvalidInput
	}

	now := s.now()
	e := Entry{
		ID:         uuid.NewString(),
		PetID:      strings.TrimSpace(in.PetID),
		ReportID:   strings.TrimSpace(in.ReportID),
		Type:       in.Type,
		OccurredAt: now,
		RecordedAt: now,
		Title:      strings.TrimSpace(in.Title),
		Detail:     strings.TrimSpace(in.Detail),
		Actor:      in.Actor,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Entry, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPet(ctx, petID, filter)
}
