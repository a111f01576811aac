package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
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

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	Age       string
	FurColor  string
	EyeColor  string
	BirthDate *time.Time
	Microchip string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     strings.TrimSpace(in.Species),
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         strings.TrimSpace(in.Sex),
		Age:         strings.TrimSpace(in.Age),
		FurColor:    strings.TrimSpace(in.FurColor),
		EyeColor:    strings.TrimSpace(in.EyeColor),
		BirthDate:   in.BirthDate,
		Microchip:   strings.TrimSpace(in.Microchip),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// UpdateProfileInput: punteros para PATCH real, nil = no tocar.
type UpdateProfileInput struct {
	Name      *string
	Species   *string
	Breed     *string
	Sex       *string
	Age       *string
	FurColor  *string
	EyeColor  *string
	BirthDate *string // YYYY-MM-DD; string vacío limpia el campo
	Microchip *string
	Notes     *string
}

// UpdateProfile aplica un patch parcial. Solo el owner puede editar.
func (s *Service) UpdateProfile(ctx context.Context, petID, userID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(petID))
	if err != nil {
		return Pet{}, ErrNotFound
	}
	if p.OwnerUserID != userID {
		return Pet{}, ErrForbidden
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		if strings.TrimSpace(*in.Species) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Species = strings.TrimSpace(*in.Species)
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		p.Sex = strings.TrimSpace(*in.Sex)
	}
	if in.Age != nil {
		p.Age = strings.TrimSpace(*in.Age)
	}
	if in.FurColor != nil {
		p.FurColor = strings.TrimSpace(*in.FurColor)
	}
	if in.EyeColor != nil {
		p.EyeColor = strings.TrimSpace(*in.EyeColor)
	}
	if in.BirthDate != nil {
		bd := strings.TrimSpace(*in.BirthDate)
		if bd == "" {
			p.BirthDate = nil
		} else {
			t, err := time.Parse("2006-01-02", bd)
			if err != nil {
				return Pet{}, ErrInvalidInput
			}
			p.BirthDate = &t
		}
	}
	if in.Microchip != nil {
		p.Microchip = strings.TrimSpace(*in.Microchip)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}
