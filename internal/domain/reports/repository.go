package reports

import (
	"context"

	"pet-lost-found/internal/domain/matching"
)

type Repository interface {
	Create(ctx context.Context, r Report) error
	Update(ctx context.Context, r Report) error
	GetByID(ctx context.Context, id string) (Report, error)
	ListByPet(ctx context.Context, petID string) ([]Report, error)

	// FindOpen devuelve todos los reportes abiertos de un tipo.
	FindOpen(ctx context.Context, t Type) ([]Report, error)

	// FindOpenByPet: el reporte abierto de ese tipo para esa mascota,
	// o ErrNotFound del adapter (a lo sumo hay uno).
	FindOpenByPet(ctx context.Context, petID string, t Type) (Report, error)

	// AppendMatch agrega un match si el candidato no estaba ya en la
	// lista. Append condicional atómico a nivel de registro: bajo
	// escritores concurrentes no puede duplicar.
	AppendMatch(ctx context.Context, reportID string, m matching.Match) error
	HasMatch(ctx context.Context, reportID, candidateReportID string) (bool, error)
	ClearMatches(ctx context.Context, reportID string) error

	// RemoveMatchesFor purga las entradas que referencian a un candidato
	// en TODOS los reportes (el candidato confirmado ya no está disponible).
	RemoveMatchesFor(ctx context.Context, candidateReportID string) error
}
