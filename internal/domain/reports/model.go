package reports

import (
	"time"

	"pet-lost-found/internal/domain/matching"
)

// Type distingue el evento reportado.
// @Enum lost, found
type Type string

const (
	TypeLost  Type = "lost"
	TypeFound Type = "found"
)

// Status es el ciclo de vida del reporte.
// open -> confirmed (match confirmado por el owner)
// open -> closed    (cierre manual, o reporte found consumido por una confirmación ajena)
type Status string

const (
	StatusOpen      Status = "open"
	StatusClosed    Status = "closed"
	StatusConfirmed Status = "confirmed"
)

// Report desacopla el evento lost/found del perfil de la mascota:
// referencia por PetID y lleva su propio estado y reporter. Una mascota
// puede acumular reportes históricos; a lo sumo uno abierto por tipo.
type Report struct {
	ID             string
	PetID          string
	ReporterUserID string

	Type   Type
	Status Status

	Description string
	Contact     string // cómo contactar al reporter (teléfono, etc.)

	// Location: dónde se perdió/encontró. Puede ser nil; el motor de
	// matching asume [0,0] en ese caso.
	Location *matching.Coordinates

	// Matches: historial de coincidencias, solo en reportes lost.
	// Append-only, único por candidato; se limpia al confirmar/cerrar.
	Matches []matching.Match

	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
}
