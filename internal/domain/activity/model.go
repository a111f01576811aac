package activity

import "time"

type Actor struct {
	Type ActorType
	ID   string // user id, o nombre del job para SYSTEM
}

// Entry es una línea del timeline de una mascota. Append-only:
// no se edita ni se borra.
type Entry struct {
	ID       string
	PetID    string
	ReportID string // opcional: reporte relacionado

	Type Type

	OccurredAt time.Time
	RecordedAt time.Time

	Title  string
	Detail string

	Actor Actor
}
