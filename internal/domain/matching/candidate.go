package matching

import "time"

// Candidate es la vista mínima de un reporte abierto (unido a su mascota)
// que necesita el motor. La arma reports.Service; el motor no conoce
// reportes ni mascotas completas.
type Candidate struct {
	ReportID    string
	PetID       string
	OwnerUserID string
	PetName     string

	Species  string
	Breed    string
	Age      string // texto libre ("3 years", "2.5"); se parsea el prefijo numérico
	FurColor string
	EyeColor string

	Contact string

	// Location puede ser nil (reporte sin coordenadas). El motor asume
	// el valor cero [0,0]: degenerado pero definido (ver DistanceKm).
	Location *Coordinates
}

func (c Candidate) coords() Coordinates {
	if c.Location == nil {
		return Coordinates{}
	}
	return *c.Location
}

// Match es una coincidencia registrada sobre un reporte de pérdida.
// Append-only: un candidato aparece a lo sumo una vez por reporte.
type Match struct {
	CandidateReportID string    `json:"candidate_report_id"`
	CandidatePetID    string    `json:"candidate_pet_id"`
	Score             int       `json:"score"`
	MatchedAt         time.Time `json:"matched_at"`
}
