package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/domain/reports"
)

// ReportsRepo persiste reportes en dos tablas:
// - reports: el reporte en sí (ubicación como lng/lat planos)
// - report_matches: historial de matches, PK (report_id, candidate_report_id)
type ReportsRepo struct {
	db *sql.DB
}

func NewReportsRepo(db *sql.DB) *ReportsRepo {
	return &ReportsRepo{db: db}
}

func (r *ReportsRepo) Create(ctx context.Context, rep reports.Report) error {
	lng, lat, hasLoc := locParts(rep.Location)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, pet_id, reporter_user_id,
			type, status,
			description, contact,
			lng, lat, has_location,
			created_at, updated_at, closed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		rep.ID,
		rep.PetID,
		rep.ReporterUserID,
		string(rep.Type),
		string(rep.Status),
		rep.Description,
		rep.Contact,
		lng,
		lat,
		hasLoc,
		rep.CreatedAt,
		rep.UpdatedAt,
		toNullTime(rep.ClosedAt),
	)
	return err
}

func (r *ReportsRepo) Update(ctx context.Context, rep reports.Report) error {
	lng, lat, hasLoc := locParts(rep.Location)
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET
			status = $2,
			description = $3,
			contact = $4,
			lng = $5,
			lat = $6,
			has_location = $7,
			updated_at = $8,
			closed_at = $9
		WHERE id = $1
	`,
		rep.ID,
		string(rep.Status),
		rep.Description,
		rep.Contact,
		lng,
		lat,
		hasLoc,
		rep.UpdatedAt,
		toNullTime(rep.ClosedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reports.Report{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, selectReport+` WHERE id = $1`, id)
	rep, err := scanReport(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return reports.Report{}, ErrNotFound
		}
		return reports.Report{}, err
	}

	rep.Matches, err = r.loadMatches(ctx, rep.ID)
	if err != nil {
		return reports.Report{}, err
	}
	return rep, nil
}

func (r *ReportsRepo) ListByPet(ctx context.Context, petID string) ([]reports.Report, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}
	return r.list(ctx, selectReport+` WHERE pet_id = $1 ORDER BY created_at ASC`, petID)
}

func (r *ReportsRepo) FindOpen(ctx context.Context, t reports.Type) ([]reports.Report, error) {
	return r.list(ctx, selectReport+` WHERE type = $1 AND status = 'open' ORDER BY created_at ASC`, string(t))
}

func (r *ReportsRepo) FindOpenByPet(ctx context.Context, petID string, t reports.Type) (reports.Report, error) {
	row := r.db.QueryRowContext(ctx,
		selectReport+` WHERE pet_id = $1 AND type = $2 AND status = 'open' LIMIT 1`,
		petID, string(t),
	)
	rep, err := scanReport(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return reports.Report{}, ErrNotFound
		}
		return reports.Report{}, err
	}

	rep.Matches, err = r.loadMatches(ctx, rep.ID)
	if err != nil {
		return reports.Report{}, err
	}
	return rep, nil
}

// AppendMatch: ON CONFLICT DO NOTHING = append condicional atómico.
// Dos scanners contra la misma base no pueden duplicar el par.
func (r *ReportsRepo) AppendMatch(ctx context.Context, reportID string, m matching.Match) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_matches (
			report_id, candidate_report_id, candidate_pet_id, score, matched_at
		) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (report_id, candidate_report_id) DO NOTHING
	`,
		reportID,
		m.CandidateReportID,
		m.CandidatePetID,
		m.Score,
		m.MatchedAt,
	)
	return err
}

func (r *ReportsRepo) HasMatch(ctx context.Context, reportID, candidateReportID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM report_matches
			WHERE report_id = $1 AND candidate_report_id = $2
		)
	`, reportID, candidateReportID).Scan(&exists)
	return exists, err
}

func (r *ReportsRepo) ClearMatches(ctx context.Context, reportID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM report_matches WHERE report_id = $1
	`, reportID)
	return err
}

func (r *ReportsRepo) RemoveMatchesFor(ctx context.Context, candidateReportID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM report_matches WHERE candidate_report_id = $1
	`, candidateReportID)
	return err
}

const selectReport = `
	SELECT
		id, pet_id, reporter_user_id,
		type, status,
		description, contact,
		lng, lat, has_location,
		created_at, updated_at, closed_at
	FROM reports
`

func (r *ReportsRepo) list(ctx context.Context, query string, args ...any) ([]reports.Report, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// N+1 sobre matches: aceptable con los volúmenes actuales; si el
	// producto crece, cambiar a un join agregado.
	for i := range out {
		out[i].Matches, err = r.loadMatches(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ReportsRepo) loadMatches(ctx context.Context, reportID string) ([]matching.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT candidate_report_id, candidate_pet_id, score, matched_at
		FROM report_matches
		WHERE report_id = $1
		ORDER BY matched_at ASC
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []matching.Match
	for rows.Next() {
		var m matching.Match
		if err := rows.Scan(&m.CandidateReportID, &m.CandidatePetID, &m.Score, &m.MatchedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanReport(scan func(...any) error) (reports.Report, error) {
	var rep reports.Report
	var typ, status string
	var lng, lat float64
	var hasLoc bool
	var closedAt sql.NullTime

	if err := scan(
		&rep.ID,
		&rep.PetID,
		&rep.ReporterUserID,
		&typ,
		&status,
		&rep.Description,
		&rep.Contact,
		&lng,
		&lat,
		&hasLoc,
		&rep.CreatedAt,
		&rep.UpdatedAt,
		&closedAt,
	); err != nil {
		return reports.Report{}, err
	}

	rep.Type = reports.Type(typ)
	rep.Status = reports.Status(status)
	if hasLoc {
		rep.Location = &matching.Coordinates{Lng: lng, Lat: lat}
	}
	if closedAt.Valid {
		t := closedAt.Time
		rep.ClosedAt = &t
	}
	return rep, nil
}

func locParts(c *matching.Coordinates) (lng, lat float64, has bool) {
	if c == nil {
		return 0, 0, false
	}
	return c.Lng, c.Lat, true
}
