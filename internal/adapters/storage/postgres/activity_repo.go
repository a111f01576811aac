package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pet-lost-found/internal/domain/activity"
)

type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Create(ctx context.Context, e activity.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_activity (
			id, pet_id, report_id,
			type, occurred_at, recorded_at,
			title, detail,
			actor_type, actor_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		e.ID,
		e.PetID,
		e.ReportID,
		string(e.Type),
		e.OccurredAt,
		e.RecordedAt,
		e.Title,
		e.Detail,
		string(e.Actor.Type),
		e.Actor.ID,
	)
	return err
}

func (r *ActivityRepo) ListByPet(ctx context.Context, petID string, filter activity.ListFilter) ([]activity.Entry, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, pet_id, report_id,
			type, occurred_at, recorded_at,
			title, detail,
			actor_type, actor_id
		FROM pet_activity
		WHERE pet_id = $1
	`)

	args := []any{petID}
	argN := 2

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(placeholders, ",") + ")")
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	sb.WriteString(" ORDER BY occurred_at DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]activity.Entry, 0)
	for rows.Next() {
		var e activity.Entry
		var typ, actorType string
		if err := rows.Scan(
			&e.ID,
			&e.PetID,
			&e.ReportID,
			&typ,
			&e.OccurredAt,
			&e.RecordedAt,
			&e.Title,
			&e.Detail,
			&actorType,
			&e.Actor.ID,
		); err != nil {
			return nil, err
		}
		e.Type = activity.Type(typ)
		e.Actor.Type = activity.ActorType(actorType)
		out = append(out, e)
	}

	return out, rows.Err()
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
