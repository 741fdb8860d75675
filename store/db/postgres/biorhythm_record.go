package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

func (d *DB) CreateBioRhythmRecord(ctx context.Context, create *store.BioRhythmRecord) (*store.BioRhythmRecord, error) {
	forecast := create.Forecast
	if forecast == "" {
		forecast = "[]"
	}
	stmt := `
		INSERT INTO biorhythm_record (uid, user_id, session_id, energy_level, confidence, forecast)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.SessionID,
		create.EnergyLevel, create.Confidence, forecast,
	).Scan(&create.ID, &create.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to create biorhythm record")
	}
	return create, nil
}

func (d *DB) ListBioRhythmRecords(ctx context.Context, find *store.FindBioRhythmRecord) ([]*store.BioRhythmRecord, error) {
	where, args := []string{"TRUE"}, []any{}
	if v := find.UserID; v != nil {
		args = append(args, *v)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if v := find.SessionID; v != nil {
		args = append(args, *v)
		where = append(where, fmt.Sprintf("session_id = $%d", len(args)))
	}
	if v := find.Since; v != nil {
		args = append(args, *v)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	stmt := `
		SELECT id, uid, user_id, session_id, energy_level, confidence, forecast, created_at
		FROM biorhythm_record
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC`
	if v := find.Limit; v != nil {
		args = append(args, *v)
		stmt += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list biorhythm records")
	}
	defer rows.Close()

	list := []*store.BioRhythmRecord{}
	for rows.Next() {
		record := &store.BioRhythmRecord{}
		if err := rows.Scan(
			&record.ID, &record.UID, &record.UserID, &record.SessionID,
			&record.EnergyLevel, &record.Confidence, &record.Forecast, &record.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan biorhythm record")
		}
		list = append(list, record)
	}
	return list, rows.Err()
}
