package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

func (d *DB) CreateBioRhythmRecord(ctx context.Context, create *store.BioRhythmRecord) (*store.BioRhythmRecord, error) {
	stmt := `
		INSERT INTO biorhythm_record (uid, user_id, session_id, energy_level, confidence, forecast)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, created_ts`
	var createdTs int64
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.SessionID,
		create.EnergyLevel, create.Confidence, create.Forecast,
	).Scan(&create.ID, &createdTs); err != nil {
		return nil, errors.Wrap(err, "failed to create biorhythm record")
	}
	create.CreatedAt = unixTime(createdTs)
	return create, nil
}

func (d *DB) ListBioRhythmRecords(ctx context.Context, find *store.FindBioRhythmRecord) ([]*store.BioRhythmRecord, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}
	if v := find.SessionID; v != nil {
		where, args = append(where, "session_id = ?"), append(args, *v)
	}
	if v := find.Since; v != nil {
		where, args = append(where, "created_ts >= ?"), append(args, v.Unix())
	}

	stmt := `
		SELECT id, uid, user_id, session_id, energy_level, confidence, forecast, created_ts
		FROM biorhythm_record
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`
	if v := find.Limit; v != nil {
		stmt += " LIMIT ?"
		args = append(args, *v)
	}

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list biorhythm records")
	}
	defer rows.Close()

	list := []*store.BioRhythmRecord{}
	for rows.Next() {
		record := &store.BioRhythmRecord{}
		var createdTs int64
		if err := rows.Scan(
			&record.ID, &record.UID, &record.UserID, &record.SessionID,
			&record.EnergyLevel, &record.Confidence, &record.Forecast, &createdTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan biorhythm record")
		}
		record.CreatedAt = unixTime(createdTs)
		list = append(list, record)
	}
	return list, rows.Err()
}
