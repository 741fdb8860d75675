package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

func (d *DB) CreateFatigueRecord(ctx context.Context, create *store.FatigueRecord) (*store.FatigueRecord, error) {
	stmt := `
		INSERT INTO fatigue_record (uid, user_id, session_id, overall, facial, typing, historical, level, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_ts`
	var createdTs int64
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.SessionID,
		create.Overall, create.Facial, create.Typing, create.Historical,
		create.Level, create.Confidence,
	).Scan(&create.ID, &createdTs); err != nil {
		return nil, errors.Wrap(err, "failed to create fatigue record")
	}
	create.CreatedAt = unixTime(createdTs)
	return create, nil
}

func (d *DB) ListFatigueRecords(ctx context.Context, find *store.FindFatigueRecord) ([]*store.FatigueRecord, error) {
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
		SELECT id, uid, user_id, session_id, overall, facial, typing, historical, level, confidence, created_ts
		FROM fatigue_record
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`
	if v := find.Limit; v != nil {
		stmt += " LIMIT ?"
		args = append(args, *v)
	}

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list fatigue records")
	}
	defer rows.Close()

	list := []*store.FatigueRecord{}
	for rows.Next() {
		record := &store.FatigueRecord{}
		var createdTs int64
		if err := rows.Scan(
			&record.ID, &record.UID, &record.UserID, &record.SessionID,
			&record.Overall, &record.Facial, &record.Typing, &record.Historical,
			&record.Level, &record.Confidence, &createdTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan fatigue record")
		}
		record.CreatedAt = unixTime(createdTs)
		list = append(list, record)
	}
	return list, rows.Err()
}
