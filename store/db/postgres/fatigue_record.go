package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

func (d *DB) CreateFatigueRecord(ctx context.Context, create *store.FatigueRecord) (*store.FatigueRecord, error) {
	stmt := `
		INSERT INTO fatigue_record (uid, user_id, session_id, overall, facial, typing, historical, level, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.SessionID,
		create.Overall, create.Facial, create.Typing, create.Historical,
		create.Level, create.Confidence,
	).Scan(&create.ID, &create.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to create fatigue record")
	}
	return create, nil
}

func (d *DB) ListFatigueRecords(ctx context.Context, find *store.FindFatigueRecord) ([]*store.FatigueRecord, error) {
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
		SELECT id, uid, user_id, session_id, overall, facial, typing, historical, level, confidence, created_at
		FROM fatigue_record
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC`
	if v := find.Limit; v != nil {
		args = append(args, *v)
		stmt += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list fatigue records")
	}
	defer rows.Close()

	list := []*store.FatigueRecord{}
	for rows.Next() {
		record := &store.FatigueRecord{}
		if err := rows.Scan(
			&record.ID, &record.UID, &record.UserID, &record.SessionID,
			&record.Overall, &record.Facial, &record.Typing, &record.Historical,
			&record.Level, &record.Confidence, &record.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan fatigue record")
		}
		list = append(list, record)
	}
	return list, rows.Err()
}
