package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

func (d *DB) CreateSchedule(ctx context.Context, create *store.Schedule) (*store.Schedule, error) {
	if create.Status == "" {
		create.Status = store.ScheduleStatusPending
	}
	stmt := `
		INSERT INTO schedule (uid, user_id, title, description, start_ts, end_ts, duration_hours, priority, complexity, energy_requirement, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_ts, updated_ts`
	var createdTs, updatedTs int64
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.Title, create.Description,
		nullableUnix(create.StartTime), nullableUnix(create.EndTime),
		create.DurationHours, create.Priority, create.Complexity,
		create.EnergyRequirement, create.Status,
	).Scan(&create.ID, &createdTs, &updatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create schedule")
	}
	create.CreatedAt = unixTime(createdTs)
	create.UpdatedAt = unixTime(updatedTs)
	return create, nil
}

func (d *DB) GetScheduleByUID(ctx context.Context, userID int32, uid string) (*store.Schedule, error) {
	list, err := d.listSchedules(ctx, "user_id = ? AND uid = ?", []any{userID, uid}, "")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListSchedules(ctx context.Context, find *store.FindSchedule) ([]*store.Schedule, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, *v)
	}
	limit := ""
	if v := find.Limit; v != nil {
		limit = " LIMIT ?"
		args = append(args, *v)
	}
	return d.listSchedules(ctx, strings.Join(where, " AND "), args, limit)
}

func (d *DB) listSchedules(ctx context.Context, where string, args []any, limit string) ([]*store.Schedule, error) {
	stmt := `
		SELECT id, uid, user_id, title, description, start_ts, end_ts, duration_hours, priority, complexity, energy_requirement, status, created_ts, updated_ts
		FROM schedule
		WHERE ` + where + `
		ORDER BY created_ts DESC` + limit

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list schedules")
	}
	defer rows.Close()

	list := []*store.Schedule{}
	for rows.Next() {
		sched := &store.Schedule{}
		var startTs, endTs sql.NullInt64
		var createdTs, updatedTs int64
		if err := rows.Scan(
			&sched.ID, &sched.UID, &sched.UserID, &sched.Title, &sched.Description,
			&startTs, &endTs, &sched.DurationHours, &sched.Priority,
			&sched.Complexity, &sched.EnergyRequirement, &sched.Status,
			&createdTs, &updatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan schedule")
		}
		if startTs.Valid {
			t := unixTime(startTs.Int64)
			sched.StartTime = &t
		}
		if endTs.Valid {
			t := unixTime(endTs.Int64)
			sched.EndTime = &t
		}
		sched.CreatedAt = unixTime(createdTs)
		sched.UpdatedAt = unixTime(updatedTs)
		list = append(list, sched)
	}
	return list, rows.Err()
}

func (d *DB) UpdateSchedule(ctx context.Context, update *store.UpdateSchedule) (*store.Schedule, error) {
	set, args := []string{"updated_ts = strftime('%s', 'now')"}, []any{}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = ?"), append(args, *v)
	}
	if v := update.StartTime; v != nil {
		set, args = append(set, "start_ts = ?"), append(args, v.Unix())
	}
	if v := update.EndTime; v != nil {
		set, args = append(set, "end_ts = ?"), append(args, v.Unix())
	}
	if v := update.DurationHours; v != nil {
		set, args = append(set, "duration_hours = ?"), append(args, *v)
	}
	if v := update.Priority; v != nil {
		set, args = append(set, "priority = ?"), append(args, *v)
	}
	if v := update.Complexity; v != nil {
		set, args = append(set, "complexity = ?"), append(args, *v)
	}
	if v := update.EnergyRequirement; v != nil {
		set, args = append(set, "energy_requirement = ?"), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = ?"), append(args, *v)
	}
	args = append(args, update.UserID, update.UID)

	stmt := `UPDATE schedule SET ` + strings.Join(set, ", ") + ` WHERE user_id = ? AND uid = ?`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to update schedule")
	}
	return d.GetScheduleByUID(ctx, update.UserID, update.UID)
}

func (d *DB) DeleteSchedule(ctx context.Context, userID int32, uid string) error {
	stmt := `DELETE FROM schedule WHERE user_id = ? AND uid = ?`
	if _, err := d.db.ExecContext(ctx, stmt, userID, uid); err != nil {
		return errors.Wrap(err, "failed to delete schedule")
	}
	return nil
}

func nullableUnix(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
