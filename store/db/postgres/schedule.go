package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

const scheduleFields = "id, uid, user_id, title, description, start_time, end_time, duration_hours, priority, complexity, energy_requirement, status, created_at, updated_at"

func (d *DB) CreateSchedule(ctx context.Context, create *store.Schedule) (*store.Schedule, error) {
	if create.Status == "" {
		create.Status = store.ScheduleStatusPending
	}
	stmt := `
		INSERT INTO schedule (uid, user_id, title, description, start_time, end_time, duration_hours, priority, complexity, energy_requirement, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.Title, create.Description,
		create.StartTime, create.EndTime, create.DurationHours,
		create.Priority, create.Complexity, create.EnergyRequirement, create.Status,
	).Scan(&create.ID, &create.CreatedAt, &create.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to create schedule")
	}
	return create, nil
}

func (d *DB) GetScheduleByUID(ctx context.Context, userID int32, uid string) (*store.Schedule, error) {
	list, err := d.listSchedules(ctx, "user_id = $1 AND uid = $2", []any{userID, uid}, "")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListSchedules(ctx context.Context, find *store.FindSchedule) ([]*store.Schedule, error) {
	where, args := []string{"TRUE"}, []any{}
	if v := find.UserID; v != nil {
		args = append(args, *v)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if v := find.Status; v != nil {
		args = append(args, *v)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	limit := ""
	if v := find.Limit; v != nil {
		args = append(args, *v)
		limit = fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return d.listSchedules(ctx, strings.Join(where, " AND "), args, limit)
}

func (d *DB) listSchedules(ctx context.Context, where string, args []any, limit string) ([]*store.Schedule, error) {
	stmt := `SELECT ` + scheduleFields + `
		FROM schedule
		WHERE ` + where + `
		ORDER BY created_at DESC` + limit

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list schedules")
	}
	defer rows.Close()

	list := []*store.Schedule{}
	for rows.Next() {
		sched := &store.Schedule{}
		if err := rows.Scan(
			&sched.ID, &sched.UID, &sched.UserID, &sched.Title, &sched.Description,
			&sched.StartTime, &sched.EndTime, &sched.DurationHours, &sched.Priority,
			&sched.Complexity, &sched.EnergyRequirement, &sched.Status,
			&sched.CreatedAt, &sched.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan schedule")
		}
		list = append(list, sched)
	}
	return list, rows.Err()
}

func (d *DB) UpdateSchedule(ctx context.Context, update *store.UpdateSchedule) (*store.Schedule, error) {
	set, args := []string{"updated_at = NOW()"}, []any{}
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if v := update.Title; v != nil {
		add("title", *v)
	}
	if v := update.Description; v != nil {
		add("description", *v)
	}
	if v := update.StartTime; v != nil {
		add("start_time", *v)
	}
	if v := update.EndTime; v != nil {
		add("end_time", *v)
	}
	if v := update.DurationHours; v != nil {
		add("duration_hours", *v)
	}
	if v := update.Priority; v != nil {
		add("priority", *v)
	}
	if v := update.Complexity; v != nil {
		add("complexity", *v)
	}
	if v := update.EnergyRequirement; v != nil {
		add("energy_requirement", *v)
	}
	if v := update.Status; v != nil {
		add("status", *v)
	}

	args = append(args, update.UserID)
	userArg := len(args)
	args = append(args, update.UID)
	uidArg := len(args)

	stmt := fmt.Sprintf(`UPDATE schedule SET %s WHERE user_id = $%d AND uid = $%d`,
		strings.Join(set, ", "), userArg, uidArg)
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to update schedule")
	}
	return d.GetScheduleByUID(ctx, update.UserID, update.UID)
}

func (d *DB) DeleteSchedule(ctx context.Context, userID int32, uid string) error {
	stmt := `DELETE FROM schedule WHERE user_id = $1 AND uid = $2`
	if _, err := d.db.ExecContext(ctx, stmt, userID, uid); err != nil {
		return errors.Wrap(err, "failed to delete schedule")
	}
	return nil
}
