package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	stmt := `
		INSERT INTO user (username, email, nickname, password_hash)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_ts, updated_ts`
	var createdTs, updatedTs int64
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Username, create.Email, create.Nickname, create.PasswordHash,
	).Scan(&create.ID, &createdTs, &updatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	create.CreatedAt = unixTime(createdTs)
	create.UpdatedAt = unixTime(updatedTs)
	return create, nil
}

func (d *DB) GetUserByID(ctx context.Context, id int32) (*store.User, error) {
	return d.getUser(ctx, "id = ?", id)
}

func (d *DB) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	return d.getUser(ctx, "username = ?", username)
}

func (d *DB) getUser(ctx context.Context, where string, arg any) (*store.User, error) {
	stmt := `
		SELECT id, username, email, nickname, password_hash, created_ts, updated_ts
		FROM user
		WHERE ` + where
	user := &store.User{}
	var createdTs, updatedTs int64
	err := d.db.QueryRowContext(ctx, stmt, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Nickname,
		&user.PasswordHash, &createdTs, &updatedTs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	user.CreatedAt = unixTime(createdTs)
	user.UpdatedAt = unixTime(updatedTs)
	return user, nil
}

func (d *DB) UpdateUserPassword(ctx context.Context, id int32, passwordHash string) error {
	stmt := `
		UPDATE user
		SET password_hash = ?, updated_ts = strftime('%s', 'now')
		WHERE id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, passwordHash, id); err != nil {
		return errors.Wrap(err, "failed to update user password")
	}
	return nil
}
