package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	stmt := `
		INSERT INTO "user" (username, email, nickname, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Username, create.Email, create.Nickname, create.PasswordHash,
	).Scan(&create.ID, &create.CreatedAt, &create.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return create, nil
}

func (d *DB) GetUserByID(ctx context.Context, id int32) (*store.User, error) {
	return d.getUser(ctx, "id = $1", id)
}

func (d *DB) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	return d.getUser(ctx, "username = $1", username)
}

func (d *DB) getUser(ctx context.Context, where string, arg any) (*store.User, error) {
	stmt := `
		SELECT id, username, email, nickname, password_hash, created_at, updated_at
		FROM "user"
		WHERE ` + where
	user := &store.User{}
	err := d.db.QueryRowContext(ctx, stmt, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Nickname,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	return user, nil
}

func (d *DB) UpdateUserPassword(ctx context.Context, id int32, passwordHash string) error {
	stmt := `UPDATE "user" SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	if _, err := d.db.ExecContext(ctx, stmt, passwordHash, id); err != nil {
		return errors.Wrap(err, "failed to update user password")
	}
	return nil
}
