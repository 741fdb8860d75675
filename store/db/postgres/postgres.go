// Package postgres implements the store driver backed by PostgreSQL, the
// recommended driver for multi-user production deployments.
package postgres

import (
	"context"
	"database/sql"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/internal/profile"
	"github.com/neuroalign/neuroalign/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the PostgreSQL database named by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	pgDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	pgDB.SetMaxOpenConns(25)
	pgDB.SetMaxIdleConns(5)
	pgDB.SetConnMaxLifetime(30 * time.Minute)

	driver := DB{db: pgDB, profile: profile}
	return &driver, nil
}

func (d *DB) GetDB() any {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS "user" (
	id SERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	nickname TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS fatigue_record (
	id BIGSERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	overall DOUBLE PRECISION NOT NULL,
	facial DOUBLE PRECISION NOT NULL,
	typing DOUBLE PRECISION NOT NULL,
	historical DOUBLE PRECISION NOT NULL,
	level TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_fatigue_record_user_created ON fatigue_record (user_id, created_at);

CREATE TABLE IF NOT EXISTS biorhythm_record (
	id BIGSERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	energy_level DOUBLE PRECISION NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	forecast JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_biorhythm_record_user_created ON biorhythm_record (user_id, created_at);

CREATE TABLE IF NOT EXISTS schedule (
	id BIGSERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_time TIMESTAMPTZ,
	end_time TIMESTAMPTZ,
	duration_hours INTEGER NOT NULL DEFAULT 1,
	priority DOUBLE PRECISION NOT NULL DEFAULT 3,
	complexity DOUBLE PRECISION NOT NULL DEFAULT 0.5,
	energy_requirement DOUBLE PRECISION NOT NULL DEFAULT 0.5,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_schedule_user_status ON schedule (user_id, status);

CREATE TABLE IF NOT EXISTS wearable_device (
	id BIGSERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	provider TEXT NOT NULL,
	access_token TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	token_expiry TIMESTAMPTZ NOT NULL DEFAULT 'epoch',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, provider)
);
`

// Migrate applies the latest schema. Statements are idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
