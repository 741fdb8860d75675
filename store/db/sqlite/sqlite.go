// Package sqlite implements the store driver backed by SQLite.
//
// SQLite is the default for development and single-user deployments.
// Concurrent writers are serialized by the single-connection pool; use the
// postgres driver for multi-user production instances.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/neuroalign/neuroalign/internal/profile"
	"github.com/neuroalign/neuroalign/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database named by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// WAL journal mode with a generous busy timeout avoids locking issues;
	// each pragma must be prefixed with `_pragma=` for modernc.org/sqlite.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// A single connection is optimal for SQLite with WAL.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}
	return &driver, nil
}

func (d *DB) GetDB() any {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS user (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	nickname TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE TABLE IF NOT EXISTS fatigue_record (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	overall REAL NOT NULL,
	facial REAL NOT NULL,
	typing REAL NOT NULL,
	historical REAL NOT NULL,
	level TEXT NOT NULL,
	confidence REAL NOT NULL,
	created_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_fatigue_record_user_created ON fatigue_record (user_id, created_ts);

CREATE TABLE IF NOT EXISTS biorhythm_record (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	energy_level REAL NOT NULL,
	confidence REAL NOT NULL,
	forecast TEXT NOT NULL DEFAULT '[]',
	created_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_biorhythm_record_user_created ON biorhythm_record (user_id, created_ts);

CREATE TABLE IF NOT EXISTS schedule (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_ts INTEGER,
	end_ts INTEGER,
	duration_hours INTEGER NOT NULL DEFAULT 1,
	priority REAL NOT NULL DEFAULT 3,
	complexity REAL NOT NULL DEFAULT 0.5,
	energy_requirement REAL NOT NULL DEFAULT 0.5,
	status TEXT NOT NULL DEFAULT 'pending',
	created_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_schedule_user_status ON schedule (user_id, status);

CREATE TABLE IF NOT EXISTS wearable_device (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	provider TEXT NOT NULL,
	access_token TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	token_expiry_ts INTEGER NOT NULL DEFAULT 0,
	created_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
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
