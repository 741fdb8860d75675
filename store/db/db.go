// Package db provides the store driver factory.
package db

import (
	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/internal/profile"
	"github.com/neuroalign/neuroalign/store"
	"github.com/neuroalign/neuroalign/store/db/postgres"
	"github.com/neuroalign/neuroalign/store/db/sqlite"
)

// NewDBDriver creates a new database driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q", profile.Driver)
	}
}
