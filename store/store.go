// Package store provides database access to all persisted objects.
package store

import (
	"context"

	"github.com/lithammer/shortuuid/v4"

	"github.com/neuroalign/neuroalign/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{driver: driver, profile: profile}
}

// GetDriver exposes the underlying driver.
func (s *Store) GetDriver() Driver {
	return s.driver
}

// Migrate applies the schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// User methods.

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	return s.driver.CreateUser(ctx, create)
}

func (s *Store) GetUserByID(ctx context.Context, id int32) (*User, error) {
	return s.driver.GetUserByID(ctx, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.driver.GetUserByUsername(ctx, username)
}

func (s *Store) UpdateUserPassword(ctx context.Context, id int32, passwordHash string) error {
	return s.driver.UpdateUserPassword(ctx, id, passwordHash)
}

// Fatigue record methods.

func (s *Store) CreateFatigueRecord(ctx context.Context, create *FatigueRecord) (*FatigueRecord, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	return s.driver.CreateFatigueRecord(ctx, create)
}

func (s *Store) ListFatigueRecords(ctx context.Context, find *FindFatigueRecord) ([]*FatigueRecord, error) {
	return s.driver.ListFatigueRecords(ctx, find)
}

// Biorhythm record methods.

func (s *Store) CreateBioRhythmRecord(ctx context.Context, create *BioRhythmRecord) (*BioRhythmRecord, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	return s.driver.CreateBioRhythmRecord(ctx, create)
}

func (s *Store) ListBioRhythmRecords(ctx context.Context, find *FindBioRhythmRecord) ([]*BioRhythmRecord, error) {
	return s.driver.ListBioRhythmRecords(ctx, find)
}

// Schedule methods.

func (s *Store) CreateSchedule(ctx context.Context, create *Schedule) (*Schedule, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	return s.driver.CreateSchedule(ctx, create)
}

func (s *Store) GetScheduleByUID(ctx context.Context, userID int32, uid string) (*Schedule, error) {
	return s.driver.GetScheduleByUID(ctx, userID, uid)
}

func (s *Store) ListSchedules(ctx context.Context, find *FindSchedule) ([]*Schedule, error) {
	return s.driver.ListSchedules(ctx, find)
}

func (s *Store) UpdateSchedule(ctx context.Context, update *UpdateSchedule) (*Schedule, error) {
	return s.driver.UpdateSchedule(ctx, update)
}

func (s *Store) DeleteSchedule(ctx context.Context, userID int32, uid string) error {
	return s.driver.DeleteSchedule(ctx, userID, uid)
}

// Wearable device methods.

func (s *Store) UpsertWearableDevice(ctx context.Context, upsert *WearableDevice) (*WearableDevice, error) {
	if upsert.UID == "" {
		upsert.UID = shortuuid.New()
	}
	return s.driver.UpsertWearableDevice(ctx, upsert)
}

func (s *Store) GetWearableDevice(ctx context.Context, userID int32, provider string) (*WearableDevice, error) {
	return s.driver.GetWearableDevice(ctx, userID, provider)
}
