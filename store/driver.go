package store

import "context"

// Driver is an interface for store driver.
// It contains all store database operations.
type Driver interface {
	GetDB() any
	Migrate(ctx context.Context) error
	Close() error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	GetUserByID(ctx context.Context, id int32) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUserPassword(ctx context.Context, id int32, passwordHash string) error

	// FatigueRecord model related methods.
	CreateFatigueRecord(ctx context.Context, create *FatigueRecord) (*FatigueRecord, error)
	ListFatigueRecords(ctx context.Context, find *FindFatigueRecord) ([]*FatigueRecord, error)

	// BioRhythmRecord model related methods.
	CreateBioRhythmRecord(ctx context.Context, create *BioRhythmRecord) (*BioRhythmRecord, error)
	ListBioRhythmRecords(ctx context.Context, find *FindBioRhythmRecord) ([]*BioRhythmRecord, error)

	// Schedule model related methods.
	CreateSchedule(ctx context.Context, create *Schedule) (*Schedule, error)
	GetScheduleByUID(ctx context.Context, userID int32, uid string) (*Schedule, error)
	ListSchedules(ctx context.Context, find *FindSchedule) ([]*Schedule, error)
	UpdateSchedule(ctx context.Context, update *UpdateSchedule) (*Schedule, error)
	DeleteSchedule(ctx context.Context, userID int32, uid string) error

	// WearableDevice model related methods.
	UpsertWearableDevice(ctx context.Context, upsert *WearableDevice) (*WearableDevice, error)
	GetWearableDevice(ctx context.Context, userID int32, provider string) (*WearableDevice, error)
}
