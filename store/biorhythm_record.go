package store

import "time"

// BioRhythmRecord is one persisted energy prediction.
type BioRhythmRecord struct {
	ID          int64
	UID         string
	UserID      int32
	SessionID   string
	EnergyLevel float64
	Confidence  float64

	// Forecast is the 24-value hourly prediction, serialized as JSON.
	Forecast string

	CreatedAt time.Time
}

// FindBioRhythmRecord filters biorhythm record queries.
type FindBioRhythmRecord struct {
	UserID    *int32
	SessionID *string
	Since     *time.Time
	Limit     *int
}
