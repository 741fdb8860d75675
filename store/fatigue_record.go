package store

import "time"

// FatigueRecord is one persisted overall fatigue assessment.
type FatigueRecord struct {
	ID         int64
	UID        string
	UserID     int32
	SessionID  string
	Overall    float64
	Facial     float64
	Typing     float64
	Historical float64
	Level      string
	Confidence float64
	CreatedAt  time.Time
}

// FindFatigueRecord filters fatigue record queries.
type FindFatigueRecord struct {
	UserID    *int32
	SessionID *string
	Since     *time.Time
	Limit     *int
}
