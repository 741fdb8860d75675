package store

import "time"

// ScheduleStatus is the lifecycle state of a scheduled task.
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusDone      ScheduleStatus = "done"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// Schedule is one user task with its energy profile.
type Schedule struct {
	ID                int64
	UID               string
	UserID            int32
	Title             string
	Description       string
	StartTime         *time.Time
	EndTime           *time.Time
	DurationHours     int
	Priority          float64
	Complexity        float64
	EnergyRequirement float64
	Status            ScheduleStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FindSchedule filters schedule queries.
type FindSchedule struct {
	UserID *int32
	Status *ScheduleStatus
	Limit  *int
}

// UpdateSchedule carries a partial schedule update. Nil fields are left
// untouched.
type UpdateSchedule struct {
	UserID            int32
	UID               string
	Title             *string
	Description       *string
	StartTime         *time.Time
	EndTime           *time.Time
	DurationHours     *int
	Priority          *float64
	Complexity        *float64
	EnergyRequirement *float64
	Status            *ScheduleStatus
}
