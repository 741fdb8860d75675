package store

import "time"

// User represents a registered account.
type User struct {
	ID           int32
	Username     string
	Email        string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
