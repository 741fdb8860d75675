package store

import "time"

// WearableDevice is one user's connection to a wearable provider,
// including the OAuth2 tokens needed to pull biosignal data.
type WearableDevice struct {
	ID           int64
	UID          string
	UserID       int32
	Provider     string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
