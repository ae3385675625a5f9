package domain

import "time"

// User is the domain model for account holders who log moods.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
