package user

import "time"

// User is an account that records attendance. Admins additionally review
// records and decide edit requests.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
