package user

import "context"

// UserRepository defines data access methods for user accounts.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, u User) (User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email, or nil when none exists
	GetByEmail(ctx context.Context, email string) (*User, error)
}
