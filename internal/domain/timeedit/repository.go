package timeedit

import "context"

// Repository persists edit requests.
type Repository interface {
	// Create inserts a new pending request.
	Create(ctx context.Context, req Request) (Request, error)

	// GetByID retrieves a request, or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*Request, error)

	// GetByIDForUpdate retrieves a request holding a row lock for the
	// remainder of the enclosing transaction, so a request is decided at
	// most once under concurrency.
	GetByIDForUpdate(ctx context.Context, id string) (*Request, error)

	// UpdateStatus flips a request's status.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// ListByUser retrieves a user's requests, newest first.
	ListByUser(ctx context.Context, userID string, filter Filter) ([]Request, int64, error)

	// List retrieves requests across users (admin review).
	List(ctx context.Context, filter Filter) ([]Request, int64, error)
}
