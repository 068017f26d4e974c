package attendance

import (
	"context"
	"time"
)

// UserStateRepository persists the singleton per-user state row.
type UserStateRepository interface {
	// Get retrieves the state row, or nil when the user has none yet.
	Get(ctx context.Context, userID string) (*UserState, error)

	// GetForUpdate retrieves the state row holding a row lock for the
	// remainder of the enclosing transaction. Concurrent transitions for
	// the same user serialize on this lock.
	GetForUpdate(ctx context.Context, userID string) (*UserState, error)

	// Create creates the state row; used for lazy initialization on the
	// first query or action.
	Create(ctx context.Context, state UserState) (UserState, error)

	// Update persists a new current state and lastUpdated stamp.
	Update(ctx context.Context, userID string, state State, lastUpdated time.Time) error
}

// RecordRepository persists attendance records, one per user per business
// day. Records are mutated in place and never deleted.
type RecordRepository interface {
	// GetByID retrieves a record by ID.
	GetByID(ctx context.Context, id string) (Record, error)

	// FindByBusinessDay retrieves the record for a user's business day,
	// or nil when none exists.
	FindByBusinessDay(ctx context.Context, userID string, dayKey time.Time) (*Record, error)

	// Create inserts a new record for a business day.
	Create(ctx context.Context, rec Record) (Record, error)

	// Update persists the mutable fields of an existing record.
	Update(ctx context.Context, rec Record) error

	// SetTimeField writes a single timestamp field; used when an approved
	// edit request is applied.
	SetTimeField(ctx context.Context, recordID string, field string, value time.Time) error

	// ListByUser retrieves a user's records with filters and pagination.
	ListByUser(ctx context.Context, userID string, filter RecordFilter) ([]Record, int64, error)

	// List retrieves records across all users (admin review).
	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)
}
