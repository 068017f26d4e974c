package attendance

import (
	"context"
	"time"
)

// Service defines the attendance state operations. Transitions validate
// against the user's reconciled state and persist the state row and the
// day's record as one atomic unit; a rejected transition reports the
// authoritative current state via *InvalidTransitionError.
type Service interface {
	// GetState returns the reconciled state and today's record, creating
	// the state row lazily on first contact.
	GetState(ctx context.Context, userID string, now time.Time) (StateResponse, error)

	CheckIn(ctx context.Context, userID string, now time.Time) (StateResponse, error)
	StartBreak(ctx context.Context, userID string, now time.Time) (StateResponse, error)
	EndBreak(ctx context.Context, userID string, now time.Time) (StateResponse, error)
	CheckOut(ctx context.Context, userID string, now time.Time) (StateResponse, error)
	RecheckIn(ctx context.Context, userID string, now time.Time) (StateResponse, error)
	MarkAbsent(ctx context.Context, userID string, now time.Time) (StateResponse, error)

	// GetMyRecords lists the caller's attendance history.
	GetMyRecords(ctx context.Context, userID string, filter RecordFilter) (ListRecordsResponse, error)

	// ListRecords lists records across users (admin review).
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)
}
