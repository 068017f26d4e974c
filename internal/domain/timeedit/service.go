package timeedit

import "context"

// Service defines the edit request workflow: submission by the record's
// owner, decision by an administrator. A decision happens at most once;
// approval writes the new value onto the attendance record in the same
// transaction that flips the status.
type Service interface {
	// Submit creates a pending request, snapshotting the field's current
	// value.
	Submit(ctx context.Context, req SubmitRequest) (Response, error)

	// Decide approves or rejects a pending request.
	Decide(ctx context.Context, req DecideRequest) (Response, error)

	// GetMyRequests lists the caller's submitted requests.
	GetMyRequests(ctx context.Context, userID string, filter Filter) (ListResponse, error)

	// ListRequests lists requests across users (admin review).
	ListRequests(ctx context.Context, filter Filter) (ListResponse, error)
}
