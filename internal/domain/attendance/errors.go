package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrNoRecordToday  = errors.New("no attendance record for today")
	ErrUserNotFound   = errors.New("user not found")
)

// InvalidTransitionError rejects an action that is not legal for the
// user's current state. CurrentState is the authoritative state at the
// moment of rejection so the caller can resynchronize its view.
type InvalidTransitionError struct {
	Action       Action
	CurrentState State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: action %q is not allowed in state %q", e.Action, e.CurrentState)
}
