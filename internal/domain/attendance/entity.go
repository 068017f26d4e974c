package attendance

import (
	"time"
)

// State is the user's current attendance phase. Exactly one of these is
// stored per user in the user_states row.
type State string

const (
	StateNotCheckedIn State = "not_checked_in"
	StateCheckedIn    State = "checked_in"
	StateOnBreak      State = "on_break"
	StateCheckedOut   State = "checked_out"
	StateAbsent       State = "absent"
)

// Valid reports whether s is one of the five known states.
func (s State) Valid() bool {
	switch s {
	case StateNotCheckedIn, StateCheckedIn, StateOnBreak, StateCheckedOut, StateAbsent:
		return true
	}
	return false
}

// Action is a requested attendance transition. Closed set; routes map onto
// these instead of dispatching on free-form action strings.
type Action string

const (
	ActionCheckIn    Action = "check_in"
	ActionStartBreak Action = "start_break"
	ActionEndBreak   Action = "end_break"
	ActionCheckOut   Action = "check_out"
	ActionRecheckIn  Action = "recheck_in"
	ActionMarkAbsent Action = "mark_absent"
)

// UserState is the singleton per-user state row. LastUpdated is stored UTC
// and interpreted in the business timezone for day-boundary math.
type UserState struct {
	UserID       string
	CurrentState State
	LastUpdated  time.Time
}

// Record is one attendance record: at most one per user per business day.
// Date holds the business-day key (local midnight of the day the shift
// belongs to), the four timestamps are absolute instants.
type Record struct {
	ID         string
	UserID     string
	Date       time.Time
	CheckIn    *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
	CheckOut   *time.Time
	IsAbsent   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	UserName *string
}
