package timeedit

import "time"

// Field names a timestamp column on an attendance record that an edit
// request may target.
type Field string

const (
	FieldCheckIn    Field = "check_in"
	FieldBreakStart Field = "break_start"
	FieldBreakEnd   Field = "break_end"
	FieldCheckOut   Field = "check_out"
)

// Valid reports whether f is one of the four editable fields.
func (f Field) Valid() bool {
	switch f {
	case FieldCheckIn, FieldBreakStart, FieldBreakEnd, FieldCheckOut:
		return true
	}
	return false
}

// Status is the workflow state of an edit request. A request is decided at
// most once: pending goes to approved or rejected and is then immutable.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a user-submitted, admin-adjudicated proposal to change one
// timestamp field on an attendance record. OldValue snapshots the field at
// submission time.
type Request struct {
	ID        string
	UserID    string
	RecordID  string
	Field     Field
	OldValue  *time.Time
	NewValue  time.Time
	Reason    string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName *string
}
