package timeedit

import "errors"

// Edit request domain errors
var (
	ErrRequestNotFound = errors.New("edit request not found")

	// ErrAlreadyDecided is distinct from an invalid attendance transition:
	// the request reached a terminal workflow state and can never be
	// decided again.
	ErrAlreadyDecided = errors.New("edit request has already been approved or rejected")

	// ErrRecordMarkedAbsent rejects edits against an absence record: an
	// absent day has no timestamps, so there is nothing to amend.
	ErrRecordMarkedAbsent = errors.New("attendance record is marked absent")
)
