package timeedit

import (
	"time"

	"github.com/kintai-app/kintai-backend-go/internal/pkg/validator"
)

// SubmitRequest is the payload for submitting an edit request. NewValue
// accepts an RFC3339 timestamp or a bare local time ("15:04" or
// "15:04:05") combined with the record's business date.
type SubmitRequest struct {
	UserID   string `json:"-"`
	RecordID string `json:"record_id"`
	Field    string `json:"field"`
	NewValue string `json:"new_value"`
	Reason   string `json:"reason"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "record_id",
			Message: "record_id is required",
		})
	}

	if !Field(r.Field).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "field",
			Message: "field must be one of check_in, check_out, break_start, break_end",
		})
	}

	if validator.IsEmpty(r.NewValue) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_value",
			Message: "new_value is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DecideRequest is the payload for an admin decision.
type DecideRequest struct {
	ID      string `json:"-"`
	Approve bool   `json:"approve"`
}

// Response is the wire form of a Request.
type Response struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	UserName  *string `json:"user_name,omitempty"`
	RecordID  string  `json:"record_id"`
	Field     Field   `json:"field"`
	OldValue  *string `json:"old_value"`
	NewValue  string  `json:"new_value"`
	Reason    string  `json:"reason"`
	Status    Status  `json:"status"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// NewResponse converts a Request entity to its wire form.
func NewResponse(req Request) Response {
	return Response{
		ID:        req.ID,
		UserID:    req.UserID,
		UserName:  req.UserName,
		RecordID:  req.RecordID,
		Field:     req.Field,
		OldValue:  timePtrToString(req.OldValue),
		NewValue:  req.NewValue.UTC().Format(time.RFC3339),
		Reason:    req.Reason,
		Status:    req.Status,
		CreatedAt: req.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: req.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

// Filter narrows edit request listings.
type Filter struct {
	Status *string
	Page   int
	Limit  int
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && *f.Status != "" {
		switch Status(*f.Status) {
		case StatusPending, StatusApproved, StatusRejected:
		default:
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of pending, approved, rejected",
			})
		}
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListResponse is a paginated request listing.
type ListResponse struct {
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
	Requests   []Response `json:"requests"`
}
