package attendance

import (
	"time"

	"github.com/kintai-app/kintai-backend-go/internal/pkg/validator"
)

// StateResponse is the result of a state query or an accepted transition.
type StateResponse struct {
	CurrentState State           `json:"current_state"`
	Record       *RecordResponse `json:"record"`
	WasReset     bool            `json:"date_changed"`
}

// RecordResponse is the wire form of a Record. Timestamps are RFC3339 in
// UTC; Date is the business-day key formatted as a local date.
type RecordResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	UserName   *string `json:"user_name,omitempty"`
	Date       string  `json:"date"`
	CheckIn    *string `json:"check_in"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
	CheckOut   *string `json:"check_out"`
	IsAbsent   bool    `json:"is_absent"`
}

// NewRecordResponse converts a Record entity to its wire form.
func NewRecordResponse(rec Record, loc *time.Location) RecordResponse {
	return RecordResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		UserName:   rec.UserName,
		Date:       rec.Date.In(loc).Format("2006-01-02"),
		CheckIn:    timePtrToString(rec.CheckIn),
		BreakStart: timePtrToString(rec.BreakStart),
		BreakEnd:   timePtrToString(rec.BreakEnd),
		CheckOut:   timePtrToString(rec.CheckOut),
		IsAbsent:   rec.IsAbsent,
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

// RecordFilter narrows record listings.
type RecordFilter struct {
	UserID    *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
	SortOrder string
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
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

// ListRecordsResponse is a paginated record listing.
type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
