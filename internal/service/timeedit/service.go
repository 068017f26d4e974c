package timeedit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kintai-app/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-app/kintai-backend-go/internal/domain/timeedit"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/validator"
)

type TimeEditServiceImpl struct {
	transactor database.Transactor
	timeedit.Repository
	attendance.RecordRepository
	loc *time.Location
}

func NewTimeEditService(
	transactor database.Transactor,
	timeEditRepository timeedit.Repository,
	recordRepository attendance.RecordRepository,
	loc *time.Location,
) timeedit.Service {
	return &TimeEditServiceImpl{
		transactor:       transactor,
		Repository:       timeEditRepository,
		RecordRepository: recordRepository,
		loc:              loc,
	}
}

// Submit implements timeedit.Service.
func (t *TimeEditServiceImpl) Submit(ctx context.Context, req timeedit.SubmitRequest) (timeedit.Response, error) {
	if err := req.Validate(); err != nil {
		return timeedit.Response{}, err
	}

	rec, err := t.RecordRepository.GetByID(ctx, req.RecordID)
	if err != nil {
		return timeedit.Response{}, err
	}

	// A record owned by someone else is reported as missing rather than
	// forbidden, so record IDs cannot be guessed across users.
	if rec.UserID != req.UserID {
		return timeedit.Response{}, attendance.ErrRecordNotFound
	}

	if rec.IsAbsent {
		return timeedit.Response{}, timeedit.ErrRecordMarkedAbsent
	}

	field := timeedit.Field(req.Field)

	newValue, err := t.parseNewValue(req.NewValue, rec.Date)
	if err != nil {
		return timeedit.Response{}, err
	}

	created, err := t.Repository.Create(ctx, timeedit.Request{
		UserID:   req.UserID,
		RecordID: req.RecordID,
		Field:    field,
		OldValue: fieldValue(rec, field),
		NewValue: newValue,
		Reason:   req.Reason,
	})
	if err != nil {
		return timeedit.Response{}, fmt.Errorf("failed to create edit request: %w", err)
	}

	return timeedit.NewResponse(created), nil
}

// parseNewValue accepts an absolute RFC3339 timestamp or a bare clock time
// interpreted on the record's business date in the business timezone.
func (t *TimeEditServiceImpl) parseNewValue(raw string, recordDate time.Time) (time.Time, error) {
	if parsed, ok := validator.IsValidDateTime(raw); ok {
		return parsed.UTC(), nil
	}

	if clock, ok := validator.ParseClock(raw); ok {
		localDate := recordDate.In(t.loc)
		combined := time.Date(
			localDate.Year(), localDate.Month(), localDate.Day(),
			clock.Hour(), clock.Minute(), clock.Second(), 0,
			t.loc,
		)
		return combined.UTC(), nil
	}

	return time.Time{}, validator.ValidationErrors{{
		Field:   "new_value",
		Message: "new_value must be an RFC3339 timestamp or a clock time (15:04 or 15:04:05)",
	}}
}

func fieldValue(rec attendance.Record, field timeedit.Field) *time.Time {
	switch field {
	case timeedit.FieldCheckIn:
		return rec.CheckIn
	case timeedit.FieldBreakStart:
		return rec.BreakStart
	case timeedit.FieldBreakEnd:
		return rec.BreakEnd
	case timeedit.FieldCheckOut:
		return rec.CheckOut
	}
	return nil
}

// Decide implements timeedit.Service. Approval writes the requested value
// onto the attendance record and flips the status in one transaction; a
// request that already left pending is rejected with ErrAlreadyDecided
// regardless of which decision it received.
func (t *TimeEditServiceImpl) Decide(ctx context.Context, req timeedit.DecideRequest) (timeedit.Response, error) {
	var resp timeedit.Response

	err := t.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		editReq, err := t.Repository.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if editReq == nil {
			return timeedit.ErrRequestNotFound
		}

		if editReq.Status != timeedit.StatusPending {
			return timeedit.ErrAlreadyDecided
		}

		status := timeedit.StatusRejected
		if req.Approve {
			status = timeedit.StatusApproved

			// Submit already rejects absence records; re-check here so an
			// approval can never stamp a timestamp onto one.
			rec, err := t.RecordRepository.GetByID(ctx, editReq.RecordID)
			if err != nil {
				return err
			}
			if rec.IsAbsent {
				return timeedit.ErrRecordMarkedAbsent
			}

			if err := t.RecordRepository.SetTimeField(ctx, editReq.RecordID, string(editReq.Field), editReq.NewValue); err != nil {
				return err
			}
		}

		if err := t.Repository.UpdateStatus(ctx, editReq.ID, status); err != nil {
			return err
		}

		editReq.Status = status
		resp = timeedit.NewResponse(*editReq)
		return nil
	})
	if err != nil {
		return timeedit.Response{}, err
	}

	return resp, nil
}

// GetMyRequests implements timeedit.Service.
func (t *TimeEditServiceImpl) GetMyRequests(ctx context.Context, userID string, filter timeedit.Filter) (timeedit.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeedit.ListResponse{}, err
	}

	requests, total, err := t.Repository.ListByUser(ctx, userID, filter)
	if err != nil {
		return timeedit.ListResponse{}, fmt.Errorf("failed to list edit requests: %w", err)
	}

	return buildListResponse(requests, total, filter), nil
}

// ListRequests implements timeedit.Service.
func (t *TimeEditServiceImpl) ListRequests(ctx context.Context, filter timeedit.Filter) (timeedit.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeedit.ListResponse{}, err
	}

	requests, total, err := t.Repository.List(ctx, filter)
	if err != nil {
		return timeedit.ListResponse{}, fmt.Errorf("failed to list edit requests: %w", err)
	}

	return buildListResponse(requests, total, filter), nil
}

func buildListResponse(requests []timeedit.Request, total int64, filter timeedit.Filter) timeedit.ListResponse {
	responses := make([]timeedit.Response, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, timeedit.NewResponse(req))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return timeedit.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Requests:   responses,
	}
}
