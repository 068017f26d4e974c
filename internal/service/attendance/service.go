package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kintai-app/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-app/kintai-backend-go/internal/domain/user"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	transactor database.Transactor
	attendance.UserStateRepository
	attendance.RecordRepository
	user.UserRepository
	loc *time.Location
}

func NewAttendanceService(
	transactor database.Transactor,
	userStateRepository attendance.UserStateRepository,
	recordRepository attendance.RecordRepository,
	userRepository user.UserRepository,
	loc *time.Location,
) attendance.Service {
	return &AttendanceServiceImpl{
		transactor:          transactor,
		UserStateRepository: userStateRepository,
		RecordRepository:    recordRepository,
		UserRepository:      userRepository,
		loc:                 loc,
	}
}

// GetState implements attendance.Service.
func (a *AttendanceServiceImpl) GetState(ctx context.Context, userID string, now time.Time) (attendance.StateResponse, error) {
	var resp attendance.StateResponse

	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		state, wasReset, err := a.loadReconciledState(ctx, userID, now)
		if err != nil {
			return err
		}

		rec, err := a.RecordRepository.FindByBusinessDay(ctx, userID, attendance.ResolveBusinessDay(now, a.loc).Key)
		if err != nil {
			return err
		}

		resp = a.buildStateResponse(state, rec, wasReset)
		return nil
	})
	if err != nil {
		return attendance.StateResponse{}, err
	}

	return resp, nil
}

// CheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string, now time.Time) (attendance.StateResponse, error) {
	return a.transition(ctx, userID, now, attendance.ActionCheckIn)
}

// StartBreak implements attendance.Service.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, userID string, now time.Time) (attendance.StateResponse, error) {
	return a.transition(ctx, userID, now, attendance.ActionStartBreak)
}

// EndBreak implements attendance.Service.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, userID string, now time.Time) (attendance.StateResponse, error) {
	return a.transition(ctx, userID, now, attendance.ActionEndBreak)
}

// CheckOut implements attendance.Service.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string, now time.Time) (attendance.StateResponse, error) {
	return a.transition(ctx, userID, now, attendance.ActionCheckOut)
}

// RecheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) RecheckIn(ctx context.Context, userID string, now time.Time) (attendance.StateResponse, error) {
	return a.transition(ctx, userID, now, attendance.ActionRecheckIn)
}

// MarkAbsent implements attendance.Service.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, userID string, now time.Time) (attendance.StateResponse, error) {
	return a.transition(ctx, userID, now, attendance.ActionMarkAbsent)
}

// transition runs one attendance action atomically: lock the state row,
// reconcile it against the current business day, validate the action,
// mutate the day's record, and persist both writes in one transaction.
func (a *AttendanceServiceImpl) transition(ctx context.Context, userID string, now time.Time, action attendance.Action) (attendance.StateResponse, error) {
	var (
		resp       attendance.StateResponse
		invalidErr *attendance.InvalidTransitionError
	)

	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		state, wasReset, err := a.loadReconciledState(ctx, userID, now)
		if err != nil {
			return err
		}

		tr, err := attendance.Decide(state.CurrentState, action)
		if err != nil {
			if !errors.As(err, &invalidErr) {
				return err
			}
			// Commit so a reconciliation reset persisted above survives
			// the rejected action; the error is surfaced after commit.
			return nil
		}

		day := attendance.ResolveBusinessDay(now, a.loc)

		rec, err := a.RecordRepository.FindByBusinessDay(ctx, userID, day.Key)
		if err != nil {
			return err
		}

		if rec == nil {
			if tr.NeedsRecord() {
				return attendance.ErrNoRecordToday
			}

			newRec := attendance.Record{UserID: userID, Date: day.Key}
			tr.Apply(&newRec, now)

			created, err := a.RecordRepository.Create(ctx, newRec)
			if err != nil {
				return err
			}
			rec = &created
		} else {
			tr.Apply(rec, now)

			if err := a.RecordRepository.Update(ctx, *rec); err != nil {
				return err
			}
		}

		if err := a.UserStateRepository.Update(ctx, userID, tr.Next(), now); err != nil {
			return err
		}

		state.CurrentState = tr.Next()
		resp = a.buildStateResponse(state, rec, wasReset)
		return nil
	})
	if err != nil {
		return attendance.StateResponse{}, err
	}
	if invalidErr != nil {
		return attendance.StateResponse{}, invalidErr
	}

	return resp, nil
}

// loadReconciledState locks and returns the user's state row, creating it
// on first contact. A stale-day reset is persisted immediately so every
// read and action leaves the row current.
func (a *AttendanceServiceImpl) loadReconciledState(ctx context.Context, userID string, now time.Time) (attendance.UserState, bool, error) {
	state, err := a.UserStateRepository.GetForUpdate(ctx, userID)
	if err != nil {
		return attendance.UserState{}, false, err
	}

	if state == nil {
		if _, err := a.UserRepository.GetByID(ctx, userID); err != nil {
			return attendance.UserState{}, false, err
		}

		// The insert does nothing on conflict: a concurrent first contact
		// can win the row between our read and this write. The state used
		// from here on must be the row read under the lock, never the
		// struct we tried to insert, so the loser of that race observes
		// the winner's transition.
		_, err := a.UserStateRepository.Create(ctx, attendance.UserState{
			UserID:       userID,
			CurrentState: attendance.StateNotCheckedIn,
			LastUpdated:  now,
		})
		if err != nil {
			return attendance.UserState{}, false, err
		}

		state, err = a.UserStateRepository.GetForUpdate(ctx, userID)
		if err != nil {
			return attendance.UserState{}, false, err
		}
		if state == nil {
			return attendance.UserState{}, false, fmt.Errorf("user state for %s missing after insert", userID)
		}
	}

	reconciled, wasReset := attendance.Reconcile(state.CurrentState, state.LastUpdated, now, a.loc)
	if wasReset {
		state.CurrentState = reconciled
		state.LastUpdated = now

		if err := a.UserStateRepository.Update(ctx, userID, reconciled, now); err != nil {
			return attendance.UserState{}, false, err
		}
	}

	return *state, wasReset, nil
}

func (a *AttendanceServiceImpl) buildStateResponse(state attendance.UserState, rec *attendance.Record, wasReset bool) attendance.StateResponse {
	resp := attendance.StateResponse{
		CurrentState: state.CurrentState,
		WasReset:     wasReset,
	}
	if rec != nil {
		rr := attendance.NewRecordResponse(*rec, a.loc)
		resp.Record = &rr
	}
	return resp
}

// GetMyRecords implements attendance.Service.
func (a *AttendanceServiceImpl) GetMyRecords(ctx context.Context, userID string, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.RecordRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return a.buildListResponse(records, total, filter), nil
}

// ListRecords implements attendance.Service.
func (a *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.RecordRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return a.buildListResponse(records, total, filter), nil
}

func (a *AttendanceServiceImpl) buildListResponse(records []attendance.Record, total int64, filter attendance.RecordFilter) attendance.ListRecordsResponse {
	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewRecordResponse(rec, a.loc))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}
}
