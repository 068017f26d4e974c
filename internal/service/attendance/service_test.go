package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintai-app/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-app/kintai-backend-go/internal/domain/user"
)

// The fakes below stand in for the PostgreSQL repositories so transition
// scenarios run against pure in-memory state.

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStateRepo struct {
	states map[string]attendance.UserState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]attendance.UserState)}
}

func (f *fakeStateRepo) Get(ctx context.Context, userID string) (*attendance.UserState, error) {
	st, ok := f.states[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (f *fakeStateRepo) GetForUpdate(ctx context.Context, userID string) (*attendance.UserState, error) {
	return f.Get(ctx, userID)
}

func (f *fakeStateRepo) Create(ctx context.Context, state attendance.UserState) (attendance.UserState, error) {
	// Mirrors the ON CONFLICT DO NOTHING insert: an existing row wins.
	if existing, ok := f.states[state.UserID]; ok {
		return existing, nil
	}
	f.states[state.UserID] = state
	return state, nil
}

func (f *fakeStateRepo) Update(ctx context.Context, userID string, state attendance.State, lastUpdated time.Time) error {
	st, ok := f.states[userID]
	if !ok {
		return attendance.ErrUserNotFound
	}
	st.CurrentState = state
	st.LastUpdated = lastUpdated
	f.states[userID] = st
	return nil
}

// racingStateRepo simulates losing a first-contact insert race: the
// initial locking read finds no row (so nothing locks), while a concurrent
// transaction commits the row before our insert runs.
type racingStateRepo struct {
	*fakeStateRepo
	missedReads int
}

func (r *racingStateRepo) GetForUpdate(ctx context.Context, userID string) (*attendance.UserState, error) {
	if r.missedReads > 0 {
		r.missedReads--
		return nil, nil
	}
	return r.fakeStateRepo.GetForUpdate(ctx, userID)
}

type fakeRecordRepo struct {
	records map[string]attendance.Record
	nextID  int
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]attendance.Record)}
}

func (f *fakeRecordRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeRecordRepo) FindByBusinessDay(ctx context.Context, userID string, dayKey time.Time) (*attendance.Record, error) {
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Date.Equal(dayKey) {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeRecordRepo) Update(ctx context.Context, rec attendance.Record) error {
	if _, ok := f.records[rec.ID]; !ok {
		return attendance.ErrRecordNotFound
	}
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeRecordRepo) SetTimeField(ctx context.Context, recordID string, field string, value time.Time) error {
	rec, ok := f.records[recordID]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	switch field {
	case "check_in":
		rec.CheckIn = &value
	case "break_start":
		rec.BreakStart = &value
	case "break_end":
		rec.BreakEnd = &value
	case "check_out":
		rec.CheckOut = &value
	default:
		return fmt.Errorf("unknown editable field: %s", field)
	}
	f.records[recordID] = rec
	return nil
}

func (f *fakeRecordRepo) ListByUser(ctx context.Context, userID string, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecordRepo) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

type testEnv struct {
	svc     attendance.Service
	states  *fakeStateRepo
	records *fakeRecordRepo
	loc     *time.Location
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	states := newFakeStateRepo()
	records := newFakeRecordRepo()
	users := &fakeUserRepo{users: map[string]user.User{
		"u1": {ID: "u1", Name: "Tanaka", Email: "tanaka@example.com"},
	}}

	return testEnv{
		svc:     NewAttendanceService(fakeTransactor{}, states, records, users, loc),
		states:  states,
		records: records,
		loc:     loc,
	}
}

func TestGetStateCreatesRowOnFirstContact(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, env.loc)

	resp, err := env.svc.GetState(ctx, "u1", now)
	require.NoError(t, err)

	assert.Equal(t, attendance.StateNotCheckedIn, resp.CurrentState)
	assert.Nil(t, resp.Record)
	assert.False(t, resp.WasReset)

	st, err := env.states.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, attendance.StateNotCheckedIn, st.CurrentState)
}

func TestGetStateUnknownUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.svc.GetState(context.Background(), "nobody", time.Now())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestFullWorkDay(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	at := func(hour, min int) time.Time {
		return time.Date(2026, 3, 10, hour, min, 0, 0, env.loc)
	}

	resp, err := env.svc.CheckIn(ctx, "u1", at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedIn, resp.CurrentState)
	require.NotNil(t, resp.Record)
	assert.Equal(t, "2026-03-10", resp.Record.Date)
	require.NotNil(t, resp.Record.CheckIn)

	resp, err = env.svc.StartBreak(ctx, "u1", at(12, 0))
	require.NoError(t, err)
	assert.Equal(t, attendance.StateOnBreak, resp.CurrentState)

	resp, err = env.svc.EndBreak(ctx, "u1", at(13, 0))
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedIn, resp.CurrentState)

	resp, err = env.svc.CheckOut(ctx, "u1", at(18, 0))
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedOut, resp.CurrentState)

	require.NotNil(t, resp.Record)
	require.NotNil(t, resp.Record.BreakStart)
	require.NotNil(t, resp.Record.BreakEnd)
	require.NotNil(t, resp.Record.CheckOut)
	assert.False(t, resp.Record.IsAbsent)

	// One record for the whole day.
	assert.Len(t, env.records.records, 1)
}

func TestInvalidActionReportsCurrentState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, env.loc)

	_, err := env.svc.CheckOut(ctx, "u1", now)
	require.Error(t, err)

	var invalidErr *attendance.InvalidTransitionError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, attendance.StateNotCheckedIn, invalidErr.CurrentState)
	assert.Equal(t, attendance.ActionCheckOut, invalidErr.Action)

	// A rejected action leaves no record behind.
	assert.Empty(t, env.records.records)
}

func TestInvalidActionIsIdempotentlyRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, env.loc)

	_, err := env.svc.CheckIn(ctx, "u1", now)
	require.NoError(t, err)

	// A duplicate check-in fails the same way every time.
	for i := 0; i < 2; i++ {
		_, err := env.svc.CheckIn(ctx, "u1", now.Add(time.Minute))
		var invalidErr *attendance.InvalidTransitionError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, attendance.StateCheckedIn, invalidErr.CurrentState)
	}

	assert.Len(t, env.records.records, 1)
}

func TestAbsentDayIsTerminal(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, env.loc)

	resp, err := env.svc.MarkAbsent(ctx, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateAbsent, resp.CurrentState)
	require.NotNil(t, resp.Record)
	assert.True(t, resp.Record.IsAbsent)

	_, err = env.svc.CheckIn(ctx, "u1", now.Add(time.Hour))
	var invalidErr *attendance.InvalidTransitionError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, attendance.StateAbsent, invalidErr.CurrentState)
}

func TestStaleStateResetsOnNextDay(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	yesterday := time.Date(2026, 3, 10, 18, 0, 0, 0, env.loc)
	_, err := env.svc.CheckIn(ctx, "u1", yesterday)
	require.NoError(t, err)

	// The user forgot to check out; next morning the state is reset.
	nextMorning := time.Date(2026, 3, 11, 8, 30, 0, 0, env.loc)
	resp, err := env.svc.GetState(ctx, "u1", nextMorning)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateNotCheckedIn, resp.CurrentState)
	assert.True(t, resp.WasReset)
	assert.Nil(t, resp.Record, "yesterday's record is not the new day's record")

	// The reset is persisted, so a second read reports no change.
	resp, err = env.svc.GetState(ctx, "u1", nextMorning.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, resp.WasReset)

	// Yesterday's record is untouched.
	assert.Len(t, env.records.records, 1)
}

func TestOvernightShiftStaysOnOneBusinessDay(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	evening := time.Date(2026, 3, 10, 22, 0, 0, 0, env.loc)
	_, err := env.svc.CheckIn(ctx, "u1", evening)
	require.NoError(t, err)

	// 02:30 is still business day 2026-03-10.
	pastMidnight := time.Date(2026, 3, 11, 2, 30, 0, 0, env.loc)
	resp, err := env.svc.CheckOut(ctx, "u1", pastMidnight)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedOut, resp.CurrentState)
	assert.False(t, resp.WasReset)
	require.NotNil(t, resp.Record)
	assert.Equal(t, "2026-03-10", resp.Record.Date)

	assert.Len(t, env.records.records, 1)
}

func TestRecheckInThenLastCheckOutWins(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	at := func(hour int) time.Time {
		return time.Date(2026, 3, 10, hour, 0, 0, 0, env.loc)
	}

	_, err := env.svc.CheckIn(ctx, "u1", at(9))
	require.NoError(t, err)
	_, err = env.svc.CheckOut(ctx, "u1", at(17))
	require.NoError(t, err)

	resp, err := env.svc.RecheckIn(ctx, "u1", at(19))
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedIn, resp.CurrentState)

	// The original check-out survives re-entry until the next check-out.
	require.NotNil(t, resp.Record.CheckOut)
	assert.Equal(t, at(17).UTC().Format(time.RFC3339), *resp.Record.CheckOut)

	resp, err = env.svc.CheckOut(ctx, "u1", at(21))
	require.NoError(t, err)
	assert.Equal(t, at(21).UTC().Format(time.RFC3339), *resp.Record.CheckOut)

	// Check-in keeps its original stamp across the whole day.
	assert.Equal(t, at(9).UTC().Format(time.RFC3339), *resp.Record.CheckIn)
}

func TestFirstContactInsertRaceRejectsLoser(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	winnerTime := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	loserTime := winnerTime.Add(2 * time.Second)

	// The winner's transaction has already committed: state row and record
	// exist. The loser's first locking read raced ahead of that commit and
	// saw nothing.
	states := newFakeStateRepo()
	_, err = states.Create(context.Background(), attendance.UserState{
		UserID:       "u1",
		CurrentState: attendance.StateCheckedIn,
		LastUpdated:  winnerTime,
	})
	require.NoError(t, err)
	racing := &racingStateRepo{fakeStateRepo: states, missedReads: 1}

	records := newFakeRecordRepo()
	winnerStamp := winnerTime.UTC()
	_, err = records.Create(context.Background(), attendance.Record{
		UserID:  "u1",
		Date:    time.Date(2026, 3, 10, 0, 0, 0, 0, loc),
		CheckIn: &winnerStamp,
	})
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[string]user.User{
		"u1": {ID: "u1", Name: "Tanaka", Email: "tanaka@example.com"},
	}}
	svc := NewAttendanceService(fakeTransactor{}, racing, records, users, loc)

	_, err = svc.CheckIn(context.Background(), "u1", loserTime)
	var invalidErr *attendance.InvalidTransitionError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, attendance.StateCheckedIn, invalidErr.CurrentState)

	// The winner's check-in stamp survives; the loser wrote nothing.
	rec, err := records.FindByBusinessDay(context.Background(), "u1", time.Date(2026, 3, 10, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, winnerStamp, *rec.CheckIn)

	st, err := states.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedIn, st.CurrentState)
	assert.Equal(t, winnerTime, st.LastUpdated)
}

func TestActionRequiringRecordWithoutOne(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, env.loc)

	// Force a state that claims a record exists when none does.
	_, err := env.states.Create(ctx, attendance.UserState{
		UserID:       "u1",
		CurrentState: attendance.StateCheckedIn,
		LastUpdated:  now.Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = env.svc.StartBreak(ctx, "u1", now)
	assert.ErrorIs(t, err, attendance.ErrNoRecordToday)
}
