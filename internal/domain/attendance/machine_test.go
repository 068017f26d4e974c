package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideAllowedTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from   State
		action Action
		want   State
	}{
		{StateNotCheckedIn, ActionCheckIn, StateCheckedIn},
		{StateNotCheckedIn, ActionMarkAbsent, StateAbsent},
		{StateCheckedIn, ActionStartBreak, StateOnBreak},
		{StateCheckedIn, ActionCheckOut, StateCheckedOut},
		{StateOnBreak, ActionEndBreak, StateCheckedIn},
		{StateCheckedOut, ActionRecheckIn, StateCheckedIn},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			t.Parallel()
			tr, err := Decide(tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.Next())
		})
	}
}

func TestDecideRejectsEverythingElse(t *testing.T) {
	t.Parallel()

	allowed := map[State]map[Action]bool{
		StateNotCheckedIn: {ActionCheckIn: true, ActionMarkAbsent: true},
		StateCheckedIn:    {ActionStartBreak: true, ActionCheckOut: true},
		StateOnBreak:      {ActionEndBreak: true},
		StateCheckedOut:   {ActionRecheckIn: true},
		StateAbsent:       {},
	}

	states := []State{StateNotCheckedIn, StateCheckedIn, StateOnBreak, StateCheckedOut, StateAbsent}
	actions := []Action{ActionCheckIn, ActionStartBreak, ActionEndBreak, ActionCheckOut, ActionRecheckIn, ActionMarkAbsent}

	for _, state := range states {
		for _, action := range actions {
			if allowed[state][action] {
				continue
			}

			_, err := Decide(state, action)
			require.Error(t, err, "state %s action %s", state, action)

			var invalidErr *InvalidTransitionError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, state, invalidErr.CurrentState)
			assert.Equal(t, action, invalidErr.Action)
		}
	}
}

func TestTransitionApplyCheckIn(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tr, err := Decide(StateNotCheckedIn, ActionCheckIn)
	require.NoError(t, err)
	assert.False(t, tr.NeedsRecord())

	rec := Record{IsAbsent: true}
	tr.Apply(&rec, now)

	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, now, *rec.CheckIn)
	assert.False(t, rec.IsAbsent, "checking in clears a previous absence flag")
}

func TestTransitionApplyBreakBackfillsCheckIn(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tr, err := Decide(StateCheckedIn, ActionStartBreak)
	require.NoError(t, err)
	assert.True(t, tr.NeedsRecord())

	rec := Record{}
	tr.Apply(&rec, now)

	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, now, *rec.CheckIn)
	require.NotNil(t, rec.BreakStart)
	assert.Equal(t, now, *rec.BreakStart)
}

func TestTransitionApplyLastCheckOutWins(t *testing.T) {
	t.Parallel()

	first := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	second := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)

	tr, err := Decide(StateCheckedIn, ActionCheckOut)
	require.NoError(t, err)

	rec := Record{CheckOut: &first}
	tr.Apply(&rec, second)

	require.NotNil(t, rec.CheckOut)
	assert.Equal(t, second, *rec.CheckOut)
}

func TestTransitionRecheckInKeepsRecord(t *testing.T) {
	t.Parallel()

	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)

	tr, err := Decide(StateCheckedOut, ActionRecheckIn)
	require.NoError(t, err)
	assert.True(t, tr.NeedsRecord())

	rec := Record{CheckIn: &checkIn, CheckOut: &checkOut}
	tr.Apply(&rec, now)

	assert.Equal(t, checkIn, *rec.CheckIn)
	assert.Equal(t, checkOut, *rec.CheckOut, "re-entry leaves the record untouched")
}

func TestReconcile(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tests := []struct {
		name        string
		current     State
		lastUpdated time.Time
		now         time.Time
		want        State
		wantReset   bool
	}{
		{
			name:        "same business day keeps state",
			current:     StateCheckedIn,
			lastUpdated: time.Date(2026, 3, 10, 9, 0, 0, 0, loc),
			now:         time.Date(2026, 3, 10, 18, 0, 0, 0, loc),
			want:        StateCheckedIn,
		},
		{
			name:        "overnight before the boundary keeps state",
			current:     StateCheckedIn,
			lastUpdated: time.Date(2026, 3, 10, 22, 0, 0, 0, loc),
			now:         time.Date(2026, 3, 11, 3, 30, 0, 0, loc),
			want:        StateCheckedIn,
		},
		{
			name:        "past the boundary resets",
			current:     StateCheckedOut,
			lastUpdated: time.Date(2026, 3, 10, 18, 0, 0, 0, loc),
			now:         time.Date(2026, 3, 11, 4, 0, 0, 0, loc),
			want:        StateNotCheckedIn,
			wantReset:   true,
		},
		{
			name:        "several stale days reset once",
			current:     StateOnBreak,
			lastUpdated: time.Date(2026, 3, 5, 12, 0, 0, 0, loc),
			now:         time.Date(2026, 3, 10, 9, 0, 0, 0, loc),
			want:        StateNotCheckedIn,
			wantReset:   true,
		},
		{
			name:        "initial state never reports a reset",
			current:     StateNotCheckedIn,
			lastUpdated: time.Date(2026, 3, 5, 12, 0, 0, 0, loc),
			now:         time.Date(2026, 3, 10, 9, 0, 0, 0, loc),
			want:        StateNotCheckedIn,
		},
		{
			name:        "absent state resets on the next day",
			current:     StateAbsent,
			lastUpdated: time.Date(2026, 3, 10, 9, 0, 0, 0, loc),
			now:         time.Date(2026, 3, 11, 9, 0, 0, 0, loc),
			want:        StateNotCheckedIn,
			wantReset:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, wasReset := Reconcile(tt.current, tt.lastUpdated, tt.now, loc)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantReset, wasReset)
		})
	}
}
