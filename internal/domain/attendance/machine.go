package attendance

import "time"

// Transition describes one legal (state, action) pair: the resulting state,
// whether a record for the current business day must already exist, and the
// mutation applied to it.
type Transition struct {
	next State

	// needsRecord rejects the action with ErrNoRecordToday when no record
	// exists for the current business day. Actions without it create the
	// record themselves.
	needsRecord bool

	apply func(rec *Record, now time.Time)
}

// transitions is the single source of truth for the state machine. Every
// (state, action) pair missing from this table is an invalid transition.
//
//	not_checked_in --check_in----> checked_in
//	not_checked_in --mark_absent-> absent
//	checked_in ----- start_break-> on_break
//	on_break ------- end_break---> checked_in
//	checked_in ----- check_out---> checked_out
//	checked_out ---- recheck_in--> checked_in
var transitions = map[State]map[Action]Transition{
	StateNotCheckedIn: {
		ActionCheckIn: {
			next: StateCheckedIn,
			apply: func(rec *Record, now time.Time) {
				rec.CheckIn = &now
				rec.IsAbsent = false
			},
		},
		ActionMarkAbsent: {
			next: StateAbsent,
			apply: func(rec *Record, now time.Time) {
				rec.IsAbsent = true
			},
		},
	},
	StateCheckedIn: {
		ActionStartBreak: {
			next:        StateOnBreak,
			needsRecord: true,
			apply: func(rec *Record, now time.Time) {
				// A record can exist without a check-in when an admin edit
				// or a concurrent reset raced the check-in away; backfill
				// so the break never precedes the start of work.
				if rec.CheckIn == nil {
					rec.CheckIn = &now
				}
				rec.BreakStart = &now
			},
		},
		ActionCheckOut: {
			next:        StateCheckedOut,
			needsRecord: true,
			apply: func(rec *Record, now time.Time) {
				// After a recheck-in the earlier check-out is stale; the
				// last check-out of the day wins.
				rec.CheckOut = &now
			},
		},
	},
	StateOnBreak: {
		ActionEndBreak: {
			next:        StateCheckedIn,
			needsRecord: true,
			apply: func(rec *Record, now time.Time) {
				rec.BreakEnd = &now
			},
		},
	},
	StateCheckedOut: {
		ActionRecheckIn: {
			next:        StateCheckedIn,
			needsRecord: true,
			// Re-entry changes only the user state; the record keeps its
			// original check-in stamp.
		},
	},
	StateAbsent: {},
}

// Decide looks up the transition for the current state and requested
// action. An unknown pair returns *InvalidTransitionError carrying the
// authoritative current state so the caller can resynchronize.
func Decide(current State, action Action) (Transition, error) {
	if tr, ok := transitions[current][action]; ok {
		return tr, nil
	}
	return Transition{}, &InvalidTransitionError{Action: action, CurrentState: current}
}

// Next returns the state an action leads to from current.
func (t Transition) Next() State { return t.next }

// NeedsRecord reports whether the action requires an existing record for
// the current business day.
func (t Transition) NeedsRecord() bool { return t.needsRecord }

// Apply mutates rec according to the transition. No-op for transitions
// without a record effect.
func (t Transition) Apply(rec *Record, now time.Time) {
	if t.apply != nil {
		t.apply(rec, now)
	}
}

// Reconcile detects state left over from a prior business day. When the
// stored state belongs to an earlier day and is not already the initial
// state, it is forced back to not_checked_in. Runs at the top of every
// state read and every transition; reset is lazy, there is no background
// sweep, so a user who never acts on a later day keeps the stale row until
// the next query touches it.
func Reconcile(current State, lastUpdated, now time.Time, loc *time.Location) (State, bool) {
	if current == StateNotCheckedIn {
		return current, false
	}
	if ResolveBusinessDay(now, loc).Key.After(ResolveBusinessDay(lastUpdated, loc).Key) {
		return StateNotCheckedIn, true
	}
	return current, false
}
