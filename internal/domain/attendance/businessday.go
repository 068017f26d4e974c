package attendance

import "time"

// boundaryHour is the local hour at which a new business day starts.
// Shift workers regularly work past midnight; anchoring the boundary at
// 04:00 keeps an overnight shift on a single record.
const boundaryHour = 4

// BusinessDay is the resolved working day for an instant. Key is local
// midnight of the owning calendar date and is what records are keyed by;
// Start/End delimit the 04:00:00.000 to next-day 03:59:59.999 window in
// which the day's events fall.
type BusinessDay struct {
	Key   time.Time
	Start time.Time
	End   time.Time
}

// ResolveBusinessDay computes the business day owning t in loc. Instants
// before 04:00 local belong to the previous calendar date. Pure and total
// for any instant; loc is fixed configuration, never user input.
func ResolveBusinessDay(t time.Time, loc *time.Location) BusinessDay {
	local := t.In(loc)
	if local.Hour() < boundaryHour {
		local = local.AddDate(0, 0, -1)
	}

	key := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	start := key.Add(boundaryHour * time.Hour)

	return BusinessDay{
		Key:   key,
		Start: start,
		End:   start.Add(24*time.Hour - time.Millisecond),
	}
}

// SameBusinessDay reports whether a and b fall on the same business day.
func SameBusinessDay(a, b time.Time, loc *time.Location) bool {
	return ResolveBusinessDay(a, loc).Key.Equal(ResolveBusinessDay(b, loc).Key)
}
