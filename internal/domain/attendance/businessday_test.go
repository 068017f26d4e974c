package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

func TestResolveBusinessDay(t *testing.T) {
	t.Parallel()
	loc := tokyo(t)

	tests := []struct {
		name    string
		instant time.Time
		wantKey string
	}{
		{
			name:    "midday belongs to its own date",
			instant: time.Date(2026, 3, 10, 12, 0, 0, 0, loc),
			wantKey: "2026-03-10",
		},
		{
			name:    "exactly at the boundary starts the new day",
			instant: time.Date(2026, 3, 10, 4, 0, 0, 0, loc),
			wantKey: "2026-03-10",
		},
		{
			name:    "one millisecond before the boundary is the previous day",
			instant: time.Date(2026, 3, 10, 3, 59, 59, 999_000_000, loc),
			wantKey: "2026-03-09",
		},
		{
			name:    "one past midnight is the previous day",
			instant: time.Date(2026, 3, 10, 1, 0, 0, 0, loc),
			wantKey: "2026-03-09",
		},
		{
			name:    "midnight exactly is the previous day",
			instant: time.Date(2026, 3, 10, 0, 0, 0, 0, loc),
			wantKey: "2026-03-09",
		},
		{
			name:    "UTC instant is resolved in the business timezone",
			instant: time.Date(2026, 3, 9, 17, 30, 0, 0, time.UTC), // 02:30 on 3/10 in Tokyo
			wantKey: "2026-03-09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			day := ResolveBusinessDay(tt.instant, loc)
			assert.Equal(t, tt.wantKey, day.Key.Format("2006-01-02"))
		})
	}
}

func TestResolveBusinessDayWindow(t *testing.T) {
	t.Parallel()
	loc := tokyo(t)

	day := ResolveBusinessDay(time.Date(2026, 3, 10, 12, 0, 0, 0, loc), loc)

	assert.Equal(t, time.Date(2026, 3, 10, 4, 0, 0, 0, loc), day.Start)
	assert.Equal(t, time.Date(2026, 3, 11, 3, 59, 59, 999_000_000, loc), day.End)
	assert.Equal(t, 24*time.Hour-time.Millisecond, day.End.Sub(day.Start))

	// Key is local midnight of the owning date, not the window start.
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), day.Key)
}

func TestSameBusinessDay(t *testing.T) {
	t.Parallel()
	loc := tokyo(t)

	evening := time.Date(2026, 3, 10, 22, 0, 0, 0, loc)
	pastMidnight := time.Date(2026, 3, 11, 2, 30, 0, 0, loc)
	nextMorning := time.Date(2026, 3, 11, 9, 0, 0, 0, loc)

	assert.True(t, SameBusinessDay(evening, pastMidnight, loc), "overnight shift stays on one business day")
	assert.False(t, SameBusinessDay(evening, nextMorning, loc))
	assert.False(t, SameBusinessDay(pastMidnight, nextMorning, loc))
}
