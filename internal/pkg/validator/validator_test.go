package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidEmail("user@example.com"))
	assert.True(t, IsValidEmail("first.last+tag@sub.example.co.jp"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("user@"))
	assert.False(t, IsValidEmail("@example.com"))
}

func TestIsValidDateTime(t *testing.T) {
	t.Parallel()

	_, ok := IsValidDateTime("2026-03-10T09:00:00Z")
	assert.True(t, ok)

	parsed, ok := IsValidDateTime("2026-03-10T09:00:00+09:00")
	assert.True(t, ok)
	assert.Equal(t, 9, parsed.Hour())

	_, ok = IsValidDateTime("2026-03-10 09:00:00")
	assert.False(t, ok)

	_, ok = IsValidDateTime("09:00")
	assert.False(t, ok)
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	parsed, ok := ParseClock("09:30")
	assert.True(t, ok)
	assert.Equal(t, 9, parsed.Hour())
	assert.Equal(t, 30, parsed.Minute())

	parsed, ok = ParseClock("23:59:58")
	assert.True(t, ok)
	assert.Equal(t, 58, parsed.Second())

	_, ok = ParseClock("25:00")
	assert.False(t, ok)

	_, ok = ParseClock("2026-03-10T09:00:00Z")
	assert.False(t, ok)
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	errs := ValidationErrors{
		{Field: "email", Message: "a valid email is required"},
		{Field: "password", Message: "password is required"},
	}

	assert.Contains(t, errs.Error(), "email: a valid email is required")
	assert.Contains(t, errs.Error(), "password: password is required")

	m := errs.ToMap()
	assert.Equal(t, "a valid email is required", m["email"])
	assert.Equal(t, "password is required", m["password"])
}
