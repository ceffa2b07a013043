package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"present", "overtime", "leave_working"}
	assert.True(t, IsInSlice("present", statuses))
	assert.False(t, IsInSlice("PRESENT", statuses))
	assert.False(t, IsInSlice("absent", statuses))
	assert.False(t, IsInSlice("present", nil))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-03-10")
	assert.True(t, ok)

	for _, bad := range []string{"2025-3-10", "10-03-2025", "2025-03-10T09:00:00Z", "not a date"} {
		_, ok := IsValidDate(bad)
		assert.False(t, ok, bad)
	}
}

func TestIsValidDateTime(t *testing.T) {
	_, ok := IsValidDateTime("2025-03-10T09:00:00Z")
	assert.True(t, ok)

	_, ok = IsValidDateTime("2025-03-10T09:00:00+07:00")
	assert.True(t, ok)

	_, ok = IsValidDateTime("2025-03-10")
	assert.False(t, ok)
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "status", Message: "status is required"},
		{Field: "date", Message: "date must be in YYYY-MM-DD format"},
	}

	assert.Equal(t, "status: status is required; date: date must be in YYYY-MM-DD format", errs.Error())
	assert.Equal(t, map[string]string{
		"status": "status is required",
		"date":   "date must be in YYYY-MM-DD format",
	}, errs.ToMap())
}
