package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDays(t *testing.T) {
	days, err := CalculateDays(day(2025, 1, 10), day(2025, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1.0, days)

	days, err = CalculateDays(day(2025, 1, 10), day(2025, 1, 12))
	require.NoError(t, err)
	assert.Equal(t, 3.0, days)

	days, err = CalculateDays(day(2025, 2, 27), day(2025, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, 4.0, days)
}

func TestCalculateDaysInvalid(t *testing.T) {
	_, err := CalculateDays(day(2025, 2, 10), day(2025, 2, 9))
	assert.Error(t, err)
}

func TestBucketCurrentYearOnly(t *testing.T) {
	now := day(2025, 6, 15)
	rows := []BalanceRow{
		{Type: TypeAnnual, Status: StatusApproved, StartDate: day(2025, 1, 1)},
		{Type: TypeAnnual, Status: StatusApproved, StartDate: day(2025, 12, 31)},
		{Type: TypeSick, Status: StatusApproved, StartDate: day(2025, 3, 3)},
		{Type: TypeAnnual, Status: StatusPending, StartDate: day(2025, 7, 1)},
		{Type: TypeAnnual, Status: StatusRejected, StartDate: day(2025, 4, 1)},
		{Type: TypeAnnual, Status: StatusApproved, StartDate: day(2024, 12, 31)},
		{Type: TypeSick, Status: StatusPending, StartDate: day(2024, 11, 2)},
		{Type: TypeAnnual, Status: StatusApproved, StartDate: day(2026, 1, 1)},
	}

	got := Bucket(rows, 14, now)
	assert.Equal(t, 14, got.Annual)
	assert.Equal(t, map[string]int{TypeAnnual: 2, TypeSick: 1}, got.Used)
	assert.Equal(t, map[string]int{TypeAnnual: 1}, got.Pending)
}

func TestBucketEmpty(t *testing.T) {
	got := Bucket(nil, 10, day(2025, 1, 1))
	assert.Equal(t, Balance{Annual: 10, Used: map[string]int{}, Pending: map[string]int{}}, got)
}
