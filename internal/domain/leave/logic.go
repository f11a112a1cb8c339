package leave

import (
	"errors"
	"time"
)

// CalculateDays returns inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return float64(int(end.Sub(start).Hours()/24) + 1), nil
}

// YearWindow returns [Jan 1, Dec 31] of the year containing now.
func YearWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	return from, to
}

// Bucket counts APPROVED rows as used and PENDING rows as pending, per
// leave type, for rows starting within the calendar year of now. Other
// statuses and other years are ignored.
func Bucket(rows []BalanceRow, annual int, now time.Time) Balance {
	out := Balance{Annual: annual, Used: map[string]int{}, Pending: map[string]int{}}
	from, to := YearWindow(now)
	for _, row := range rows {
		day := truncateDay(row.StartDate)
		if day.Before(from) || day.After(to) {
			continue
		}
		switch row.Status {
		case StatusApproved:
			out.Used[row.Type]++
		case StatusPending:
			out.Pending[row.Type]++
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
