package planner

import (
	"time"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

const day = 24 * time.Hour

// DayCount returns the number of calendar days a visit spans:
// the ceiling of (end - start) in whole days, never less than one.
// A span of a few hours is a one-day visit.
func DayCount(start, end time.Time) int {
	span := end.Sub(start)
	n := int(span / day)
	if span%day > 0 {
		n++
	}
	return max(n, 1)
}

// ExpandDays returns DayCount(start, end) consecutive calendar days
// beginning with start's UTC calendar date.
func ExpandDays(start, end time.Time) []domain.Date {
	first := domain.DateOf(start)
	days := make([]domain.Date, DayCount(start, end))
	for i := range days {
		days[i] = first.AddDays(i)
	}
	return days
}
