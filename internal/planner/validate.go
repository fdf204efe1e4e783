package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// instantLayouts are tried in order by ParseInstant. Zone-less layouts are
// read as UTC; a bare date is midnight UTC.
var instantLayouts = []string{
	domain.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseInstant parses an ISO-8601 date or date-time string into a UTC instant.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// validRequest is a GenerateRequest whose fields have passed validation.
type validRequest struct {
	start      time.Time
	end        time.Time
	guestCount int
	selected   []domain.SelectedActivity
}

// validate checks the request and returns the first violation found,
// wrapped in domain.ErrValidation.
func validate(req domain.GenerateRequest) (validRequest, error) {
	if strings.TrimSpace(req.StartDate) == "" {
		return validRequest{}, invalid("startDate is required")
	}
	if strings.TrimSpace(req.EndDate) == "" {
		return validRequest{}, invalid("endDate is required")
	}
	start, err := ParseInstant(req.StartDate)
	if err != nil {
		return validRequest{}, invalid("startDate is not a valid date")
	}
	end, err := ParseInstant(req.EndDate)
	if err != nil {
		return validRequest{}, invalid("endDate is not a valid date")
	}
	if !start.Before(end) {
		return validRequest{}, invalid("startDate must be before endDate")
	}
	if req.GuestCount < 1 {
		return validRequest{}, invalid("guestCount must be a positive integer")
	}
	if len(req.SelectedActivities) == 0 {
		return validRequest{}, invalid("selectedActivities must not be empty")
	}
	for i, sel := range req.SelectedActivities {
		if strings.TrimSpace(sel.ActivityID) == "" {
			return validRequest{}, invalid(fmt.Sprintf("selectedActivities[%d].activityId is required", i))
		}
	}
	return validRequest{
		start:      start,
		end:        end,
		guestCount: req.GuestCount,
		selected:   req.SelectedActivities,
	}, nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}

