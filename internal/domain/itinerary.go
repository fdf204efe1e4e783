package domain

import (
	"time"

	"github.com/google/uuid"
)

// SelectedActivity is one entry of a generation request.
// PreferredTime is accepted on the wire but not yet used for scheduling.
type SelectedActivity struct {
	ActivityID    string
	PreferredTime *string
}

// GenerateRequest is the raw input to itinerary generation.
// Dates are kept as the strings the client sent; the planner parses them.
type GenerateRequest struct {
	StartDate          string
	EndDate            string
	GuestCount         int
	SelectedActivities []SelectedActivity
}

// ScheduledActivity is a single activity placed on a day and time slot.
// ActivityName and Category are copied from the activity for display.
type ScheduledActivity struct {
	ActivityID    uuid.UUID
	ActivityName  string
	Category      Category
	ScheduledDate Date
	ScheduledTime string // "09:00" or "14:00"
	Duration      float64
	Price         float64
	Participants  int
}

// GeneratedItinerary is the priced schedule produced for one request.
// Activities are in allocation order, which is the order the client
// submitted them in and not necessarily chronological.
type GeneratedItinerary struct {
	StartDate  time.Time
	EndDate    time.Time
	GuestCount int
	Activities []ScheduledActivity
	TotalPrice float64
}

// Itinerary is a GeneratedItinerary that has been saved.
type Itinerary struct {
	ID uuid.UUID
	GeneratedItinerary
	CreatedAt time.Time
	UpdatedAt time.Time
}
