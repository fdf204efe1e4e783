package domain

import "github.com/google/uuid"

// ExportRow is a single row in an itinerary export.
// It is a flat, denormalized view: one row per scheduled activity, with the
// itinerary's identity repeated on every row.
type ExportRow struct {
	ItineraryID   uuid.UUID
	ScheduledDate Date
	ScheduledTime string
	ActivityID    uuid.UUID
	ActivityName  string
	Category      Category
	Duration      float64
	Participants  int
	Price         float64
}
