package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
	"github.com/pkordes/itinerary-planner/backend/internal/repo"
)

// ExportService flattens a saved itinerary into export rows.
type ExportService struct {
	itineraries repo.ItineraryRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(itineraries repo.ItineraryRepo) *ExportService {
	return &ExportService{itineraries: itineraries}
}

// Export returns one ExportRow per scheduled activity of the itinerary,
// sorted chronologically by date then time. Activities sharing a slot keep
// their allocation order. Returns domain.ErrNotFound for an unknown ID.
func (s *ExportService) Export(ctx context.Context, id uuid.UUID) ([]domain.ExportRow, error) {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, len(it.Activities))
	for i, a := range it.Activities {
		rows[i] = domain.ExportRow{
			ItineraryID:   it.ID,
			ScheduledDate: a.ScheduledDate,
			ScheduledTime: a.ScheduledTime,
			ActivityID:    a.ActivityID,
			ActivityName:  a.ActivityName,
			Category:      a.Category,
			Duration:      a.Duration,
			Participants:  a.Participants,
			Price:         a.Price,
		}
	}

	slices.SortStableFunc(rows, func(a, b domain.ExportRow) int {
		if c := a.ScheduledDate.Time().Compare(b.ScheduledDate.Time()); c != 0 {
			return c
		}
		// "HH:MM" strings sort chronologically.
		return cmp.Compare(a.ScheduledTime, b.ScheduledTime)
	})
	return rows, nil
}
