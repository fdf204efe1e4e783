// Package planner turns a visit date range and a list of selected activities
// into a priced day-by-day itinerary.
//
// Generation is a pure transform: it validates the request, loads the
// activities through an ActivityLookup, prices each one, places it on a day
// and time slot, and totals the result. It holds no state and is safe for
// concurrent use.
package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// ActivityLookup batch-loads activities by ID.
// Implementations return one record per ID that exists and silently omit
// IDs that do not.
type ActivityLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error)
}

// Generate builds an itinerary for req. It fails with domain.ErrValidation
// for malformed input, domain.ErrActivitiesNotFound when any selected
// activity is unknown, and otherwise returns lookup errors wrapped.
// No partial itinerary is ever returned.
func Generate(ctx context.Context, req domain.GenerateRequest, lookup ActivityLookup) (domain.GeneratedItinerary, error) {
	v, err := validate(req)
	if err != nil {
		return domain.GeneratedItinerary{}, err
	}

	activities, err := resolveActivities(ctx, lookup, v.selected)
	if err != nil {
		return domain.GeneratedItinerary{}, err
	}

	days := ExpandDays(v.start, v.end)

	scheduled := make([]domain.ScheduledActivity, len(activities))
	var total float64
	for i, a := range activities {
		price, err := ResolvePrice(a, v.guestCount)
		if err != nil {
			return domain.GeneratedItinerary{}, err
		}
		alloc := Allocate(i, len(days))
		scheduled[i] = domain.ScheduledActivity{
			ActivityID:    a.ID,
			ActivityName:  a.Name,
			Category:      a.Category,
			ScheduledDate: days[alloc.DayIndex],
			ScheduledTime: alloc.Slot.Clock,
			Duration:      a.Duration,
			Price:         price,
			Participants:  v.guestCount,
		}
		total += price
	}

	return domain.GeneratedItinerary{
		StartDate:  v.start,
		EndDate:    v.end,
		GuestCount: v.guestCount,
		Activities: scheduled,
		TotalPrice: total,
	}, nil
}

// resolveActivities loads every distinct selected ID in one lookup call and
// returns the records in selection order, repeating records for repeated IDs.
// An ID that is not a UUID cannot exist and counts as not found.
func resolveActivities(ctx context.Context, lookup ActivityLookup, selected []domain.SelectedActivity) ([]domain.Activity, error) {
	order := make([]uuid.UUID, len(selected))
	seen := make(map[uuid.UUID]struct{}, len(selected))
	distinct := make([]uuid.UUID, 0, len(selected))
	for i, sel := range selected {
		id, err := uuid.Parse(sel.ActivityID)
		if err != nil {
			return nil, domain.ErrActivitiesNotFound
		}
		order[i] = id
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			distinct = append(distinct, id)
		}
	}

	found, err := lookup.FindByIDs(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("planner.Generate: find activities: %w", err)
	}
	if len(found) != len(distinct) {
		return nil, domain.ErrActivitiesNotFound
	}

	byID := make(map[uuid.UUID]domain.Activity, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	out := make([]domain.Activity, len(order))
	for i, id := range order {
		a, ok := byID[id]
		if !ok {
			return nil, domain.ErrActivitiesNotFound
		}
		out[i] = a
	}
	return out, nil
}
