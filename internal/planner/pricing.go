package planner

import (
	"fmt"
	"math"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// Duration thresholds for the price tiers, in hours.
// Durations strictly between the two use the base price. The gap is
// inherited pricing behaviour and is kept on purpose.
const (
	FullDayMinHours = 5.0
	HalfDayMaxHours = 4.0
)

// UnitPrice picks the tier price for an activity before guest scaling.
// A tier applies only when it is set to a non-zero value.
func UnitPrice(a domain.Activity) float64 {
	pd := a.PriceDetails
	switch {
	case a.Duration >= FullDayMinHours && tierSet(pd.FullDay):
		return *pd.FullDay
	case a.Duration <= HalfDayMaxHours && tierSet(pd.HalfDay):
		return *pd.HalfDay
	default:
		return a.BasePrice
	}
}

// ResolvePrice returns the amount charged for an activity booked for
// guestCount guests: the unit price times guestCount when the activity is
// priced per person, otherwise the unit price as a flat group total.
func ResolvePrice(a domain.Activity, guestCount int) (float64, error) {
	price := UnitPrice(a)
	if a.PriceDetails.PerPerson {
		price *= float64(guestCount)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("%w: activity %s has no valid price", domain.ErrValidation, a.ID)
	}
	return price, nil
}

func tierSet(p *float64) bool {
	return p != nil && *p != 0
}
