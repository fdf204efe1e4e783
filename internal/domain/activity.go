// Package domain contains the core data types for the itinerary planner.
// This package depends only on the standard library and google/uuid and is
// imported by every other internal package (planner, repo, service, handler).
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Category groups activities in the catalogue.
type Category string

const (
	CategoryFishing         Category = "Fishing"
	CategoryWaterAdventures Category = "Water Adventures"
	CategoryHorsebackRiding Category = "Horseback Riding"
	CategoryATV             Category = "ATV"
	CategorySporting        Category = "Sporting"
	CategoryDining          Category = "Dining"
	CategoryKidsActivities  Category = "Kids Activities"
	CategoryOtherAdventures Category = "Other Adventures"
	CategorySpa             Category = "Spa"
)

// Categories lists every accepted Category in catalogue order.
var Categories = []Category{
	CategoryFishing,
	CategoryWaterAdventures,
	CategoryHorsebackRiding,
	CategoryATV,
	CategorySporting,
	CategoryDining,
	CategoryKidsActivities,
	CategoryOtherAdventures,
	CategorySpa,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Activity is a bookable experience in the catalogue.
// The planner treats it as read-only; capacity and availability are
// informational and never enforced when an itinerary is generated.
type Activity struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Category     Category     `json:"category"`
	Duration     float64      `json:"duration"` // hours, may be fractional
	BasePrice    float64      `json:"basePrice"`
	PriceDetails PriceDetails `json:"priceDetails"`
	Capacity     Capacity     `json:"capacity"`
	Availability Availability `json:"availability"`
	Images       []string     `json:"images"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// PriceDetails holds the optional duration tiers and the per-person flag.
// A nil tier means the activity has no price for that tier.
type PriceDetails struct {
	FullDay           *float64      `json:"fullDay,omitempty"`
	HalfDay           *float64      `json:"halfDay,omitempty"`
	PerPerson         bool          `json:"perPerson"`
	AdditionalOptions []PriceOption `json:"additionalOptions"`
}

// PriceOption is an optional upgrade shown alongside the activity.
// Options are not added to generated itinerary prices.
type PriceOption struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Capacity is the supported group size. Max is nil when unbounded.
type Capacity struct {
	Min int  `json:"min"`
	Max *int `json:"max,omitempty"`
}

// Availability is the season and weekdays an activity runs.
// DaysOfWeek uses 0 = Sunday through 6 = Saturday.
type Availability struct {
	SeasonStart *Date `json:"seasonStart,omitempty"`
	SeasonEnd   *Date `json:"seasonEnd,omitempty"`
	DaysOfWeek  []int `json:"daysOfWeek"`
}
