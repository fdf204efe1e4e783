// Package seed loads the starter activity catalogue into the database.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

//go:embed activities.yaml
var defaultCatalogue []byte

// Default returns the catalogue compiled into the binary.
func Default() ([]domain.Activity, error) {
	return Parse(defaultCatalogue)
}

type catalogue struct {
	Activities []activityEntry `yaml:"activities"`
}

type activityEntry struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Category     string   `yaml:"category"`
	Duration     float64  `yaml:"duration"`
	BasePrice    float64  `yaml:"basePrice"`
	Images       []string `yaml:"images"`
	PriceDetails struct {
		FullDay           *float64 `yaml:"fullDay"`
		HalfDay           *float64 `yaml:"halfDay"`
		PerPerson         *bool    `yaml:"perPerson"`
		AdditionalOptions []struct {
			Name  string  `yaml:"name"`
			Price float64 `yaml:"price"`
		} `yaml:"additionalOptions"`
	} `yaml:"priceDetails"`
	Capacity struct {
		Min int  `yaml:"min"`
		Max *int `yaml:"max"`
	} `yaml:"capacity"`
	Availability struct {
		SeasonStart string `yaml:"seasonStart"`
		SeasonEnd   string `yaml:"seasonEnd"`
		DaysOfWeek  []int  `yaml:"daysOfWeek"`
	} `yaml:"availability"`
}

// Parse decodes a YAML catalogue. Unknown keys are rejected so a typo in a
// price field cannot silently fall back to the base price.
func Parse(data []byte) ([]domain.Activity, error) {
	var c catalogue
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}
	out := make([]domain.Activity, 0, len(c.Activities))
	for i, e := range c.Activities {
		a, err := e.toDomain()
		if err != nil {
			return nil, fmt.Errorf("seed.Parse: activities[%d] %q: %w", i, e.Name, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (e activityEntry) toDomain() (domain.Activity, error) {
	perPerson := true
	if e.PriceDetails.PerPerson != nil {
		perPerson = *e.PriceDetails.PerPerson
	}
	a := domain.Activity{
		Name:        e.Name,
		Description: e.Description,
		Category:    domain.Category(e.Category),
		Duration:    e.Duration,
		BasePrice:   e.BasePrice,
		PriceDetails: domain.PriceDetails{
			FullDay:   e.PriceDetails.FullDay,
			HalfDay:   e.PriceDetails.HalfDay,
			PerPerson: perPerson,
		},
		Capacity: domain.Capacity{Min: e.Capacity.Min, Max: e.Capacity.Max},
		Availability: domain.Availability{
			DaysOfWeek: e.Availability.DaysOfWeek,
		},
		Images: e.Images,
	}
	for _, o := range e.PriceDetails.AdditionalOptions {
		a.PriceDetails.AdditionalOptions = append(a.PriceDetails.AdditionalOptions,
			domain.PriceOption{Name: o.Name, Price: o.Price})
	}

	var err error
	if a.Availability.SeasonStart, err = optionalDate(e.Availability.SeasonStart); err != nil {
		return domain.Activity{}, fmt.Errorf("seasonStart: %w", err)
	}
	if a.Availability.SeasonEnd, err = optionalDate(e.Availability.SeasonEnd); err != nil {
		return domain.Activity{}, fmt.Errorf("seasonEnd: %w", err)
	}
	return a, nil
}

func optionalDate(s string) (*domain.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Creator persists one activity. *service.ActivityService satisfies it, so
// seeded rows go through the same validation as the API.
type Creator interface {
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)
}

// Resetter removes existing activities before seeding.
type Resetter interface {
	DeleteAll(ctx context.Context) (int64, error)
}

// Seeder writes a catalogue through a Creator.
type Seeder struct {
	creator  Creator
	resetter Resetter
	log      *slog.Logger
}

// NewSeeder builds a Seeder. resetter may be nil when Run is never asked to reset.
func NewSeeder(creator Creator, resetter Resetter, log *slog.Logger) *Seeder {
	if log == nil {
		log = slog.Default()
	}
	return &Seeder{creator: creator, resetter: resetter, log: log}
}

// Run inserts every activity and returns how many were created. With reset
// set, existing activities that no saved itinerary references are deleted
// first. Seeding stops at the first failure.
func (s *Seeder) Run(ctx context.Context, activities []domain.Activity, reset bool) (int, error) {
	if reset {
		if s.resetter == nil {
			return 0, fmt.Errorf("seed.Seeder.Run: reset requested but no resetter configured")
		}
		n, err := s.resetter.DeleteAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("seed.Seeder.Run: reset: %w", err)
		}
		s.log.InfoContext(ctx, "deleted existing activities", "count", n)
	}

	for i, a := range activities {
		created, err := s.creator.Create(ctx, a)
		if err != nil {
			return i, fmt.Errorf("seed.Seeder.Run: create %q: %w", a.Name, err)
		}
		s.log.DebugContext(ctx, "seeded activity", "id", created.ID, "name", created.Name)
	}
	s.log.InfoContext(ctx, "seeded activities", "count", len(activities))
	return len(activities), nil
}
