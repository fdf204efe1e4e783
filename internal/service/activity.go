package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
	"github.com/pkordes/itinerary-planner/backend/internal/repo"
)

// ActivityService implements business logic for the activity catalogue.
type ActivityService struct {
	repo repo.ActivityRepo
}

// NewActivityService constructs an ActivityService backed by the provided ActivityRepo.
func NewActivityService(r repo.ActivityRepo) *ActivityService {
	return &ActivityService{repo: r}
}

// Create validates and persists a new activity.
func (s *ActivityService) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	a = withDefaults(a)
	if err := validateActivity(a); err != nil {
		return domain.Activity{}, err
	}
	result, err := s.repo.Create(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single activity by ID.
func (s *ActivityService) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of the catalogue ordered by name.
func (s *ActivityService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Activity], error) {
	items, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return domain.Page[domain.Activity]{}, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	if items == nil {
		items = []domain.Activity{}
	}
	return domain.Page[domain.Activity]{Items: items, Total: total, Params: p}, nil
}

// Update validates and updates an existing activity.
func (s *ActivityService) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	a = withDefaults(a)
	if err := validateActivity(a); err != nil {
		return domain.Activity{}, err
	}
	result, err := s.repo.Update(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	return result, nil
}

// Delete removes an activity by ID. Returns domain.ErrConflict when a saved
// itinerary still schedules it.
func (s *ActivityService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}
	return nil
}

// withDefaults trims names and fills the minimum group size.
func withDefaults(a domain.Activity) domain.Activity {
	a.Name = strings.TrimSpace(a.Name)
	a.Description = strings.TrimSpace(a.Description)
	if a.Capacity.Min == 0 {
		a.Capacity.Min = 1
	}
	return a
}

// validateActivity enforces business rules common to both Create and Update.
func validateActivity(a domain.Activity) error {
	switch {
	case a.Name == "":
		return invalidf("name is required")
	case a.Description == "":
		return invalidf("description is required")
	case !a.Category.Valid():
		return invalidf("category %q is not one of the supported categories", a.Category)
	case a.Duration <= 0:
		return invalidf("duration must be greater than zero")
	case a.BasePrice < 0:
		return invalidf("basePrice must not be negative")
	case a.PriceDetails.FullDay != nil && *a.PriceDetails.FullDay < 0:
		return invalidf("priceDetails.fullDay must not be negative")
	case a.PriceDetails.HalfDay != nil && *a.PriceDetails.HalfDay < 0:
		return invalidf("priceDetails.halfDay must not be negative")
	case a.Capacity.Min < 1:
		return invalidf("capacity.min must be at least 1")
	case a.Capacity.Max != nil && *a.Capacity.Max < a.Capacity.Min:
		return invalidf("capacity.max must not be less than capacity.min")
	}

	for _, opt := range a.PriceDetails.AdditionalOptions {
		if strings.TrimSpace(opt.Name) == "" {
			return invalidf("additional option name is required")
		}
		if opt.Price < 0 {
			return invalidf("additional option %q must not have a negative price", opt.Name)
		}
	}

	av := a.Availability
	if av.SeasonStart != nil && av.SeasonEnd != nil && av.SeasonEnd.Before(*av.SeasonStart) {
		return invalidf("availability.seasonEnd must not be before seasonStart")
	}
	for _, d := range av.DaysOfWeek {
		if d < 0 || d > 6 {
			return invalidf("availability.daysOfWeek values must be between 0 and 6")
		}
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
