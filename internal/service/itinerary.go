// Package service contains the business logic for the itinerary planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here. Services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
	"github.com/pkordes/itinerary-planner/backend/internal/planner"
	"github.com/pkordes/itinerary-planner/backend/internal/repo"
)

// ItineraryService generates itineraries and manages saved ones.
type ItineraryService struct {
	activities  planner.ActivityLookup
	itineraries repo.ItineraryRepo
}

// NewItineraryService constructs an ItineraryService. activities is usually
// the (possibly cached) ActivityRepo; itineraries stores saved results.
func NewItineraryService(activities planner.ActivityLookup, itineraries repo.ItineraryRepo) *ItineraryService {
	return &ItineraryService{activities: activities, itineraries: itineraries}
}

// Generate runs the planner without saving anything.
// Returns domain.ErrValidation for bad input and domain.ErrActivitiesNotFound
// when a selected activity does not exist.
func (s *ItineraryService) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedItinerary, error) {
	it, err := planner.Generate(ctx, req, s.activities)
	if err != nil {
		return domain.GeneratedItinerary{}, fmt.Errorf("service.ItineraryService.Generate: %w", err)
	}
	return it, nil
}

// Save generates an itinerary and persists it. The stored prices are always
// the ones computed here, never values supplied by the client.
func (s *ItineraryService) Save(ctx context.Context, req domain.GenerateRequest) (domain.Itinerary, error) {
	generated, err := planner.Generate(ctx, req, s.activities)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Save: %w", err)
	}
	saved, err := s.itineraries.Create(ctx, generated)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Save: %w", err)
	}
	return saved, nil
}

// GetByID returns a single saved itinerary.
// Returns domain.ErrNotFound if it does not exist.
func (s *ItineraryService) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.GetByID: %w", err)
	}
	return it, nil
}

// List returns one page of saved itineraries, newest first.
// Items is never nil so callers can safely range over it.
func (s *ItineraryService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Itinerary], error) {
	items, total, err := s.itineraries.ListPaged(ctx, p)
	if err != nil {
		return domain.Page[domain.Itinerary]{}, fmt.Errorf("service.ItineraryService.List: %w", err)
	}
	if items == nil {
		items = []domain.Itinerary{}
	}
	return domain.Page[domain.Itinerary]{Items: items, Total: total, Params: p}, nil
}

// Delete removes a saved itinerary by ID.
// Returns domain.ErrNotFound if it does not exist.
func (s *ItineraryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.itineraries.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	return nil
}
