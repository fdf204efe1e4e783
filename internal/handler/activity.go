package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// CreateActivity handles POST /activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var body activityRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.activities.Create(r.Context(), body.toDomain(uuid.Nil))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
			return
		}
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Location", "/activities/"+created.ID.String())
	writeJSON(w, http.StatusCreated, created)
}

// ListActivities handles GET /activities.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	params, ok := paginationParams(w, r)
	if !ok {
		return
	}
	page, err := s.activities.List(r.Context(), params)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, func(a domain.Activity) domain.Activity { return a }))
}

// GetActivity handles GET /activities/{id}.
func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := s.activities.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "activity not found")
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateActivity handles PUT /activities/{id}. The body replaces the whole activity.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body activityRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.activities.Update(r.Context(), body.toDomain(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "activity not found")
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		default:
			s.internalError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteActivity handles DELETE /activities/{id}.
// Activities referenced by a saved itinerary cannot be deleted (409).
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.activities.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "activity not found")
		case errors.Is(err, domain.ErrConflict):
			writeError(w, http.StatusConflict, "activity is used by a saved itinerary")
		default:
			s.internalError(w, r, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// activityRequest is the JSON body of POST and PUT /activities.
// It differs from domain.Activity only where the wire needs to tell
// "absent" from "zero": perPerson defaults to true when omitted.
type activityRequest struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Category     domain.Category     `json:"category"`
	Duration     float64             `json:"duration"`
	BasePrice    float64             `json:"basePrice"`
	PriceDetails priceDetailsRequest `json:"priceDetails"`
	Capacity     domain.Capacity     `json:"capacity"`
	Availability domain.Availability `json:"availability"`
	Images       []string            `json:"images"`
}

type priceDetailsRequest struct {
	FullDay           *float64             `json:"fullDay"`
	HalfDay           *float64             `json:"halfDay"`
	PerPerson         *bool                `json:"perPerson"`
	AdditionalOptions []domain.PriceOption `json:"additionalOptions"`
}

func (b activityRequest) toDomain(id uuid.UUID) domain.Activity {
	perPerson := true
	if b.PriceDetails.PerPerson != nil {
		perPerson = *b.PriceDetails.PerPerson
	}
	return domain.Activity{
		ID:          id,
		Name:        b.Name,
		Description: b.Description,
		Category:    b.Category,
		Duration:    b.Duration,
		BasePrice:   b.BasePrice,
		PriceDetails: domain.PriceDetails{
			FullDay:           b.PriceDetails.FullDay,
			HalfDay:           b.PriceDetails.HalfDay,
			PerPerson:         perPerson,
			AdditionalOptions: b.PriceDetails.AdditionalOptions,
		},
		Capacity:     b.Capacity,
		Availability: b.Availability,
		Images:       b.Images,
	}
}
