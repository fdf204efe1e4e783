package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// messageActivitiesNotFound is returned when any selected activity is unknown.
const messageActivitiesNotFound = "one or more activities not found"

// GenerateItinerary handles POST /itineraries/generate.
// Nothing is saved; the computed itinerary is returned as-is.
func (s *Server) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	it, err := s.itineraries.Generate(r.Context(), body.toDomain())
	if err != nil {
		s.writeGenerateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generatedToResponse(it, false))
}

// SaveItinerary handles POST /itineraries.
// The body is the same as for generate; the server computes and stores the result.
func (s *Server) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	saved, err := s.itineraries.Save(r.Context(), body.toDomain())
	if err != nil {
		s.writeGenerateError(w, r, err)
		return
	}
	w.Header().Set("Location", "/itineraries/"+saved.ID.String())
	writeJSON(w, http.StatusCreated, itineraryToResponse(saved))
}

// ListItineraries handles GET /itineraries.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	params, ok := paginationParams(w, r)
	if !ok {
		return
	}
	page, err := s.itineraries.List(r.Context(), params)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, itineraryToResponse))
}

// GetItinerary handles GET /itineraries/{id}.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	it, err := s.itineraries.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "itinerary not found")
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// DeleteItinerary handles DELETE /itineraries/{id}.
func (s *Server) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.itineraries.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "itinerary not found")
			return
		}
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeGenerateError maps planner failures. Unknown activities are a client
// error here (400), not a missing resource: the itinerary route itself exists.
func (s *Server) writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, domain.ErrActivitiesNotFound):
		writeError(w, http.StatusBadRequest, messageActivitiesNotFound)
	default:
		s.internalError(w, r, err)
	}
}

// --- request/response types -------------------------------------------------

// generateRequest is the JSON body of POST /itineraries/generate and POST /itineraries.
type generateRequest struct {
	StartDate          string                    `json:"startDate"`
	EndDate            string                    `json:"endDate"`
	GuestCount         json.RawMessage           `json:"guestCount"`
	SelectedActivities []selectedActivityRequest `json:"selectedActivities"`
}

type selectedActivityRequest struct {
	ActivityID    string  `json:"activityId"`
	PreferredTime *string `json:"preferredTime"`
}

func (b generateRequest) toDomain() domain.GenerateRequest {
	req := domain.GenerateRequest{
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		GuestCount: wholeNumber(b.GuestCount),
	}
	for _, sa := range b.SelectedActivities {
		req.SelectedActivities = append(req.SelectedActivities, domain.SelectedActivity{
			ActivityID:    sa.ActivityID,
			PreferredTime: sa.PreferredTime,
		})
	}
	return req
}

// wholeNumber returns raw as an int when it is a JSON number with no
// fractional part (so 2 and 2.0 are both 2). Anything else (missing, null,
// a string, 2.5, out of range) becomes 0, which validation then rejects
// with a clear message instead of a generic decode error.
func wholeNumber(raw json.RawMessage) int {
	var n json.Number
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil || n == "" {
		return 0
	}
	if i, err := n.Int64(); err == nil && i <= math.MaxInt32 && i >= math.MinInt32 {
		return int(i)
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// scheduledActivityResponse is one scheduled activity on the wire.
// ActivityName and Category are only populated for saved itineraries.
type scheduledActivityResponse struct {
	ActivityID    uuid.UUID          `json:"activityId"`
	ActivityName  string             `json:"activityName,omitempty"`
	Category      domain.Category    `json:"category,omitempty"`
	ScheduledDate openapi_types.Date `json:"scheduledDate"`
	ScheduledTime string             `json:"scheduledTime"`
	Duration      float64            `json:"duration"`
	Price         float64            `json:"price"`
	Participants  int                `json:"participants"`
}

// generatedItineraryResponse is the body of POST /itineraries/generate.
type generatedItineraryResponse struct {
	StartDate  time.Time                   `json:"startDate"`
	EndDate    time.Time                   `json:"endDate"`
	GuestCount int                         `json:"guestCount"`
	Activities []scheduledActivityResponse `json:"activities"`
	TotalPrice float64                     `json:"totalPrice"`
}

// itineraryResponse is a saved itinerary.
type itineraryResponse struct {
	ID uuid.UUID `json:"id"`
	generatedItineraryResponse
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func generatedToResponse(it domain.GeneratedItinerary, withNames bool) generatedItineraryResponse {
	activities := make([]scheduledActivityResponse, len(it.Activities))
	for i, a := range it.Activities {
		activities[i] = scheduledActivityResponse{
			ActivityID:    a.ActivityID,
			ScheduledDate: openapi_types.Date{Time: a.ScheduledDate.Time()},
			ScheduledTime: a.ScheduledTime,
			Duration:      a.Duration,
			Price:         a.Price,
			Participants:  a.Participants,
		}
		if withNames {
			activities[i].ActivityName = a.ActivityName
			activities[i].Category = a.Category
		}
	}
	return generatedItineraryResponse{
		StartDate:  it.StartDate.UTC(),
		EndDate:    it.EndDate.UTC(),
		GuestCount: it.GuestCount,
		Activities: activities,
		TotalPrice: it.TotalPrice,
	}
}

func itineraryToResponse(it domain.Itinerary) itineraryResponse {
	return itineraryResponse{
		ID:                         it.ID,
		generatedItineraryResponse: generatedToResponse(it.GeneratedItinerary, true),
		CreatedAt:                  it.CreatedAt,
		UpdatedAt:                  it.UpdatedAt,
	}
}
