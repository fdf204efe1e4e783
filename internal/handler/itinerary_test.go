package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// ---- helpers ---------------------------------------------------------------

func generatedFixture() domain.GeneratedItinerary {
	return domain.GeneratedItinerary{
		StartDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		GuestCount: 2,
		Activities: []domain.ScheduledActivity{
			{
				ActivityID:    uuid.New(),
				ActivityName:  "Missouri River Full Day Float",
				Category:      domain.CategoryFishing,
				ScheduledDate: domain.NewDate(2024, 6, 1),
				ScheduledTime: "09:00",
				Duration:      8,
				Price:         1400,
				Participants:  2,
			},
			{
				ActivityID:    uuid.New(),
				ActivityName:  "Bearcat Canyon Trail Ride",
				Category:      domain.CategoryHorsebackRiding,
				ScheduledDate: domain.NewDate(2024, 6, 2),
				ScheduledTime: "14:00",
				Duration:      3,
				Price:         300,
				Participants:  2,
			},
		},
		TotalPrice: 1700,
	}
}

func savedFixture() domain.Itinerary {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Itinerary{
		ID:                 uuid.New(),
		GeneratedItinerary: generatedFixture(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func generateBody(t *testing.T) *bytes.Buffer {
	return jsonBody(t, map[string]any{
		"startDate":  "2024-06-01",
		"endDate":    "2024-06-03",
		"guestCount": 2,
		"selectedActivities": []map[string]any{
			{"activityId": uuid.NewString(), "preferredTime": nil},
			{"activityId": uuid.NewString()},
		},
	})
}

// ---- POST /itineraries/generate --------------------------------------------

func TestGenerateItinerary_200(t *testing.T) {
	var got domain.GenerateRequest
	svc := &mockItineraryServicer{
		generate: func(_ context.Context, req domain.GenerateRequest) (domain.GeneratedItinerary, error) {
			got = req
			return generatedFixture(), nil
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodPost, "/itineraries/generate", generateBody(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-06-01", got.StartDate)
	assert.Equal(t, 2, got.GuestCount)
	require.Len(t, got.SelectedActivities, 2)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2024-06-01T00:00:00Z", body["startDate"])
	assert.Equal(t, "2024-06-03T00:00:00Z", body["endDate"])
	assert.EqualValues(t, 2, body["guestCount"])
	assert.EqualValues(t, 1700, body["totalPrice"])

	activities := body["activities"].([]any)
	require.Len(t, activities, 2)
	first := activities[0].(map[string]any)
	assert.Equal(t, "2024-06-01", first["scheduledDate"])
	assert.Equal(t, "09:00", first["scheduledTime"])
	assert.EqualValues(t, 8, first["duration"])
	assert.EqualValues(t, 1400, first["price"])
	assert.EqualValues(t, 2, first["participants"])
	assert.NotContains(t, first, "activityName")
}

func TestGenerateItinerary_GuestCountForms(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`2`, 2},
		{`2.0`, 2},
		{`2.5`, 0},
		{`"3"`, 3},
		{`"three"`, 0},
		{`null`, 0},
		{`-1`, -1},
		{`1e12`, 0},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			var got domain.GenerateRequest
			svc := &mockItineraryServicer{
				generate: func(_ context.Context, req domain.GenerateRequest) (domain.GeneratedItinerary, error) {
					got = req
					return domain.GeneratedItinerary{}, nil
				},
			}
			h := newHTTPHandler(deps{itineraries: svc})
			body := fmt.Sprintf(`{"startDate":"2024-06-01","endDate":"2024-06-02","guestCount":%s,"selectedActivities":[]}`, tc.raw)

			rec := serve(h, http.MethodPost, "/itineraries/generate", strings.NewReader(body))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, got.GuestCount)
		})
	}
}

func TestGenerateItinerary_400_Validation(t *testing.T) {
	svc := &mockItineraryServicer{
		generate: func(_ context.Context, _ domain.GenerateRequest) (domain.GeneratedItinerary, error) {
			return domain.GeneratedItinerary{}, fmt.Errorf("service.ItineraryService.Generate: %w",
				fmt.Errorf("%w: startDate must be before endDate", domain.ErrValidation))
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodPost, "/itineraries/generate", generateBody(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "startDate must be before endDate", errorMessage(t, rec))
}

func TestGenerateItinerary_400_ActivitiesNotFound(t *testing.T) {
	svc := &mockItineraryServicer{
		generate: func(_ context.Context, _ domain.GenerateRequest) (domain.GeneratedItinerary, error) {
			return domain.GeneratedItinerary{}, fmt.Errorf("service.ItineraryService.Generate: %w", domain.ErrActivitiesNotFound)
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodPost, "/itineraries/generate", generateBody(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "one or more activities not found", errorMessage(t, rec))
}

func TestGenerateItinerary_500_IsOpaqueAndLogged(t *testing.T) {
	var logs bytes.Buffer
	svc := &mockItineraryServicer{
		generate: func(_ context.Context, _ domain.GenerateRequest) (domain.GeneratedItinerary, error) {
			return domain.GeneratedItinerary{}, errors.New("pq: connection reset by peer")
		},
	}
	h := newHTTPHandler(deps{itineraries: svc, logs: &logs})

	rec := serve(h, http.MethodPost, "/itineraries/generate", generateBody(t))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorMessage(t, rec))
	assert.Contains(t, logs.String(), "connection reset by peer")
}

func TestGenerateItinerary_400_MalformedJSON(t *testing.T) {
	svc := &mockItineraryServicer{
		generate: func(_ context.Context, _ domain.GenerateRequest) (domain.GeneratedItinerary, error) {
			t.Fatal("service must not be called for a malformed body")
			return domain.GeneratedItinerary{}, nil
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodPost, "/itineraries/generate", strings.NewReader(`{"startDate":`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request body is not valid JSON", errorMessage(t, rec))
}

func TestGenerateItinerary_400_EmptyBody(t *testing.T) {
	h := newHTTPHandler(deps{itineraries: &mockItineraryServicer{}})

	rec := serve(h, http.MethodPost, "/itineraries/generate", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- POST /itineraries -----------------------------------------------------

func TestSaveItinerary_201(t *testing.T) {
	saved := savedFixture()
	svc := &mockItineraryServicer{
		save: func(_ context.Context, _ domain.GenerateRequest) (domain.Itinerary, error) {
			return saved, nil
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodPost, "/itineraries", generateBody(t))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/itineraries/"+saved.ID.String(), rec.Header().Get("Location"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, saved.ID.String(), body["id"])
	assert.EqualValues(t, 1700, body["totalPrice"])
	first := body["activities"].([]any)[0].(map[string]any)
	assert.Equal(t, "Missouri River Full Day Float", first["activityName"])
	assert.Equal(t, "Fishing", first["category"])
}

func TestSaveItinerary_400_Validation(t *testing.T) {
	svc := &mockItineraryServicer{
		save: func(_ context.Context, _ domain.GenerateRequest) (domain.Itinerary, error) {
			return domain.Itinerary{}, fmt.Errorf("%w: guestCount must be a positive integer", domain.ErrValidation)
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodPost, "/itineraries", generateBody(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "guestCount must be a positive integer", errorMessage(t, rec))
}

// ---- GET /itineraries ------------------------------------------------------

func TestListItineraries_200(t *testing.T) {
	var seen domain.PaginationParams
	svc := &mockItineraryServicer{
		list: func(_ context.Context, p domain.PaginationParams) (domain.Page[domain.Itinerary], error) {
			seen = p
			return domain.Page[domain.Itinerary]{Items: []domain.Itinerary{savedFixture()}, Total: 11, Params: p}, nil
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodGet, "/itineraries?page=2&limit=5", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 5}, seen)

	var body struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Page, Limit int
			Total       int64
		} `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 5, body.Pagination.Limit)
	assert.EqualValues(t, 11, body.Pagination.Total)
}

func TestListItineraries_200_EmptyIsArray(t *testing.T) {
	svc := &mockItineraryServicer{
		list: func(_ context.Context, p domain.PaginationParams) (domain.Page[domain.Itinerary], error) {
			return domain.Page[domain.Itinerary]{Items: []domain.Itinerary{}, Params: p}, nil
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodGet, "/itineraries", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestListItineraries_400_BadPage(t *testing.T) {
	h := newHTTPHandler(deps{itineraries: &mockItineraryServicer{}})

	rec := serve(h, http.MethodGet, "/itineraries?page=two", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "page must be an integer", errorMessage(t, rec))
}

// ---- GET/DELETE /itineraries/{id} ------------------------------------------

func TestGetItinerary_200(t *testing.T) {
	saved := savedFixture()
	svc := &mockItineraryServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Itinerary, error) {
			require.Equal(t, saved.ID, id)
			return saved, nil
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodGet, "/itineraries/"+saved.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetItinerary_404(t *testing.T) {
	svc := &mockItineraryServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Itinerary, error) {
			return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.GetByID: %w", domain.ErrNotFound)
		},
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodGet, "/itineraries/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "itinerary not found", errorMessage(t, rec))
}

func TestGetItinerary_400_BadID(t *testing.T) {
	h := newHTTPHandler(deps{itineraries: &mockItineraryServicer{}})

	rec := serve(h, http.MethodGet, "/itineraries/not-a-uuid", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteItinerary_204(t *testing.T) {
	svc := &mockItineraryServicer{
		delete: func(_ context.Context, _ uuid.UUID) error { return nil },
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodDelete, "/itineraries/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteItinerary_404(t *testing.T) {
	svc := &mockItineraryServicer{
		delete: func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound },
	}
	h := newHTTPHandler(deps{itineraries: svc})

	rec := serve(h, http.MethodDelete, "/itineraries/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
