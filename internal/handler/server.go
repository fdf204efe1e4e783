// Package handler implements the HTTP handlers for the itinerary planner API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, activity.go, itinerary.go, export.go) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// ActivityServicer defines the catalogue operations the activity handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type ActivityServicer interface {
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Activity], error)
	Update(ctx context.Context, a domain.Activity) (domain.Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItineraryServicer defines the generation and saved-itinerary operations.
type ItineraryServicer interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedItinerary, error)
	Save(ctx context.Context, req domain.GenerateRequest) (domain.Itinerary, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)
	List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Itinerary], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Exporter flattens a saved itinerary into export rows.
type Exporter interface {
	Export(ctx context.Context, id uuid.UUID) ([]domain.ExportRow, error)
}

// Pinger reports whether a backing store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	activities  ActivityServicer
	itineraries ItineraryServicer
	export      Exporter
	db          Pinger
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// db may be nil, in which case /healthz only reports that the process is up.
// A nil log falls back to slog.Default().
func NewServer(activities ActivityServicer, itineraries ItineraryServicer, export Exporter, db Pinger, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		activities:  activities,
		itineraries: itineraries,
		export:      export,
		db:          db,
		log:         log,
	}
}

// Routes returns a chi router with every API route registered.
// Cross-cutting middleware (request ID, logging, CORS, metrics) is applied by
// the caller so tests can exercise the handlers in isolation.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", s.ListActivities)
		r.Post("/", s.CreateActivity)
		r.Get("/{id}", s.GetActivity)
		r.Put("/{id}", s.UpdateActivity)
		r.Delete("/{id}", s.DeleteActivity)
	})

	r.Route("/itineraries", func(r chi.Router) {
		r.Post("/generate", s.GenerateItinerary)
		r.Get("/", s.ListItineraries)
		r.Post("/", s.SaveItinerary)
		r.Get("/{id}", s.GetItinerary)
		r.Delete("/{id}", s.DeleteItinerary)
		r.Get("/{id}/export", s.ExportItinerary)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
