package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Message string `json:"message"`
}

// messageInternal is the only detail a client sees for unexpected failures.
const messageInternal = "internal server error"

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out, so an encode failure can only be dropped.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"message": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// internalError logs err with request context and returns an opaque 500.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, messageInternal)
}

// validationMessage extracts the human-readable part from a wrapped
// domain.ErrValidation error.
// e.g. "service.ItineraryService.Generate: validation error: guestCount must be a positive integer"
// → "guestCount must be a positive integer"
func validationMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// decodeJSON reads the request body into dst. On failure it writes the
// response itself (413 when the body limit was hit, 400 otherwise) and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "request body is not valid JSON")
	return false
}

// pathID parses the {id} URL parameter, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// paginationParams reads ?page= and ?limit=, writing a 400 when either is not an integer.
func paginationParams(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	q := r.URL.Query()
	var page, limit *int
	for _, p := range []struct {
		name string
		dst  **int
	}{{"page", &page}, {"limit", &limit}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, p.name+" must be an integer")
			return domain.PaginationParams{}, false
		}
		*p.dst = &n
	}
	return domain.NewPaginationParams(page, limit), true
}

// paginationResponse is the envelope metadata for list endpoints.
type paginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// listResponse wraps one page of items.
type listResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func newListResponse[S, T any](page domain.Page[S], convert func(S) T) listResponse[T] {
	data := make([]T, len(page.Items))
	for i, item := range page.Items {
		data[i] = convert(item)
	}
	return listResponse[T]{
		Data: data,
		Pagination: paginationResponse{
			Page:  page.Params.Page,
			Limit: page.Params.Limit,
			Total: page.Total,
		},
	}
}
