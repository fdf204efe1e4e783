package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service and planner functions when input fails
// business rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422, or 400 on the generate endpoint.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would break a reference held by another
// record, such as deleting an activity that a saved itinerary still schedules.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrActivitiesNotFound is returned when an itinerary request references at
// least one activity that does not exist. It deliberately names no ID.
// errors.Is(ErrActivitiesNotFound, ErrNotFound) reports true.
var ErrActivitiesNotFound = fmt.Errorf("one or more activities %w", ErrNotFound)
