package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrLocationUnknown     = errors.New("unknown location error")

	// ErrLocationUnavailable is returned once every positioning provider failed.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrLocationUnsupported means no positioning provider exists at all.
	// It also matches ErrLocationUnavailable.
	ErrLocationUnsupported = fmt.Errorf("location unsupported: %w", ErrLocationUnavailable)

	ErrInsufficientDestinations = errors.New("at least one destination is required")
	ErrValidation               = errors.New("validation failed")
	ErrMutationFailed           = errors.New("mutation failed")
	ErrPatientNotFound          = errors.New("patient not found")
)

// RouteServiceError reports a non-success answer (or an unreadable payload)
// from the route optimization service. Message is shown to the user verbatim.
type RouteServiceError struct {
	Status  int
	Message string
	Err     error
}

func (e *RouteServiceError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("route service: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("route service: %s", e.Message)
}

func (e *RouteServiceError) Unwrap() error { return e.Err }
