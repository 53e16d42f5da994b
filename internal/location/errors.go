package location

import (
	"context"
	"errors"
	"fmt"
	"visit-route-service/internal/domain"
)

// Numeric codes reported by positioning APIs.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// PositionError is a provider failure carrying the positioning API code.
type PositionError struct {
	Code    int
	Message string
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("position error code %d", e.Code)
	}
	return fmt.Sprintf("position error code %d: %s", e.Code, e.Message)
}

type Kind int

const (
	KindUnknown Kind = iota
	KindPermissionDenied
	KindPositionUnavailable
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission_denied"
	case KindPositionUnavailable:
		return "position_unavailable"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindPermissionDenied:
		return domain.ErrPermissionDenied
	case KindPositionUnavailable:
		return domain.ErrPositionUnavailable
	case KindTimeout:
		return domain.ErrTimeout
	default:
		return domain.ErrLocationUnknown
	}
}

// Classify maps a provider error to one of the four failure kinds.
func Classify(err error) Kind {
	var pe *PositionError
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &pe):
		switch pe.Code {
		case CodePermissionDenied:
			return KindPermissionDenied
		case CodePositionUnavailable:
			return KindPositionUnavailable
		case CodeTimeout:
			return KindTimeout
		}
		return KindUnknown
	case errors.Is(err, domain.ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, domain.ErrPositionUnavailable):
		return KindPositionUnavailable
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	default:
		return KindUnknown
	}
}

// Error is returned by Locate when no provider produced a fix. It matches
// domain.ErrLocationUnavailable and the sentinel of its Kind.
type Error struct {
	Kind        Kind
	Unsupported bool
	Title       string
	Message     string
	Err         error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("locate: %s", e.Kind)
	}
	return fmt.Sprintf("locate: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	errs := []error{domain.ErrLocationUnavailable, e.Kind.sentinel()}
	if e.Unsupported {
		errs = append(errs, domain.ErrLocationUnsupported)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
