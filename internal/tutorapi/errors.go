package tutorapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
)

// ErrRetryable is matched by every error the learner can recover from by
// trying again.
var ErrRetryable = content.ErrRetryable

// ErrMissingNextContent indicates a grading response without a next unit.
var ErrMissingNextContent = fmt.Errorf("grading response has no next content: %w", ErrRetryable)

// ServiceError is a failure reported by the tutoring service, either as a
// non-2xx status or as {"success": false}.
type ServiceError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status != 0 && e.Status != http.StatusOK {
		return fmt.Sprintf("%s: service returned %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: service reported failure: %s", e.Op, e.Message)
}

func (e *ServiceError) Is(target error) bool { return target == ErrRetryable }

// Permanent reports whether repeating the request cannot help.
func (e *ServiceError) Permanent() bool {
	switch e.Status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return e.Status >= 400 && e.Status < 500
}

// TransportError wraps a failure to reach the service or read its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrRetryable }

// isInvalidPayload reports whether err came from an undecodable unit.
func isInvalidPayload(err error) bool {
	var inv *content.InvalidUnitError
	return errors.As(err, &inv) || errors.Is(err, ErrMissingNextContent)
}
