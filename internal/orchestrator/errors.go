package orchestrator

import (
	"errors"
	"fmt"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"
)

var (
	// ErrRetryable is matched by network, service and payload failures. The
	// phase and the current unit are unchanged when it is returned.
	ErrRetryable = tutorapi.ErrRetryable

	// ErrBusy is returned without side effects while another content or
	// grading call is outstanding.
	ErrBusy = errors.New("a request is already in flight")

	// ErrGateLocked redirects the learner into the required-materials flow.
	ErrGateLocked = errors.New("required materials are incomplete")

	// ErrCourseComplete is returned by every operation except Reset once the
	// course has ended.
	ErrCourseComplete = errors.New("course complete")

	// ErrStale is returned when a response arrives after the session was
	// reset; the response has been discarded.
	ErrStale = errors.New("response discarded after session reset")
)

// ValidationError reports learner input that was rejected before any
// network call.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PhaseError reports an operation attempted in the wrong phase.
type PhaseError struct {
	Op    string
	Phase Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("cannot %s during %s", e.Op, e.Phase)
}

// retryable makes sure err matches ErrRetryable.
func retryable(op string, err error) error {
	if errors.Is(err, ErrRetryable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrRetryable, err)
}
