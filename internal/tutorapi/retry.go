package tutorapi

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
)

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns three attempts with exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2.0,
	}
}

// retryService is a decorator that retries transient errors with
// exponential backoff and jitter.
type retryService struct {
	inner  Service
	config RetryConfig
}

// WithRetry wraps a Service with retry logic.
func WithRetry(s Service, cfg RetryConfig) Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &retryService{inner: s, config: cfg}
}

// RegisterLearner is sent once. The service may have stored the learner
// before the failure surfaced, so the caller decides whether to repeat it.
func (r *retryService) RegisterLearner(ctx context.Context, reg Registration) error {
	return r.inner.RegisterLearner(ctx, reg)
}

func (r *retryService) GenerateContent(ctx context.Context, learnerID string, stage Stage) (content.Unit, error) {
	return retry(ctx, r, func() (content.Unit, error) {
		return r.inner.GenerateContent(ctx, learnerID, stage)
	})
}

// SubmitResponse is sent once. Grading is not idempotent: a replay after a
// lost reply would count the same answer twice.
func (r *retryService) SubmitResponse(ctx context.Context, req GradeRequest) (*GradeResult, error) {
	return r.inner.SubmitResponse(ctx, req)
}

func (r *retryService) Progress(ctx context.Context, learnerID string) (*Progress, error) {
	return retry(ctx, r, func() (*Progress, error) {
		return r.inner.Progress(ctx, learnerID)
	})
}

func (r *retryService) Course(ctx context.Context, courseID string) (*Course, error) {
	return retry(ctx, r, func() (*Course, error) {
		return r.inner.Course(ctx, courseID)
	})
}

func (r *retryService) UpdateLearningStyle(ctx context.Context, learnerID, style string) error {
	_, err := retry(ctx, r, func() (struct{}, error) {
		return struct{}{}, r.inner.UpdateLearningStyle(ctx, learnerID, style)
	})
	return err
}

func retry[T any](ctx context.Context, r *retryService, call func() (T, error)) (T, error) {
	var (
		zero           T
		lastErr        error
		invalidRetried bool
	)

	for attempt := range r.config.MaxAttempts {
		v, err := call()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !shouldRetry(err, &invalidRetried) {
			return zero, err
		}

		// Last attempt: don't sleep, just return the error.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return zero, lastErr
}

// shouldRetry determines if an error is retryable.
func shouldRetry(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Permanent() {
		return false
	}

	// Undecodable payloads get one retry.
	if isInvalidPayload(err) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	return errors.Is(err, ErrRetryable)
}

// backoff computes the wait duration for the given attempt.
func (r *retryService) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
