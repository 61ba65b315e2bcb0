package tutorapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/store"
)

// CallRecorder appends service-call events to the local event log.
type CallRecorder interface {
	AppendServiceCall(ctx context.Context, data store.ServiceCallEventData) error
}

// loggingService is a decorator that records every service call.
type loggingService struct {
	inner  Service
	rec    CallRecorder
	logger *slog.Logger
}

// WithLogging wraps a Service with structured logging and, when rec is
// non-nil, an event-log entry per call.
func WithLogging(s Service, rec CallRecorder, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingService{inner: s, rec: rec, logger: logger}
}

func (l *loggingService) RegisterLearner(ctx context.Context, reg Registration) error {
	start := time.Now()
	err := l.inner.RegisterLearner(ctx, reg)
	l.record(ctx, "register_learner", reg.LearnerID, start, err)
	return err
}

func (l *loggingService) GenerateContent(ctx context.Context, learnerID string, stage Stage) (content.Unit, error) {
	start := time.Now()
	u, err := l.inner.GenerateContent(ctx, learnerID, stage)
	l.record(ctx, "generate_content", learnerID, start, err, "stage", string(stage))
	return u, err
}

func (l *loggingService) SubmitResponse(ctx context.Context, req GradeRequest) (*GradeResult, error) {
	start := time.Now()
	res, err := l.inner.SubmitResponse(ctx, req)
	l.record(ctx, "submit_response", req.LearnerID, start, err, "question_type", req.QuestionType)
	return res, err
}

func (l *loggingService) Progress(ctx context.Context, learnerID string) (*Progress, error) {
	start := time.Now()
	p, err := l.inner.Progress(ctx, learnerID)
	l.record(ctx, "progress", learnerID, start, err)
	return p, err
}

func (l *loggingService) Course(ctx context.Context, courseID string) (*Course, error) {
	start := time.Now()
	c, err := l.inner.Course(ctx, courseID)
	l.record(ctx, "course", "", start, err, "course", courseID)
	return c, err
}

func (l *loggingService) UpdateLearningStyle(ctx context.Context, learnerID, style string) error {
	start := time.Now()
	err := l.inner.UpdateLearningStyle(ctx, learnerID, style)
	l.record(ctx, "update_learning_style", learnerID, start, err)
	return err
}

func (l *loggingService) record(ctx context.Context, op, learnerID string, start time.Time, err error, attrs ...any) {
	latency := time.Since(start)
	args := append([]any{"op", op, "latency", latency}, attrs...)
	if err != nil {
		l.logger.Warn("service call failed", append(args, "err", err)...)
	} else {
		l.logger.Debug("service call", args...)
	}

	if l.rec == nil {
		return
	}
	data := store.ServiceCallEventData{
		LearnerID: learnerID,
		Operation: op,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	// A failed event write never fails the call.
	if logErr := l.rec.AppendServiceCall(context.WithoutCancel(ctx), data); logErr != nil {
		l.logger.Warn("record service call", "err", logErr)
	}
}
