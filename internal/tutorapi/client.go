package tutorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/mastery"
)

const (
	tracerName = "github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Client talks JSON over HTTP to the tutoring service.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
	prop    propagation.TextMapPropagator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for the service at baseURL. timeout bounds each
// request; zero means no limit beyond the caller's context.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer(tracerName),
		prop:    otel.GetTextMapPropagator(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type successEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e successEnvelope) failed() bool { return e.Success != nil && !*e.Success }

func (e successEnvelope) reason() string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return "unknown error"
}

func (c *Client) RegisterLearner(ctx context.Context, reg Registration) error {
	const op = "register learner"
	var resp successEnvelope
	if err := c.do(ctx, op, http.MethodPost, "/start", reg, &resp); err != nil {
		return err
	}
	if resp.failed() {
		return &ServiceError{Op: op, Status: http.StatusOK, Message: resp.reason()}
	}
	return nil
}

func (c *Client) GenerateContent(ctx context.Context, learnerID string, stage Stage) (content.Unit, error) {
	const op = "generate content"
	req := struct {
		LearnerID string `json:"learner_id"`
		Stage     Stage  `json:"stage"`
	}{learnerID, stage}

	var resp struct {
		successEnvelope
		Content json.RawMessage `json:"content"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/generate-content", req, &resp); err != nil {
		return nil, err
	}
	if resp.failed() {
		return nil, &ServiceError{Op: op, Status: http.StatusOK, Message: resp.reason()}
	}
	if len(resp.Content) == 0 || string(resp.Content) == "null" {
		return nil, &ServiceError{Op: op, Status: http.StatusOK, Message: "response has no content"}
	}

	u, err := content.Decode(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (c *Client) SubmitResponse(ctx context.Context, req GradeRequest) (*GradeResult, error) {
	const op = "submit response"
	var resp struct {
		successEnvelope
		NextContent      json.RawMessage `json:"next_content"`
		DebugContext     json.RawMessage `json:"debug_context"`
		MasteryScore     float64         `json:"mastery_score"`
		MasteryThreshold float64         `json:"mastery_threshold"`
		AssessmentsCount int             `json:"assessments_count"`
		ConceptCompleted bool            `json:"concept_completed"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/submit-response", req, &resp); err != nil {
		return nil, err
	}
	if resp.failed() {
		return nil, &ServiceError{Op: op, Status: http.StatusOK, Message: resp.reason()}
	}
	if len(resp.NextContent) == 0 || string(resp.NextContent) == "null" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingNextContent)
	}

	next, err := content.Decode(resp.NextContent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &GradeResult{
		Next:         next,
		DebugContext: resp.DebugContext,
		Mastery: mastery.Result{
			ConceptID:        req.CurrentConcept,
			Score:            resp.MasteryScore,
			Threshold:        resp.MasteryThreshold,
			AssessmentsCount: resp.AssessmentsCount,
			ConceptCompleted: resp.ConceptCompleted,
		},
	}, nil
}

func (c *Client) Progress(ctx context.Context, learnerID string) (*Progress, error) {
	const op = "fetch progress"
	var resp struct {
		successEnvelope
		CurrentConcept    string   `json:"current_concept"`
		CompletedConcepts []string `json:"completed_concepts"`
		OverallProgress   struct {
			ConceptsCompleted int `json:"concepts_completed"`
			TotalAssessments  int `json:"total_assessments"`
		} `json:"overall_progress"`
	}
	if err := c.do(ctx, op, http.MethodGet, "/progress/"+url.PathEscape(learnerID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.failed() {
		return nil, &ServiceError{Op: op, Status: http.StatusOK, Message: resp.reason()}
	}
	return &Progress{
		CurrentConcept:    resp.CurrentConcept,
		CompletedConcepts: resp.CompletedConcepts,
		ConceptsCompleted: resp.OverallProgress.ConceptsCompleted,
		TotalAssessments:  resp.OverallProgress.TotalAssessments,
	}, nil
}

func (c *Client) Course(ctx context.Context, courseID string) (*Course, error) {
	const op = "fetch course"
	var resp Course
	if err := c.do(ctx, op, http.MethodGet, "/courses/"+url.PathEscape(courseID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		resp.ID = courseID
	}
	return &resp, nil
}

func (c *Client) UpdateLearningStyle(ctx context.Context, learnerID, style string) error {
	const op = "update learning style"
	req := struct {
		LearnerID     string `json:"learner_id"`
		LearningStyle string `json:"learning_style"`
	}{learnerID, style}

	var resp successEnvelope
	if err := c.do(ctx, op, http.MethodPost, "/update-learning-style", req, &resp); err != nil {
		return err
	}
	if resp.failed() {
		return &ServiceError{Op: op, Status: http.StatusOK, Message: resp.reason()}
	}
	return nil
}

// do performs one request inside a client span. A nil body sends no payload.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "tutorapi "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.prop.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{Op: op, Status: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &ServiceError{Op: op, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// errorMessage extracts a human-readable reason from an error body.
func errorMessage(data []byte, fallback string) string {
	var body struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		for _, s := range []string{body.Detail, body.Error, body.Message} {
			if s != "" {
				return s
			}
		}
	}
	return fallback
}
