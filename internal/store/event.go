package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Event types written to the log.
const (
	EventSession     = "session"
	EventServiceCall = "service_call"
	EventAnswer      = "answer"
	EventMastery     = "mastery"
)

// SessionEventData records a session lifecycle action.
type SessionEventData struct {
	LearnerID string `json:"-"`
	Action    string `json:"action"` // "start", "resume", "reset", "end", "course_complete"
	ConceptID string `json:"concept_id,omitempty"`
}

// ServiceCallEventData captures one call to the tutoring service.
type ServiceCallEventData struct {
	LearnerID    string `json:"-"`
	Operation    string `json:"operation"`
	LatencyMs    int64  `json:"latency_ms"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// AnswerEventData captures one graded answer.
type AnswerEventData struct {
	LearnerID    string `json:"-"`
	ConceptID    string `json:"concept_id"`
	QuestionType string `json:"question_type"`
	Correct      *bool  `json:"correct,omitempty"`
	Confidence   *int   `json:"confidence,omitempty"`
}

// MasteryEventData captures a mastery change reported by the service.
type MasteryEventData struct {
	LearnerID        string  `json:"-"`
	ConceptID        string  `json:"concept_id"`
	FromScore        float64 `json:"from_score"`
	ToScore          float64 `json:"to_score"`
	AssessmentsCount int     `json:"assessments_count"`
	ConceptCompleted bool    `json:"concept_completed"`
}

// Event is one stored log entry.
type Event struct {
	Sequence  int64
	Type      string
	LearnerID string
	Timestamp time.Time
	Data      json.RawMessage
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	LearnerID string    // only this learner ("" = all)
	Type      string    // only this type ("" = all)
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	From      time.Time // timestamp >= From
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendServiceCall(ctx context.Context, data ServiceCallEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendMasteryEvent(ctx context.Context, data MasteryEventData) error

	// Query returns events in sequence order, newest last.
	Query(ctx context.Context, opts QueryOpts) ([]Event, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.append(ctx, EventSession, data.LearnerID, data)
}

func (r *eventRepo) AppendServiceCall(ctx context.Context, data ServiceCallEventData) error {
	return r.append(ctx, EventServiceCall, data.LearnerID, data)
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.append(ctx, EventAnswer, data.LearnerID, data)
}

func (r *eventRepo) AppendMasteryEvent(ctx context.Context, data MasteryEventData) error {
	return r.append(ctx, EventMastery, data.LearnerID, data)
}

func (r *eventRepo) append(ctx context.Context, typ, learnerID string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", typ, err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert("events").
		Columns("type", "learner_id", "timestamp", "data").
		Values(typ, learnerID, time.Now().UTC().UnixMilli(), string(payload)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append %s event: %w", typ, err)
	}
	return nil
}

func (r *eventRepo) Query(ctx context.Context, opts QueryOpts) ([]Event, error) {
	var preds []*entsql.Predicate
	if opts.LearnerID != "" {
		preds = append(preds, entsql.EQ("learner_id", opts.LearnerID))
	}
	if opts.Type != "" {
		preds = append(preds, entsql.EQ("type", opts.Type))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UnixMilli()))
	}

	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "type", "learner_id", "timestamp", "data").
		From(entsql.Table("events")).
		OrderBy("sequence")
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e    Event
			ts   int64
			data string
		)
		if err := rows.Scan(&e.Sequence, &e.Type, &e.LearnerID, &ts, &data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		e.Data = json.RawMessage(data)
		out = append(out, e)
	}
	return out, rows.Err()
}
