package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const lastLearnerKey = "last_learner"

// ProfileData is the persisted onboarding profile.
type ProfileData struct {
	Answers                map[string]string `json:"answers,omitempty"`
	StudiedRomanceLanguage bool              `json:"studied_romance_language"`
	StudiedLatinBefore     bool              `json:"studied_latin_before"`
	LearningStyle          string            `json:"learning_style,omitempty"`
}

// SessionSnapshot is what a returning learner resumes from.
type SessionSnapshot struct {
	LearnerID        string
	Name             string
	CourseID         string
	Profile          ProfileData
	CurrentConceptID string
	CurrentModuleID  string
	SavedAt          time.Time
}

// SessionRepo persists learner session snapshots.
type SessionRepo interface {
	// Load returns the snapshot for a learner, or nil if none exists.
	Load(ctx context.Context, learnerID string) (*SessionSnapshot, error)

	// Save upserts a snapshot and marks its learner as the last one seen.
	Save(ctx context.Context, snap *SessionSnapshot) error

	// LastLearner returns the id of the most recently saved learner, or "".
	LastLearner(ctx context.Context) (string, error)
}

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Load(ctx context.Context, learnerID string) (*SessionSnapshot, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("learner_id", "name", "course_id", "profile", "current_concept", "current_module", "saved_at").
		From(entsql.Table("sessions")).
		Where(entsql.EQ("learner_id", learnerID)).
		Query()

	var (
		snap    SessionSnapshot
		profile string
		savedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&snap.LearnerID, &snap.Name, &snap.CourseID, &profile,
		&snap.CurrentConceptID, &snap.CurrentModuleID, &savedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", learnerID, err)
	}
	if err := json.Unmarshal([]byte(profile), &snap.Profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	snap.SavedAt = time.UnixMilli(savedAt).UTC()
	return &snap, nil
}

func (r *sessionRepo) Save(ctx context.Context, snap *SessionSnapshot) error {
	if snap.LearnerID == "" {
		return errors.New("save session: empty learner id")
	}
	profile, err := json.Marshal(snap.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}

	b := entsql.Dialect(dialect.SQLite)
	upsert, upsertArgs := b.Insert("sessions").
		Columns("learner_id", "name", "course_id", "profile", "current_concept", "current_module", "saved_at").
		Values(snap.LearnerID, snap.Name, snap.CourseID, string(profile),
			snap.CurrentConceptID, snap.CurrentModuleID, snap.SavedAt.UnixMilli()).
		OnConflict(entsql.ConflictColumns("learner_id"), entsql.ResolveWithNewValues()).
		Query()
	last, lastArgs := b.Insert("settings").
		Columns("key", "value").
		Values(lastLearnerKey, snap.LearnerID).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, upsertArgs...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, last, lastArgs...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save last learner: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (r *sessionRepo) LastLearner(ctx context.Context) (string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table("settings")).
		Where(entsql.EQ("key", lastLearnerKey)).
		Query()
	var id string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last learner: %w", err)
	}
	return id, nil
}
