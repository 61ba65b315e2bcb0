package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"
)

// Begin records the learner's name and moves to onboarding.
func (o *Orchestrator) Begin(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "enter your name to begin"}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.guard("begin", PhaseWelcome, PhaseOnboarding); err != nil {
		return err
	}
	o.pendingName = name
	o.phase = PhaseOnboarding
	return nil
}

// CompleteOnboarding registers the learner with the service and moves to the
// gate check. On failure the phase stays at onboarding.
func (o *Orchestrator) CompleteOnboarding(ctx context.Context, profile tutorapi.Profile) error {
	o.mu.Lock()
	if err := o.guard("complete onboarding", PhaseOnboarding); err != nil {
		o.mu.Unlock()
		return err
	}
	epoch, ok := o.acquire()
	if !ok {
		o.mu.Unlock()
		return ErrBusy
	}
	learner := LearnerSession{
		LearnerID: uuid.NewString(),
		Name:      o.pendingName,
		CourseID:  o.courseID,
		Profile:   profile,
	}
	o.mu.Unlock()
	defer o.release(epoch)

	err := o.svc.RegisterLearner(ctx, tutorapi.Registration{
		LearnerID:   learner.LearnerID,
		LearnerName: learner.Name,
		Profile:     learner.Profile,
		CourseID:    learner.CourseID,
	})
	if err != nil {
		return retryable("register learner", err)
	}

	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		return ErrStale
	}
	o.learner = &learner
	o.pendingName = ""
	o.phase = PhaseGateCheck
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.persist(ctx, snap)
	o.recordSession(ctx, learner.LearnerID, "start", "")
	o.logger.Info("learner registered", "learner", learner.LearnerID)
	return nil
}

// Resume restores a returning learner from the session repository and moves
// straight to the gate check. It reports false when no snapshot exists.
func (o *Orchestrator) Resume(ctx context.Context, learnerID string) (bool, error) {
	if o.sessions == nil || learnerID == "" {
		return false, nil
	}

	o.mu.Lock()
	if err := o.guard("resume", PhaseWelcome); err != nil {
		o.mu.Unlock()
		return false, err
	}
	epoch := o.epoch
	o.mu.Unlock()

	snap, err := o.sessions.Load(ctx, learnerID)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if snap == nil {
		return false, nil
	}

	o.mu.Lock()
	if o.epoch != epoch || o.phase != PhaseWelcome {
		o.mu.Unlock()
		return false, ErrStale
	}
	courseID := snap.CourseID
	if courseID == "" {
		courseID = o.courseID
	}
	o.learner = &LearnerSession{
		LearnerID: snap.LearnerID,
		Name:      snap.Name,
		CourseID:  courseID,
		Profile: tutorapi.Profile{
			Answers:                snap.Profile.Answers,
			StudiedRomanceLanguage: snap.Profile.StudiedRomanceLanguage,
			StudiedLatinBefore:     snap.Profile.StudiedLatinBefore,
			LearningStyle:          snap.Profile.LearningStyle,
		},
	}
	o.conceptID = snap.CurrentConceptID
	o.moduleID = snap.CurrentModuleID
	o.tracker.ResetForConcept(o.conceptID)
	o.phase = PhaseGateCheck
	o.mu.Unlock()

	o.recordSession(ctx, learnerID, "resume", snap.CurrentConceptID)
	o.logger.Info("learner resumed", "learner", learnerID, "concept", snap.CurrentConceptID)
	return true, nil
}

// UpdateLearningStyle amends the learner's profile on the service and in the
// saved snapshot.
func (o *Orchestrator) UpdateLearningStyle(ctx context.Context, style string) error {
	style = strings.TrimSpace(style)
	if style == "" {
		return &ValidationError{Field: "learning style", Message: "choose a learning style"}
	}

	o.mu.Lock()
	if o.phase == PhaseCourseComplete {
		o.mu.Unlock()
		return ErrCourseComplete
	}
	if o.learner == nil {
		o.mu.Unlock()
		return &PhaseError{Op: "update learning style", Phase: o.phase}
	}
	epoch, ok := o.acquire()
	if !ok {
		o.mu.Unlock()
		return ErrBusy
	}
	learnerID := o.learner.LearnerID
	o.mu.Unlock()
	defer o.release(epoch)

	if err := o.svc.UpdateLearningStyle(ctx, learnerID, style); err != nil {
		return retryable("update learning style", err)
	}

	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		return ErrStale
	}
	o.learner.Profile.LearningStyle = style
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.persist(ctx, snap)
	return nil
}
