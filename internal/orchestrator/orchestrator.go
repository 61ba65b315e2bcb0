// Package orchestrator drives one learner's tutoring session: onboarding,
// the required-materials gate, content delivery, confidence capture, mastery
// tracking and course completion.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/confidence"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/mastery"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/materials"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/store"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"
)

// Phase is the orchestrator's position in the session.
type Phase string

const (
	PhaseWelcome            Phase = "welcome"
	PhaseOnboarding         Phase = "onboarding"
	PhaseGateCheck          Phase = "gate-check"
	PhasePreviewChoice      Phase = "preview-choice"
	PhaseContent            Phase = "content"
	PhaseConfidence         Phase = "confidence"
	PhaseMasteryCelebration Phase = "mastery-celebration"
	PhaseCourseComplete     Phase = "course-complete"
)

// Features toggles optional behaviors of the session.
type Features struct {
	PreviewChoice bool
	Confidence    bool
	MasteryBar    bool
}

// AllFeatures enables every optional behavior.
func AllFeatures() Features {
	return Features{PreviewChoice: true, Confidence: true, MasteryBar: true}
}

// LearnerSession identifies the learner. Identity is fixed at onboarding; the
// profile may be amended.
type LearnerSession struct {
	LearnerID string
	Name      string
	CourseID  string
	Profile   tutorapi.Profile
}

// SessionRepository persists learner snapshots for resume.
type SessionRepository interface {
	Load(ctx context.Context, learnerID string) (*store.SessionSnapshot, error)
	Save(ctx context.Context, snap *store.SessionSnapshot) error
}

// EventRecorder appends session activity to the event log.
type EventRecorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
	AppendMasteryEvent(ctx context.Context, data store.MasteryEventData) error
}

// Options configures an Orchestrator.
type Options struct {
	Service  tutorapi.Service
	Sessions SessionRepository
	Events   EventRecorder
	// Gates resolves modules and their material gates; nil gates nothing.
	Gates    *materials.Registry
	CourseID string
	Features Features

	// Zero values select mastery.DefaultThreshold and
	// mastery.DefaultMinAssessments.
	Threshold      float64
	MinAssessments int
	Scale          confidence.Scale

	Logger *slog.Logger
}

// Orchestrator is the session state machine. All methods are safe for
// concurrent use; blocking calls release the lock while waiting on the
// service.
type Orchestrator struct {
	svc      tutorapi.Service
	sessions SessionRepository
	events   EventRecorder
	gates    *materials.Registry
	courseID string
	features Features
	logger   *slog.Logger

	busy atomic.Bool

	mu            sync.Mutex
	epoch         uint64
	phase         Phase
	pendingName   string
	learner       *LearnerSession
	unit          content.Unit
	unitSeq       uint64
	conceptID     string
	moduleID      string
	previewChosen bool
	progress      tutorapi.Progress
	syllabus      *tutorapi.Course
	tracker       *mastery.Tracker
	protocol      *confidence.Protocol
	completed     mastery.State
}

// New creates an orchestrator in the welcome phase.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		svc:      opts.Service,
		sessions: opts.Sessions,
		events:   opts.Events,
		gates:    opts.Gates,
		courseID: opts.CourseID,
		features: opts.Features,
		logger:   logger,
		phase:    PhaseWelcome,
		tracker:  mastery.NewTracker(opts.Threshold, opts.MinAssessments),
		protocol: confidence.New(opts.Features.Confidence, opts.Scale),
	}
}

// View is a read-only copy of the orchestrator state for rendering.
type View struct {
	Phase   Phase
	Learner *LearnerSession
	Unit    content.Unit
	// UnitSeq changes whenever a new unit is shown.
	UnitSeq  uint64
	Mastery  mastery.State
	Scale    confidence.Scale
	Features Features

	ConceptID string
	ModuleID  string
	Progress  tutorapi.Progress

	// Completed is the final state of the concept being celebrated.
	Completed mastery.State

	Busy bool
}

// AwaitingConfidence reports whether the learner must rate confidence.
func (v View) AwaitingConfidence() bool { return v.Phase == PhaseConfidence }

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	v := View{
		Phase:     o.phase,
		Unit:      o.unit,
		UnitSeq:   o.unitSeq,
		Mastery:   o.tracker.State(),
		Scale:     o.protocol.Scale(),
		Features:  o.features,
		ConceptID: o.conceptID,
		ModuleID:  o.moduleID,
		Progress:  o.progress,
		Completed: o.completed,
		Busy:      o.busy.Load(),
	}
	if o.learner != nil {
		l := *o.learner
		v.Learner = &l
	}
	return v
}

// Reset abandons the session and returns to the welcome phase. Responses to
// calls started before the reset are discarded when they arrive.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	learnerID := ""
	if o.learner != nil {
		learnerID = o.learner.LearnerID
	}
	o.epoch++
	o.busy.Store(false)
	o.phase = PhaseWelcome
	o.pendingName = ""
	o.learner = nil
	o.unit = nil
	o.unitSeq++
	o.conceptID = ""
	o.moduleID = ""
	o.previewChosen = false
	o.progress = tutorapi.Progress{}
	o.syllabus = nil
	o.completed = mastery.State{}
	o.tracker.ResetForConcept("")
	o.protocol.Clear()
	o.mu.Unlock()

	if learnerID != "" {
		o.recordSession(context.Background(), learnerID, "reset", "")
	}
}

// CurrentGate returns the material gate of the current module, or nil when
// no learner is active.
func (o *Orchestrator) CurrentGate() *materials.Gate {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.learner == nil {
		return nil
	}
	return o.gateFor(*o.learner, o.moduleID)
}

func (o *Orchestrator) gateFor(learner LearnerSession, moduleID string) *materials.Gate {
	if o.gates == nil {
		return materials.NewGate(nil, o.logger, learner.LearnerID, learner.CourseID, moduleID, nil)
	}
	return o.gates.Gate(learner.LearnerID, learner.CourseID, moduleID)
}

// acquire takes the single-flight slot. The caller must hold mu.
func (o *Orchestrator) acquire() (uint64, bool) {
	if !o.busy.CompareAndSwap(false, true) {
		return 0, false
	}
	return o.epoch, true
}

// release frees the slot unless a reset already handed it to a new session.
func (o *Orchestrator) release(epoch uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.epoch == epoch {
		o.busy.Store(false)
	}
}

// guard rejects operations that do not fit the current phase. The caller
// must hold mu.
func (o *Orchestrator) guard(op string, allowed ...Phase) error {
	if o.phase == PhaseCourseComplete {
		return ErrCourseComplete
	}
	for _, p := range allowed {
		if o.phase == p {
			return nil
		}
	}
	return &PhaseError{Op: op, Phase: o.phase}
}

// snapshotLocked captures what is persisted for resume. The caller must hold
// mu.
func (o *Orchestrator) snapshotLocked() *store.SessionSnapshot {
	if o.learner == nil {
		return nil
	}
	p := o.learner.Profile
	return &store.SessionSnapshot{
		LearnerID: o.learner.LearnerID,
		Name:      o.learner.Name,
		CourseID:  o.learner.CourseID,
		Profile: store.ProfileData{
			Answers:                p.Answers,
			StudiedRomanceLanguage: p.StudiedRomanceLanguage,
			StudiedLatinBefore:     p.StudiedLatinBefore,
			LearningStyle:          p.LearningStyle,
		},
		CurrentConceptID: o.conceptID,
		CurrentModuleID:  o.moduleID,
		SavedAt:          time.Now().UTC(),
	}
}

// persist saves a snapshot. Failures are logged, never surfaced.
func (o *Orchestrator) persist(ctx context.Context, snap *store.SessionSnapshot) {
	if o.sessions == nil || snap == nil {
		return
	}
	if err := o.sessions.Save(context.WithoutCancel(ctx), snap); err != nil {
		o.logger.Warn("save session snapshot", "learner", snap.LearnerID, "err", err)
	}
}

func (o *Orchestrator) recordSession(ctx context.Context, learnerID, action, conceptID string) {
	if o.events == nil {
		return
	}
	err := o.events.AppendSessionEvent(context.WithoutCancel(ctx), store.SessionEventData{
		LearnerID: learnerID,
		Action:    action,
		ConceptID: conceptID,
	})
	if err != nil {
		o.logger.Warn("record session event", "action", action, "err", err)
	}
}
