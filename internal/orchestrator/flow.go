package orchestrator

import (
	"context"
	"errors"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/mastery"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"
)

var errEmptyContent = errors.New("service returned no content")

// startCall checks the phase and takes the single-flight slot for op.
func (o *Orchestrator) startCall(op string, allowed ...Phase) (uint64, LearnerSession, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.guard(op, allowed...); err != nil {
		return 0, LearnerSession{}, err
	}
	if o.learner == nil {
		return 0, LearnerSession{}, &PhaseError{Op: op, Phase: o.phase}
	}
	epoch, ok := o.acquire()
	if !ok {
		return 0, LearnerSession{}, ErrBusy
	}
	return epoch, *o.learner, nil
}

// CheckGate evaluates the required-materials gate of the learner's current
// module. A locked gate returns ErrGateLocked and leaves the phase at the gate
// check. An open gate moves on to the preview choice or to the first unit of
// the concept.
func (o *Orchestrator) CheckGate(ctx context.Context) error {
	epoch, learner, err := o.startCall("check gate", PhaseGateCheck)
	if err != nil {
		return err
	}
	defer o.release(epoch)
	return o.enterConcept(ctx, "check gate", epoch, learner)
}

// ChoosePreview records the learner's preview choice and requests either the
// preview or the regular start of the concept. The choice is kept for the
// rest of the session even if the request fails.
func (o *Orchestrator) ChoosePreview(ctx context.Context, show bool) error {
	epoch, learner, err := o.startCall("choose preview", PhasePreviewChoice)
	if err != nil {
		return err
	}
	defer o.release(epoch)

	o.mu.Lock()
	o.previewChosen = true
	o.mu.Unlock()

	stage := tutorapi.StageStart
	if show {
		stage = tutorapi.StagePreview
	}
	o.logger.Info("preview choice", "learner", learner.LearnerID, "show", show)
	return o.fetch(ctx, "choose preview", epoch, learner.LearnerID, stage)
}

// RequestNextContent asks the service for a unit of the given stage. While
// another content or grading call is outstanding it returns ErrBusy without
// contacting the service.
func (o *Orchestrator) RequestNextContent(ctx context.Context, stage tutorapi.Stage) error {
	epoch, learner, err := o.startCall("request content", PhaseContent)
	if err != nil {
		return err
	}
	defer o.release(epoch)
	return o.fetch(ctx, "request content", epoch, learner.LearnerID, stage)
}

// Continue advances past the current unit. An embedded successor is shown
// without contacting the service; otherwise a practice unit is requested.
// Questions must be answered instead.
func (o *Orchestrator) Continue(ctx context.Context) error {
	o.mu.Lock()
	if err := o.guard("continue", PhaseContent); err != nil {
		o.mu.Unlock()
		return err
	}
	if o.busy.Load() {
		o.mu.Unlock()
		return ErrBusy
	}
	if content.IsQuestion(o.unit) {
		o.mu.Unlock()
		return &ValidationError{Field: "answer", Message: "answer the question to continue"}
	}
	if o.unit != nil {
		if next := o.unit.Successor(); next != nil {
			o.showLocked(next)
			complete := o.phase == PhaseCourseComplete
			learnerID := o.learner.LearnerID
			o.mu.Unlock()
			if complete {
				o.recordSession(ctx, learnerID, "complete", "")
			}
			return nil
		}
	}
	o.mu.Unlock()

	return o.RequestNextContent(ctx, tutorapi.StagePractice)
}

// AcknowledgeMastery ends the celebration: progress is refreshed, the tracker
// moves to the next concept, the gate of its module is checked, and the
// concept's start unit is requested. On failure the celebration stays up.
func (o *Orchestrator) AcknowledgeMastery(ctx context.Context) error {
	epoch, learner, err := o.startCall("acknowledge mastery", PhaseMasteryCelebration)
	if err != nil {
		return err
	}
	defer o.release(epoch)

	o.mu.Lock()
	finished := o.completed
	o.mu.Unlock()
	o.recordSession(ctx, learner.LearnerID, "concept-complete", finished.ConceptID)

	return o.enterConcept(ctx, "acknowledge mastery", epoch, learner)
}

// enterConcept refreshes progress, resolves the module of the current concept
// and applies its gate and the preview policy before requesting the start
// unit. The caller holds the single-flight slot.
func (o *Orchestrator) enterConcept(ctx context.Context, op string, epoch uint64, learner LearnerSession) error {
	prog, err := o.svc.Progress(ctx, learner.LearnerID)
	if err != nil {
		return retryable(op, err)
	}
	if prog == nil {
		prog = &tutorapi.Progress{}
	}

	moduleID := o.resolveModule(ctx, learner.CourseID, prog.CurrentConcept)
	unlocked, err := o.gateFor(learner, moduleID).IsUnlocked(ctx)
	if err != nil {
		return retryable(op, err)
	}

	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		return ErrStale
	}
	changedModule := moduleID != o.moduleID
	o.progress = *prog
	o.conceptID = prog.CurrentConcept
	o.moduleID = moduleID
	o.tracker.ResetForConcept(prog.CurrentConcept)

	var next Phase
	switch {
	case !unlocked:
		next = PhaseGateCheck
	case o.features.PreviewChoice && !o.previewChosen && prog.TotalAssessments == 0:
		next = PhasePreviewChoice
	}
	if next != "" {
		o.phase = next
		o.completed = mastery.State{}
	}
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.persist(ctx, snap)
	if changedModule {
		o.logger.Info("entered module", "learner", learner.LearnerID, "module", moduleID, "concept", prog.CurrentConcept)
	}

	switch next {
	case PhaseGateCheck:
		o.logger.Info("materials gate locked", "learner", learner.LearnerID, "module", moduleID)
		return ErrGateLocked
	case PhasePreviewChoice:
		return nil
	}
	return o.fetch(ctx, op, epoch, learner.LearnerID, tutorapi.StageStart)
}

// resolveModule finds the module of a concept in the materials manifest,
// falling back to the course syllabus. Unresolved concepts map to "".
func (o *Orchestrator) resolveModule(ctx context.Context, courseID, conceptID string) string {
	if conceptID == "" {
		return ""
	}
	if o.gates != nil {
		if id := o.gates.ModuleFor(courseID, conceptID); id != "" {
			return id
		}
	}

	o.mu.Lock()
	syllabus := o.syllabus
	o.mu.Unlock()
	if syllabus == nil || syllabus.ID != courseID {
		c, err := o.svc.Course(ctx, courseID)
		if err != nil {
			o.logger.Warn("fetch course syllabus", "course", courseID, "err", err)
			return ""
		}
		o.mu.Lock()
		o.syllabus = c
		o.mu.Unlock()
		syllabus = c
	}
	return syllabus.ModuleFor(conceptID)
}

// fetch requests one unit and shows it. The caller holds the single-flight
// slot.
func (o *Orchestrator) fetch(ctx context.Context, op string, epoch uint64, learnerID string, stage tutorapi.Stage) error {
	unit, err := o.svc.GenerateContent(ctx, learnerID, stage)
	if err != nil {
		return retryable(op, err)
	}
	if unit == nil {
		return retryable(op, errEmptyContent)
	}

	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		o.logger.Debug("discarded stale content", "stage", stage)
		return ErrStale
	}
	o.showLocked(unit)
	complete := o.phase == PhaseCourseComplete
	o.mu.Unlock()

	o.logger.Debug("content received", "stage", stage, "kind", unit.Kind())
	if complete {
		o.recordSession(ctx, learnerID, "complete", "")
	}
	return nil
}

// showLocked makes u the current unit. A course-end unit ends the course.
// The caller must hold mu.
func (o *Orchestrator) showLocked(u content.Unit) {
	o.protocol.Clear()
	o.unit = u
	o.unitSeq++
	if u.Kind() == content.KindCourseEnd {
		o.phase = PhaseCourseComplete
		return
	}
	o.phase = PhaseContent
	o.completed = mastery.State{}
}
