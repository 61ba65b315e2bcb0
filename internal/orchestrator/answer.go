package orchestrator

import (
	"context"
	"errors"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/confidence"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/mastery"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/store"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"
)

// SubmitAnswer answers the current question. When the question wants a
// confidence rating the answer is held and the phase moves to confidence;
// otherwise it is graded immediately without a rating.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, resp confidence.Response) error {
	o.mu.Lock()
	if err := o.guard("submit answer", PhaseContent); err != nil {
		o.mu.Unlock()
		return err
	}
	q, ok := o.unit.(content.Question)
	if !ok {
		o.mu.Unlock()
		return &ValidationError{Field: "answer", Message: "there is no question to answer"}
	}
	if o.busy.Load() {
		o.mu.Unlock()
		return ErrBusy
	}

	out, err := o.protocol.Answer(q, resp)
	if err != nil {
		o.mu.Unlock()
		return &ValidationError{Field: "answer", Message: err.Error(), Err: err}
	}
	if out.NeedsRating {
		o.phase = PhaseConfidence
		o.mu.Unlock()
		return nil
	}
	return o.gradeUnlock(ctx, "submit answer", *out.Submission)
}

// ChooseConfidence rates the held answer and sends both in one grading call.
// The held answer is consumed even if grading fails, in which case the phase
// returns to the question.
func (o *Orchestrator) ChooseConfidence(ctx context.Context, level int) error {
	o.mu.Lock()
	if err := o.guard("rate confidence", PhaseConfidence); err != nil {
		o.mu.Unlock()
		return err
	}
	if o.busy.Load() {
		o.mu.Unlock()
		return ErrBusy
	}

	sub, err := o.protocol.Rate(level)
	if err != nil {
		o.mu.Unlock()
		var rating *confidence.RatingError
		if errors.As(err, &rating) {
			return &ValidationError{Field: "confidence", Message: err.Error(), Err: err}
		}
		return err
	}
	o.phase = PhaseContent
	return o.gradeUnlock(ctx, "rate confidence", sub)
}

// gradeUnlock takes the single-flight slot, releases mu and sends sub for
// grading. The caller must hold mu.
func (o *Orchestrator) gradeUnlock(ctx context.Context, op string, sub confidence.Submission) error {
	epoch, ok := o.acquire()
	if !ok {
		o.mu.Unlock()
		return ErrBusy
	}
	learner := *o.learner
	conceptID := o.conceptID
	o.mu.Unlock()
	defer o.release(epoch)

	req := tutorapi.GradeRequest{
		LearnerID:      learner.LearnerID,
		QuestionType:   string(sub.QuestionType),
		UserAnswer:     sub.Answer.Value(),
		CorrectAnswer:  sub.CorrectAnswer.Value(),
		Confidence:     sub.Confidence,
		CurrentConcept: conceptID,
		QuestionText:   sub.Content.Prompt(),
		ScenarioText:   sub.Content.Scenario(),
		Options:        sub.Content.Choices(),
	}
	res, err := o.svc.SubmitResponse(ctx, req)
	if err != nil {
		return retryable(op, err)
	}
	if res == nil || res.Next == nil {
		return retryable(op, tutorapi.ErrMissingNextContent)
	}

	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		o.logger.Debug("discarded stale grade", "learner", learner.LearnerID)
		return ErrStale
	}
	upd := o.tracker.Apply(res.Mastery)
	o.showLocked(res.Next)
	if upd.ConceptCompleted && o.phase != PhaseCourseComplete {
		o.phase = PhaseMasteryCelebration
		o.completed = upd.Current
	}
	complete := o.phase == PhaseCourseComplete
	o.mu.Unlock()

	o.logger.Info("response graded",
		"learner", learner.LearnerID,
		"concept", upd.Current.ConceptID,
		"score", upd.Current.Score,
		"assessments", upd.Current.AssessmentsCount,
		"completed", upd.ConceptCompleted)
	o.recordGrade(ctx, learner.LearnerID, conceptID, sub, res.Next, upd)
	if complete {
		o.recordSession(ctx, learner.LearnerID, "complete", "")
	}
	return nil
}

func (o *Orchestrator) recordGrade(ctx context.Context, learnerID, conceptID string, sub confidence.Submission, next content.Unit, upd mastery.Update) {
	if o.events == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var correct *bool
	if r, ok := next.(content.AssessmentResult); ok {
		c := r.Correct
		correct = &c
	}
	err := o.events.AppendAnswerEvent(ctx, store.AnswerEventData{
		LearnerID:    learnerID,
		ConceptID:    conceptID,
		QuestionType: string(sub.QuestionType),
		Correct:      correct,
		Confidence:   sub.Confidence,
	})
	if err != nil {
		o.logger.Warn("record answer event", "err", err)
	}

	if !upd.Changed() {
		return
	}
	err = o.events.AppendMasteryEvent(ctx, store.MasteryEventData{
		LearnerID:        learnerID,
		ConceptID:        upd.Current.ConceptID,
		FromScore:        upd.Previous.Score,
		ToScore:          upd.Current.Score,
		AssessmentsCount: upd.Current.AssessmentsCount,
		ConceptCompleted: upd.ConceptCompleted,
	})
	if err != nil {
		o.logger.Warn("record mastery event", "err", err)
	}
}
