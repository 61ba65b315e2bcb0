package materials

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// State is a material's position in its completion flow.
type State string

const (
	StateIncomplete State = "incomplete"
	StateViewing    State = "viewing"
	StateVerifying  State = "verification-in-progress"
	StateComplete   State = "complete"
)

var (
	// ErrWrongMethod is returned when an action does not fit the material's
	// verification method.
	ErrWrongMethod = errors.New("action does not match verification method")

	// ErrNotConfirmed is returned for an attestation that was not confirmed.
	ErrNotConfirmed = errors.New("attestation not confirmed")

	// ErrUnanswered is returned when a quiz is submitted with blank answers.
	ErrUnanswered = errors.New("every question must be answered")

	// ErrTooShort is returned for a discussion response under the minimum.
	ErrTooShort = fmt.Errorf("response must be at least %d characters", MinDiscussionLength)
)

// TransitionError reports an action attempted in the wrong state.
type TransitionError struct {
	From   State
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Action, e.From)
}

// Flow drives one material from viewing to completion.
type Flow struct {
	gate     *Gate
	material Material
	state    State

	question int
	answers  []string
	attempts int
}

// Material returns the material being completed.
func (f *Flow) Material() Material { return f.material }

// State returns the current flow state.
func (f *Flow) State() State { return f.state }

// Question returns the zero-based index of the current quiz question.
func (f *Flow) Question() int { return f.question }

// Answers returns the answers recorded in the current quiz attempt.
func (f *Flow) Answers() []string { return append([]string(nil), f.answers...) }

// Attempts returns the number of failed quiz attempts.
func (f *Flow) Attempts() int { return f.attempts }

// Acknowledge completes a material that needs no verification.
func (f *Flow) Acknowledge(ctx context.Context) error {
	if f.material.Verification.Method != MethodNone {
		return ErrWrongMethod
	}
	if f.state != StateViewing {
		return &TransitionError{From: f.state, Action: "acknowledge"}
	}
	return f.complete(ctx)
}

// BeginVerification moves from viewing into the verification step.
func (f *Flow) BeginVerification() error {
	if f.material.Verification.Method == MethodNone {
		return ErrWrongMethod
	}
	if f.state != StateViewing {
		return &TransitionError{From: f.state, Action: "begin verification"}
	}
	f.state = StateVerifying
	f.resetQuiz()
	return nil
}

// Attest completes a self-attested material when confirmed.
func (f *Flow) Attest(ctx context.Context, confirmed bool) error {
	if err := f.expect(MethodAttest, "attest"); err != nil {
		return err
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	return f.complete(ctx)
}

// Answer records the response to the current quiz question and moves to the
// next one.
func (f *Flow) Answer(response string) error {
	if err := f.expect(MethodQuiz, "answer"); err != nil {
		return err
	}
	if f.question >= len(f.answers) {
		return fmt.Errorf("no question %d", f.question+1)
	}
	f.answers[f.question] = response
	if f.question < len(f.answers)-1 {
		f.question++
	}
	return nil
}

// SubmitQuiz grades the current attempt. A failing attempt starts over at
// the first question with cleared answers.
func (f *Flow) SubmitQuiz(ctx context.Context) (QuizResult, error) {
	if err := f.expect(MethodQuiz, "submit quiz"); err != nil {
		return QuizResult{}, err
	}
	for _, a := range f.answers {
		if strings.TrimSpace(a) == "" {
			return QuizResult{}, ErrUnanswered
		}
	}

	res := ScoreQuiz(f.material.Verification.Questions, f.answers)
	if !res.Passed {
		f.attempts++
		f.resetQuiz()
		return res, nil
	}
	return res, f.complete(ctx)
}

// SubmitDiscussion completes a discussion-prompt material when the response
// is long enough.
func (f *Flow) SubmitDiscussion(ctx context.Context, response string) error {
	if err := f.expect(MethodDiscussion, "submit discussion"); err != nil {
		return err
	}
	if !DiscussionLongEnough(response) {
		return ErrTooShort
	}
	return f.complete(ctx)
}

func (f *Flow) expect(m Method, action string) error {
	if f.material.Verification.Method != m {
		return ErrWrongMethod
	}
	if f.state != StateVerifying {
		return &TransitionError{From: f.state, Action: action}
	}
	return nil
}

func (f *Flow) resetQuiz() {
	f.question = 0
	f.answers = make([]string, len(f.material.Verification.Questions))
}

func (f *Flow) complete(ctx context.Context) error {
	if err := f.gate.markComplete(ctx, f.material.ID); err != nil {
		return err
	}
	f.state = StateComplete
	return nil
}
