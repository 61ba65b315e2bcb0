// Package confidence implements the two-phase answer then confidence-rating
// protocol used before a response is sent for grading.
package confidence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
)

// Scale is the number of discrete confidence levels offered.
type Scale int

const (
	Scale4 Scale = 4
	Scale5 Scale = 5

	DefaultScale = Scale5
)

// Valid reports whether s is a supported scale.
func (s Scale) Valid() bool { return s == Scale4 || s == Scale5 }

// Label returns the display label for a level on the scale.
func (s Scale) Label(level int) string {
	labels := map[Scale][]string{
		Scale4: {"Guessing", "Unsure", "Fairly sure", "Certain"},
		Scale5: {"Guessing", "Unsure", "Somewhat sure", "Confident", "Certain"},
	}[s]
	if level < 1 || level > len(labels) {
		return ""
	}
	return labels[level-1]
}

var (
	// ErrPending is returned when an answer arrives while another is
	// still waiting for its rating.
	ErrPending = errors.New("a response is already awaiting confidence")

	// ErrNothingPending is returned when a rating arrives with no answer held.
	ErrNothingPending = errors.New("no response is awaiting confidence")

	// ErrEmptyAnswer is returned for a blank free-text answer.
	ErrEmptyAnswer = errors.New("answer is empty")
)

// RatingError reports a confidence level outside the scale.
type RatingError struct {
	Level int
	Scale Scale
}

func (e *RatingError) Error() string {
	return fmt.Sprintf("confidence %d out of range 1..%d", e.Level, e.Scale)
}

// Response is the learner's raw answer to a question unit.
type Response struct {
	// Choice is the selected option index for choice questions.
	Choice int
	// Blanks holds the typed answers for fill-in items; the first is graded.
	Blanks []string
}

// Answer is the normalized answer value: an option index or the blank text.
type Answer struct {
	Index  int
	Text   string
	IsText bool
}

// Value returns the answer in its wire form.
func (a Answer) Value() any {
	if a.IsText {
		return a.Text
	}
	return a.Index
}

// Correct is the correctness target: an option index or the full set of
// acceptable strings.
type Correct struct {
	Index      int
	Acceptable []string
	IsSet      bool
}

// Value returns the target in its wire form.
func (c Correct) Value() any {
	if c.IsSet {
		return c.Acceptable
	}
	return c.Index
}

// Pending is a normalized response waiting for its confidence rating.
type Pending struct {
	QuestionType  content.Kind
	Answer        Answer
	CorrectAnswer Correct
	Content       content.Question
}

// Submission is the combined payload sent in one grading call.
type Submission struct {
	QuestionType  content.Kind
	Answer        Answer
	CorrectAnswer Correct
	Content       content.Question
	// Confidence is nil when capture is disabled or the unit opted out.
	Confidence *int
}

// Outcome is what the protocol decided for an answer.
type Outcome struct {
	// NeedsRating is true when the caller must prompt for confidence.
	NeedsRating bool
	// Submission is set when the answer can be graded immediately.
	Submission *Submission
}

// Normalize extracts the answer and correctness target for a question unit.
func Normalize(q content.Question, r Response) (Pending, error) {
	p := Pending{QuestionType: q.Kind(), Content: q}
	switch u := q.(type) {
	case content.MultipleChoice:
		if err := checkChoice(r.Choice, len(u.Options)); err != nil {
			return Pending{}, err
		}
		p.Answer = Answer{Index: r.Choice}
		p.CorrectAnswer = Correct{Index: u.CorrectAnswer}
	case content.Dialogue:
		if err := checkChoice(r.Choice, len(u.Options)); err != nil {
			return Pending{}, err
		}
		p.Answer = Answer{Index: r.Choice}
		p.CorrectAnswer = Correct{Index: u.CorrectAnswer}
	case content.FillBlank:
		if len(r.Blanks) == 0 || strings.TrimSpace(r.Blanks[0]) == "" {
			return Pending{}, ErrEmptyAnswer
		}
		p.Answer = Answer{Text: strings.TrimSpace(r.Blanks[0]), IsText: true}
		p.CorrectAnswer = Correct{Acceptable: append([]string(nil), u.CorrectAnswers...), IsSet: true}
	default:
		return Pending{}, fmt.Errorf("unsupported question kind %q", q.Kind())
	}
	return p, nil
}

func checkChoice(idx, n int) error {
	if idx < 0 || idx >= n {
		return fmt.Errorf("choice %d out of range for %d options", idx, n)
	}
	return nil
}

// Protocol holds at most one pending response. It is not safe for
// concurrent use; the orchestrator serializes access.
type Protocol struct {
	enabled bool
	scale   Scale
	pending *Pending
}

// New creates a protocol. An invalid scale falls back to DefaultScale.
func New(enabled bool, scale Scale) *Protocol {
	if !scale.Valid() {
		scale = DefaultScale
	}
	return &Protocol{enabled: enabled, scale: scale}
}

// Scale returns the configured rating scale.
func (p *Protocol) Scale() Scale { return p.scale }

// Pending returns the held response, if any.
func (p *Protocol) Pending() (Pending, bool) {
	if p.pending == nil {
		return Pending{}, false
	}
	return *p.pending, true
}

// Answer records the learner's answer. When the unit opts in to confidence
// capture the answer is held and the outcome asks for a rating; otherwise a
// submission with a nil confidence is returned immediately.
func (p *Protocol) Answer(q content.Question, r Response) (Outcome, error) {
	if p.pending != nil {
		return Outcome{}, ErrPending
	}
	norm, err := Normalize(q, r)
	if err != nil {
		return Outcome{}, err
	}

	if p.enabled && q.WantsConfidence() {
		p.pending = &norm
		return Outcome{NeedsRating: true}, nil
	}
	return Outcome{Submission: &Submission{
		QuestionType:  norm.QuestionType,
		Answer:        norm.Answer,
		CorrectAnswer: norm.CorrectAnswer,
		Content:       norm.Content,
	}}, nil
}

// Rate combines the held response with the chosen level. The pending
// response is cleared whether or not the caller's grading call succeeds.
func (p *Protocol) Rate(level int) (Submission, error) {
	if p.pending == nil {
		return Submission{}, ErrNothingPending
	}
	if level < 1 || level > int(p.scale) {
		return Submission{}, &RatingError{Level: level, Scale: p.scale}
	}

	held := *p.pending
	p.pending = nil
	return Submission{
		QuestionType:  held.QuestionType,
		Answer:        held.Answer,
		CorrectAnswer: held.CorrectAnswer,
		Content:       held.Content,
		Confidence:    &level,
	}, nil
}

// Clear drops any held response.
func (p *Protocol) Clear() { p.pending = nil }
