package mastery

import "fmt"

// Defaults applied when the service or configuration does not say otherwise.
const (
	DefaultThreshold      = 0.85
	DefaultMinAssessments = 3
)

// Status is a concept's position in the mastery lifecycle.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusMastered Status = "mastered"
)

// State is the learner's standing on the current concept.
type State struct {
	ConceptID        string
	Score            float64
	Threshold        float64
	AssessmentsCount int
	MinAssessments   int
}

// NewState returns an empty state for a concept.
func NewState(conceptID string, threshold float64, minAssessments int) State {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	if minAssessments <= 0 {
		minAssessments = DefaultMinAssessments
	}
	return State{
		ConceptID:      conceptID,
		Threshold:      threshold,
		MinAssessments: minAssessments,
	}
}

// IsMastered reports whether the score is over the threshold with enough
// assessments behind it.
func (s State) IsMastered() bool {
	return s.Score >= s.Threshold && s.AssessmentsCount >= s.MinAssessments
}

// NeedsMoreAssessments reports whether the minimum sample is not reached yet,
// regardless of score.
func (s State) NeedsMoreAssessments() bool {
	return s.AssessmentsCount < s.MinAssessments
}

// Status derives the lifecycle position from the counters.
func (s State) Status() Status {
	switch {
	case s.AssessmentsCount == 0:
		return StatusNew
	case s.IsMastered():
		return StatusMastered
	default:
		return StatusLearning
	}
}

// Percent returns the score as a whole percentage.
func (s State) Percent() int {
	return int(s.Score*100 + 0.5)
}

// Hint returns the line shown under the mastery bar.
func (s State) Hint() string {
	switch {
	case s.NeedsMoreAssessments():
		remaining := s.MinAssessments - s.AssessmentsCount
		if remaining == 1 {
			return "1 more question before mastery can be confirmed"
		}
		return fmt.Sprintf("%d more questions before mastery can be confirmed", remaining)
	case s.IsMastered():
		return "Concept mastered"
	default:
		return fmt.Sprintf("%d%% of %d%% needed", s.Percent(), int(s.Threshold*100+0.5))
	}
}
