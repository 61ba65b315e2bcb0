package mastery

// Result is the mastery portion of a grading response.
type Result struct {
	ConceptID        string
	Score            float64
	Threshold        float64
	AssessmentsCount int
	ConceptCompleted bool
}

// Update records one application of a grading result.
type Update struct {
	Previous State
	Current  State
	// ConceptCompleted is the service's verdict; it alone triggers the
	// celebration, never the locally derived IsMastered.
	ConceptCompleted bool
}

// Changed reports whether the result moved the score or the assessment
// count, or completed the concept.
func (u Update) Changed() bool {
	return u.ConceptCompleted ||
		u.Previous.Score != u.Current.Score ||
		u.Previous.AssessmentsCount != u.Current.AssessmentsCount
}

// Tracker folds grading results into the current concept's state.
type Tracker struct {
	state          State
	minAssessments int
	threshold      float64
}

// NewTracker creates a tracker. Non-positive values select the defaults.
func NewTracker(threshold float64, minAssessments int) *Tracker {
	s := NewState("", threshold, minAssessments)
	return &Tracker{
		state:          s,
		threshold:      s.Threshold,
		minAssessments: s.MinAssessments,
	}
}

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Apply replaces the state with the service's values. Counters are never
// accumulated locally.
func (t *Tracker) Apply(r Result) Update {
	prev := t.state
	next := State{
		ConceptID:        prev.ConceptID,
		Score:            clamp01(r.Score),
		Threshold:        r.Threshold,
		AssessmentsCount: max(r.AssessmentsCount, 0),
		MinAssessments:   t.minAssessments,
	}
	if r.ConceptID != "" {
		next.ConceptID = r.ConceptID
	}
	if next.Threshold <= 0 || next.Threshold > 1 {
		next.Threshold = t.threshold
	}
	t.state = next
	return Update{Previous: prev, Current: next, ConceptCompleted: r.ConceptCompleted}
}

// ResetForConcept clears the state when the learner moves to a new concept.
// Resetting to the concept already tracked is a no-op.
func (t *Tracker) ResetForConcept(conceptID string) {
	if conceptID == t.state.ConceptID && conceptID != "" {
		return
	}
	t.state = NewState(conceptID, t.threshold, t.minAssessments)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
