package content

// Kind identifies a content unit variant on the wire.
type Kind string

const (
	KindLesson           Kind = "lesson"
	KindParadigmTable    Kind = "paradigm-table"
	KindExampleSet       Kind = "example-set"
	KindMultipleChoice   Kind = "multiple-choice"
	KindFillBlank        Kind = "fill-blank"
	KindDialogue         Kind = "dialogue"
	KindAssessmentResult Kind = "assessment-result"
	KindText             Kind = "text"
	KindCourseEnd        Kind = "course-end"
)

// AllKinds returns every unit kind the client understands, in wire order.
func AllKinds() []Kind {
	return []Kind{
		KindLesson,
		KindParadigmTable,
		KindExampleSet,
		KindMultipleChoice,
		KindFillBlank,
		KindDialogue,
		KindAssessmentResult,
		KindText,
		KindCourseEnd,
	}
}

// Unit is a single deliverable piece of content. The set of implementations
// is closed: only types in this package satisfy it.
type Unit interface {
	// Kind returns the wire discriminator of the unit.
	Kind() Kind

	// Successor returns the pre-computed next unit supplied by the grading
	// service, or nil when the client must request one.
	Successor() Unit

	sealed()
}

// Question is a unit that elicits a learner response.
type Question interface {
	Unit

	// Prompt is the question text sent back with the graded response.
	Prompt() string

	// Scenario is the framing text shown above the prompt (may be empty).
	Scenario() string

	// Choices returns the selectable options; nil for free-text items.
	Choices() []string

	// WantsConfidence reports whether the unit opts in to confidence capture.
	WantsConfidence() bool
}

// Envelope carries the fields shared by every unit variant.
type Envelope struct {
	// Next is the embedded successor (wire field "nextContent").
	Next Unit `json:"-"`
}

// Successor returns the embedded successor unit.
func (e Envelope) Successor() Unit { return e.Next }

func (Envelope) sealed() {}

// Lesson is an explanatory block of instruction.
type Lesson struct {
	Envelope
	Title     string `json:"title"`
	Body      string `json:"content"`
	ConceptID string `json:"conceptId,omitempty"`
}

func (Lesson) Kind() Kind { return KindLesson }

// ParadigmTable is an inflection table (declension or conjugation).
type ParadigmTable struct {
	Envelope
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Notes   string     `json:"notes,omitempty"`
}

func (ParadigmTable) Kind() Kind { return KindParadigmTable }

// Example is one sentence of an example set.
type Example struct {
	Latin       string `json:"latin"`
	Translation string `json:"translation"`
	Note        string `json:"notes,omitempty"`
}

// ExampleSet groups worked example sentences.
type ExampleSet struct {
	Envelope
	Title    string    `json:"title"`
	Examples []Example `json:"examples"`
}

func (ExampleSet) Kind() Kind { return KindExampleSet }

// MultipleChoice is a single-answer choice question.
type MultipleChoice struct {
	Envelope
	Question       string   `json:"question"`
	ScenarioText   string   `json:"scenario,omitempty"`
	Options        []string `json:"options"`
	CorrectAnswer  int      `json:"correctAnswer"`
	ShowConfidence *bool    `json:"showConfidence,omitempty"`
}

func (MultipleChoice) Kind() Kind              { return KindMultipleChoice }
func (m MultipleChoice) Prompt() string        { return m.Question }
func (m MultipleChoice) Scenario() string      { return m.ScenarioText }
func (m MultipleChoice) Choices() []string     { return m.Options }
func (m MultipleChoice) WantsConfidence() bool { return optIn(m.ShowConfidence) }

// FillBlank is a free-text cloze item. Any string in CorrectAnswers is
// accepted by the grading service.
type FillBlank struct {
	Envelope
	Sentence       string   `json:"sentence"`
	ScenarioText   string   `json:"scenario,omitempty"`
	CorrectAnswers []string `json:"correctAnswers"`
	Hint           string   `json:"hint,omitempty"`
	ShowConfidence *bool    `json:"showConfidence,omitempty"`
}

func (FillBlank) Kind() Kind              { return KindFillBlank }
func (f FillBlank) Prompt() string        { return f.Sentence }
func (f FillBlank) Scenario() string      { return f.ScenarioText }
func (f FillBlank) Choices() []string     { return nil }
func (f FillBlank) WantsConfidence() bool { return optIn(f.ShowConfidence) }

// DialogueLine is one spoken line of a dialogue.
type DialogueLine struct {
	Speaker     string `json:"speaker"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
}

// Dialogue is a short conversation followed by a choice question about it.
type Dialogue struct {
	Envelope
	Context        string         `json:"context,omitempty"`
	Lines          []DialogueLine `json:"dialogue"`
	Question       string         `json:"question"`
	Options        []string       `json:"options"`
	CorrectAnswer  int            `json:"correctAnswer"`
	ShowConfidence *bool          `json:"showConfidence,omitempty"`
}

func (Dialogue) Kind() Kind              { return KindDialogue }
func (d Dialogue) Prompt() string        { return d.Question }
func (d Dialogue) Scenario() string      { return d.Context }
func (d Dialogue) Choices() []string     { return d.Options }
func (d Dialogue) WantsConfidence() bool { return optIn(d.ShowConfidence) }

// AssessmentResult reports how the last answer was graded. Its successor, when
// present, is the adaptively chosen next unit.
type AssessmentResult struct {
	Envelope
	Correct     bool   `json:"correct"`
	Feedback    string `json:"feedback"`
	Explanation string `json:"explanation,omitempty"`
	Calibration string `json:"calibrationFeedback,omitempty"`
}

func (AssessmentResult) Kind() Kind { return KindAssessmentResult }

// Text is a plain prose block.
type Text struct {
	Envelope
	Title string `json:"title,omitempty"`
	Body  string `json:"content"`
}

func (Text) Kind() Kind { return KindText }

// CourseEnd signals there are no further concepts.
type CourseEnd struct {
	Envelope
	Message           string `json:"message"`
	ConceptsCompleted int    `json:"conceptsCompleted,omitempty"`
}

func (CourseEnd) Kind() Kind { return KindCourseEnd }

// IsQuestion reports whether u elicits a learner response.
func IsQuestion(u Unit) bool {
	_, ok := u.(Question)
	return ok
}

func optIn(flag *bool) bool {
	return flag == nil || *flag
}

// Bool returns a pointer to b, for building units with an explicit
// showConfidence flag.
func Bool(b bool) *bool {
	return &b
}
