package materials

import "fmt"

// Type is the media type of a material.
type Type string

const (
	TypeVideo   Type = "video"
	TypePDF     Type = "pdf"
	TypeImage   Type = "image"
	TypeWebsite Type = "website"
)

// Requirement is how strongly a material is expected before a module opens.
type Requirement string

const (
	Optional    Requirement = "optional"
	Recommended Requirement = "recommended"
	Required    Requirement = "required"
)

// Method is how completion of a material is verified.
type Method string

const (
	MethodNone       Method = "none"
	MethodAttest     Method = "self-attestation"
	MethodQuiz       Method = "comprehension-quiz"
	MethodDiscussion Method = "discussion-prompt"
)

// QuestionType is the kind of a comprehension-quiz question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionShortAnswer    QuestionType = "short-answer"
)

// QuizQuestion is one comprehension-quiz question. For short answers Answer
// is a list of keywords separated by commas or semicolons.
type QuizQuestion struct {
	Question string       `yaml:"question"`
	Type     QuestionType `yaml:"type"`
	Options  []string     `yaml:"options,omitempty"`
	Answer   string       `yaml:"answer"`
}

// Verification holds the method-specific verification data.
type Verification struct {
	Method    Method         `yaml:"method"`
	Statement string         `yaml:"statement,omitempty"`
	Questions []QuizQuestion `yaml:"questions,omitempty"`
	Prompt    string         `yaml:"prompt,omitempty"`
}

// Material is a resource attached to a module.
type Material struct {
	ID           string       `yaml:"id"`
	Title        string       `yaml:"title"`
	URL          string       `yaml:"url"`
	Type         Type         `yaml:"type"`
	Requirement  Requirement  `yaml:"requirement"`
	Verification Verification `yaml:"verification"`
}

// Blocking reports whether the material must be complete for the module to
// unlock.
func (m Material) Blocking() bool { return m.Requirement == Required }

// Validate checks that the material is internally consistent.
func (m Material) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("material %q: missing id", m.Title)
	}
	switch m.Type {
	case TypeVideo, TypePDF, TypeImage, TypeWebsite:
	default:
		return fmt.Errorf("material %s: unknown type %q", m.ID, m.Type)
	}
	switch m.Requirement {
	case Optional, Recommended, Required:
	default:
		return fmt.Errorf("material %s: unknown requirement %q", m.ID, m.Requirement)
	}
	switch m.Verification.Method {
	case MethodNone, MethodAttest:
	case MethodQuiz:
		if len(m.Verification.Questions) == 0 {
			return fmt.Errorf("material %s: quiz has no questions", m.ID)
		}
		for i, q := range m.Verification.Questions {
			switch q.Type {
			case QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer:
			default:
				return fmt.Errorf("material %s: question %d has unknown type %q", m.ID, i+1, q.Type)
			}
		}
	case MethodDiscussion:
		if m.Verification.Prompt == "" {
			return fmt.Errorf("material %s: discussion prompt is empty", m.ID)
		}
	default:
		return fmt.Errorf("material %s: unknown verification method %q", m.ID, m.Verification.Method)
	}
	return nil
}
