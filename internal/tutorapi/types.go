package tutorapi

import (
	"encoding/json"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/mastery"
)

// Stage selects what kind of content the service should produce next.
type Stage string

const (
	StageStart    Stage = "start"
	StagePreview  Stage = "preview"
	StagePractice Stage = "practice"
	StageAssess   Stage = "assess"
)

// Profile is the onboarding profile sent when a learner registers.
type Profile struct {
	Answers                map[string]string `json:"answers,omitempty"`
	StudiedRomanceLanguage bool              `json:"studied_romance_language"`
	StudiedLatinBefore     bool              `json:"studied_latin_before"`
	LearningStyle          string            `json:"learning_style,omitempty"`
}

// Registration identifies a new learner to the service.
type Registration struct {
	LearnerID   string  `json:"learner_id"`
	LearnerName string  `json:"learner_name"`
	Profile     Profile `json:"profile"`
	CourseID    string  `json:"course_id,omitempty"`
}

// GradeRequest is one answer sent for grading.
type GradeRequest struct {
	LearnerID      string   `json:"learner_id"`
	QuestionType   string   `json:"question_type"`
	UserAnswer     any      `json:"user_answer"`
	CorrectAnswer  any      `json:"correct_answer"`
	Confidence     *int     `json:"confidence"`
	CurrentConcept string   `json:"current_concept"`
	QuestionText   string   `json:"question_text"`
	ScenarioText   string   `json:"scenario_text"`
	Options        []string `json:"options"`
}

// GradeResult is the service's verdict on an answer.
type GradeResult struct {
	Next         content.Unit
	DebugContext json.RawMessage
	Mastery      mastery.Result
}

// Progress summarizes a learner's standing in the course.
type Progress struct {
	CurrentConcept    string   `json:"current_concept"`
	CompletedConcepts []string `json:"completed_concepts"`
	ConceptsCompleted int      `json:"concepts_completed"`
	TotalAssessments  int      `json:"total_assessments"`
}

// Concept is one teachable concept of a module.
type Concept struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Module groups concepts.
type Module struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Concepts []Concept `json:"concepts"`
}

// Course is the read-only syllabus of a course.
type Course struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Modules []Module `json:"modules"`
}

// ModuleFor returns the id of the module containing a concept, or "".
func (c *Course) ModuleFor(conceptID string) string {
	for _, m := range c.Modules {
		for _, concept := range m.Concepts {
			if concept.ID == conceptID {
				return m.ID
			}
		}
	}
	return ""
}

// ConceptCount returns the number of concepts across all modules.
func (c *Course) ConceptCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Concepts)
	}
	return n
}
