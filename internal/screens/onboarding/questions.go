package onboarding

import "github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"

// Question is one onboarding prompt with its answer choices.
type Question struct {
	Key     string
	Prompt  string
	Choices []Choice
}

// Choice is an answer with the value stored in the profile.
type Choice struct {
	Label string
	Value string
}

// Questions is the onboarding questionnaire in the order it is asked.
var Questions = []Question{
	{
		Key:    "romance_language",
		Prompt: "Have you studied French, Spanish, Italian, Portuguese or Romanian?",
		Choices: []Choice{
			{Label: "Yes", Value: "yes"},
			{Label: "No", Value: "no"},
		},
	},
	{
		Key:    "prior_latin",
		Prompt: "Have you studied Latin before?",
		Choices: []Choice{
			{Label: "Yes, for a while", Value: "yes"},
			{Label: "A little", Value: "some"},
			{Label: "Never", Value: "no"},
		},
	},
	{
		Key:    "learning_style",
		Prompt: "How do you learn best?",
		Choices: []Choice{
			{Label: "Tables and diagrams", Value: "visual"},
			{Label: "Reading explanations", Value: "verbal"},
			{Label: "Working through examples", Value: "practice"},
			{Label: "Talking it through", Value: "dialogue"},
		},
	},
	{
		Key:    "goal",
		Prompt: "What brings you to Latin?",
		Choices: []Choice{
			{Label: "Reading classical texts", Value: "reading"},
			{Label: "Help with other languages", Value: "languages"},
			{Label: "School or an exam", Value: "exam"},
			{Label: "Curiosity", Value: "curiosity"},
		},
	},
}

// LearningStyles lists the styles a learner can switch between.
func LearningStyles() []Choice {
	for _, q := range Questions {
		if q.Key == "learning_style" {
			return q.Choices
		}
	}
	return nil
}

// BuildProfile derives the registration profile from the answers keyed by
// question key.
func BuildProfile(answers map[string]string) tutorapi.Profile {
	copied := make(map[string]string, len(answers))
	for k, v := range answers {
		copied[k] = v
	}
	prior := answers["prior_latin"]
	return tutorapi.Profile{
		Answers:                copied,
		StudiedRomanceLanguage: answers["romance_language"] == "yes",
		StudiedLatinBefore:     prior == "yes" || prior == "some",
		LearningStyle:          answers["learning_style"],
	}
}
