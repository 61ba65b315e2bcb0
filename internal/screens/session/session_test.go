package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/logging"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/mastery"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/materials"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/router"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
	materialsscreen "github.com/jkruckivey/adaptive-latin-sub000/internal/screens/materials"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"
)

// stubScreen stands in for the course-complete screen.
type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "complete" }
func (stubScreen) Title() string                             { return "Complete" }

func runeKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// drive runs cmd and every command it leads to, feeding each message back
// into the screen. It returns the messages in the order they were delivered.
func drive(t *testing.T, s *SessionScreen, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0; i++ {
		if i > 100 {
			t.Fatal("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		out = append(out, msg)
		_, next := s.Update(msg)
		queue = append(queue, next)
	}
	return out
}

func press(t *testing.T, s *SessionScreen, msg tea.KeyPressMsg) []tea.Msg {
	t.Helper()
	_, cmd := s.Update(msg)
	return drive(t, s, cmd)
}

func newOrchestrator(t *testing.T, features orchestrator.Features, svc *tutorapi.MockService, gates *materials.Registry) *orchestrator.Orchestrator {
	t.Helper()
	orch := orchestrator.New(orchestrator.Options{
		Service:  svc,
		Gates:    gates,
		CourseID: "latin-grammar",
		Features: features,
		Logger:   logging.Discard(),
	})
	if err := orch.Begin("Julia"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := orch.CompleteOnboarding(context.Background(), tutorapi.Profile{LearningStyle: "visual"}); err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	return orch
}

func startScreen(t *testing.T, orch *orchestrator.Orchestrator) (*SessionScreen, []tea.Msg) {
	t.Helper()
	s := New(orch, func() screen.Screen { return stubScreen{} })
	msgs := drive(t, s, s.Init())
	return s, msgs
}

func confidenceOnly() orchestrator.Features {
	return orchestrator.Features{Confidence: true}
}

func question() content.MultipleChoice {
	return content.MultipleChoice{
		Question:      "Which case is puellam?",
		Options:       []string{"nominative", "accusative", "ablative"},
		CorrectAnswer: 1,
	}
}

func grade(correct bool, score float64, count int, completed bool, next content.Unit) *tutorapi.GradeResult {
	if next == nil {
		next = content.AssessmentResult{Correct: correct, Feedback: "Bene!"}
	}
	return &tutorapi.GradeResult{
		Next: next,
		Mastery: mastery.Result{
			Score:            score,
			Threshold:        0.85,
			AssessmentsCount: count,
			ConceptCompleted: completed,
		},
	}
}

func TestInitShowsFirstUnit(t *testing.T) {
	svc := &tutorapi.MockService{
		Units: []content.Unit{content.Lesson{Title: "First Declension", Body: "Puella, puellae."}},
	}
	s, _ := startScreen(t, newOrchestrator(t, confidenceOnly(), svc, nil))

	if s.phase != orchestrator.PhaseContent {
		t.Fatalf("phase = %s, want content", s.phase)
	}
	if s.Title() != "First Declension" {
		t.Errorf("Title = %q", s.Title())
	}
	if !strings.Contains(s.View(100, 30), "Puella, puellae.") {
		t.Error("expected lesson body in view")
	}
}

func TestEnterContinuesPastLesson(t *testing.T) {
	svc := &tutorapi.MockService{
		Units: []content.Unit{
			content.Lesson{Title: "Intro", Body: "..."},
			question(),
		},
	}
	s, _ := startScreen(t, newOrchestrator(t, confidenceOnly(), svc, nil))

	press(t, s, specialKey(tea.KeyEnter))

	if _, ok := s.unit.(content.MultipleChoice); !ok {
		t.Fatalf("unit = %T, want MultipleChoice", s.unit)
	}
	stages := svc.Stages()
	if len(stages) != 2 || stages[1] != tutorapi.StagePractice {
		t.Errorf("stages = %v, want [start practice]", stages)
	}
}

func TestAnswerThenConfidence(t *testing.T) {
	svc := &tutorapi.MockService{
		Units:  []content.Unit{question()},
		Grades: []*tutorapi.GradeResult{grade(true, 0.4, 1, false, nil)},
	}
	s, _ := startScreen(t, newOrchestrator(t, confidenceOnly(), svc, nil))

	press(t, s, runeKey('2'))
	if s.phase != orchestrator.PhaseConfidence {
		t.Fatalf("phase = %s, want confidence", s.phase)
	}
	if svc.CallCount("SubmitResponse") != 0 {
		t.Fatal("answer should be held until confidence is rated")
	}
	if !strings.Contains(s.View(100, 30), "Confident") {
		t.Error("expected scale labels in view")
	}

	press(t, s, runeKey('4'))

	req := svc.LastGrade()
	if req == nil {
		t.Fatal("expected a grading request")
	}
	if req.UserAnswer != 1 {
		t.Errorf("UserAnswer = %v, want 1", req.UserAnswer)
	}
	if req.Confidence == nil || *req.Confidence != 4 {
		t.Errorf("Confidence = %v, want 4", req.Confidence)
	}
	if _, ok := s.unit.(content.AssessmentResult); !ok {
		t.Fatalf("unit = %T, want AssessmentResult", s.unit)
	}
	if !strings.Contains(s.View(100, 30), "Recte") {
		t.Error("expected correct feedback in view")
	}
}

func TestFillBlankSubmitsTypedAnswer(t *testing.T) {
	svc := &tutorapi.MockService{
		Units: []content.Unit{content.FillBlank{
			Sentence:       "Puell__ cantat.",
			CorrectAnswers: []string{"a"},
			ShowConfidence: content.Bool(false),
		}},
		Grades: []*tutorapi.GradeResult{grade(true, 0.3, 1, false, nil)},
	}
	s, _ := startScreen(t, newOrchestrator(t, confidenceOnly(), svc, nil))

	press(t, s, specialKey(tea.KeyEnter))
	if s.notice == "" {
		t.Error("expected a notice for an empty answer")
	}
	if svc.CallCount("SubmitResponse") != 0 {
		t.Fatal("empty answer should not be graded")
	}

	press(t, s, runeKey('a'))
	press(t, s, specialKey(tea.KeyEnter))

	req := svc.LastGrade()
	if req == nil {
		t.Fatal("expected a grading request")
	}
	if req.UserAnswer != "a" {
		t.Errorf("UserAnswer = %v, want a", req.UserAnswer)
	}
	if req.Confidence != nil {
		t.Errorf("Confidence = %v, want nil for opted-out unit", *req.Confidence)
	}
}

func TestRetryAfterFailure(t *testing.T) {
	svc := &tutorapi.MockService{
		Units: []content.Unit{content.Lesson{Title: "Intro", Body: "..."}},
	}
	orch := newOrchestrator(t, confidenceOnly(), svc, nil)
	svc.Errs = []error{&tutorapi.TransportError{Op: "progress", Err: errors.New("connection refused")}}
	s, _ := startScreen(t, orch)

	if s.errMsg == "" || s.retry == nil {
		t.Fatalf("expected a retryable error, got errMsg=%q", s.errMsg)
	}
	if !strings.Contains(s.View(100, 30), "Press R to retry") {
		t.Error("expected retry prompt in view")
	}

	press(t, s, runeKey('r'))

	if s.errMsg != "" {
		t.Errorf("errMsg = %q after retry", s.errMsg)
	}
	if s.phase != orchestrator.PhaseContent {
		t.Errorf("phase = %s, want content", s.phase)
	}
}

func TestLockedGateOpensMaterials(t *testing.T) {
	manifest := &materials.Manifest{Courses: []materials.Course{{
		ID: "latin-grammar",
		Modules: []materials.Module{{
			ID:       "module-1",
			Concepts: []string{"first-declension"},
			Materials: []materials.Material{{
				ID: "intro", Title: "Intro", URL: "https://example.org/v", Type: materials.TypeVideo,
				Requirement: materials.Required, Verification: materials.Verification{Method: materials.MethodNone},
			}},
		}},
	}}}
	reg := materials.NewRegistry(manifest, materials.NewMemoryRepository(), logging.Discard())
	svc := &tutorapi.MockService{
		Units: []content.Unit{content.Lesson{Title: "Intro", Body: "..."}},
		Prog:  &tutorapi.Progress{CurrentConcept: "first-declension"},
	}
	orch := newOrchestrator(t, confidenceOnly(), svc, reg)
	s, msgs := startScreen(t, orch)

	var pushed bool
	for _, m := range msgs {
		if p, ok := m.(router.PushScreenMsg); ok {
			_, pushed = p.Screen.(*materialsscreen.MaterialsScreen)
		}
	}
	if !pushed {
		t.Fatal("expected the materials screen to be pushed")
	}
	if s.phase != orchestrator.PhaseGateCheck {
		t.Fatalf("phase = %s, want gate-check", s.phase)
	}

	flow, err := orch.CurrentGate().Open(context.Background(), "intro")
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.Acknowledge(context.Background()); err != nil {
		t.Fatal(err)
	}

	drive(t, s, s.Resume())

	if s.phase != orchestrator.PhaseContent {
		t.Errorf("phase = %s, want content once materials are complete", s.phase)
	}
}

func TestPreviewChoice(t *testing.T) {
	svc := &tutorapi.MockService{
		Units: []content.Unit{content.Text{Title: "Preview", Body: "Cases ahead."}},
	}
	features := confidenceOnly()
	features.PreviewChoice = true
	s, _ := startScreen(t, newOrchestrator(t, features, svc, nil))

	if s.phase != orchestrator.PhasePreviewChoice {
		t.Fatalf("phase = %s, want preview-choice", s.phase)
	}
	press(t, s, runeKey('1'))

	stages := svc.Stages()
	if len(stages) != 1 || stages[0] != tutorapi.StagePreview {
		t.Errorf("stages = %v, want [preview]", stages)
	}
	if s.phase != orchestrator.PhaseContent {
		t.Errorf("phase = %s, want content", s.phase)
	}
}

func TestMasteryCelebrationAndBar(t *testing.T) {
	mc := question()
	mc.ShowConfidence = content.Bool(false)
	svc := &tutorapi.MockService{
		Units:  []content.Unit{mc, content.Lesson{Title: "Second Declension", Body: "Servus, servi."}},
		Grades: []*tutorapi.GradeResult{grade(true, 0.9, 3, true, nil)},
		Prog:   &tutorapi.Progress{CurrentConcept: "first-declension", TotalAssessments: 2},
	}
	features := orchestrator.Features{MasteryBar: true}
	s, _ := startScreen(t, newOrchestrator(t, features, svc, nil))

	press(t, s, runeKey('2'))

	if s.phase != orchestrator.PhaseMasteryCelebration {
		t.Fatalf("phase = %s, want mastery-celebration", s.phase)
	}
	if got := s.bar.Value(); got != 0.9 {
		t.Errorf("bar value = %v, want 0.9 after animation", got)
	}
	if !strings.Contains(s.View(100, 30), "Optime") {
		t.Error("expected celebration in view")
	}

	press(t, s, specialKey(tea.KeyEnter))

	if s.phase != orchestrator.PhaseContent {
		t.Fatalf("phase = %s, want content", s.phase)
	}
	if s.Title() != "Second Declension" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestCourseEndReplacesScreen(t *testing.T) {
	svc := &tutorapi.MockService{
		Units: []content.Unit{content.CourseEnd{Message: "Finis!"}},
	}
	_, msgs := startScreen(t, newOrchestrator(t, confidenceOnly(), svc, nil))

	var replaced bool
	for _, m := range msgs {
		if r, ok := m.(router.ReplaceScreenMsg); ok {
			_, replaced = r.Screen.(stubScreen)
		}
	}
	if !replaced {
		t.Error("expected the complete screen to replace the session")
	}
}

func TestQuitConfirm(t *testing.T) {
	svc := &tutorapi.MockService{Units: []content.Unit{content.Lesson{Title: "Intro", Body: "..."}}}
	s, _ := startScreen(t, newOrchestrator(t, confidenceOnly(), svc, nil))

	s.Update(specialKey(tea.KeyEscape))
	if !s.showingQuitConfirm {
		t.Fatal("expected quit confirmation")
	}
	s.Update(runeKey('n'))
	if s.showingQuitConfirm {
		t.Error("N should dismiss the confirmation")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(runeKey('y'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestLearningStylePicker(t *testing.T) {
	svc := &tutorapi.MockService{Units: []content.Unit{content.Lesson{Title: "Intro", Body: "..."}}}
	orch := newOrchestrator(t, confidenceOnly(), svc, nil)
	s, _ := startScreen(t, orch)

	press(t, s, tea.KeyPressMsg{Code: 'l', Mod: tea.ModCtrl})
	if !s.pickingStyle {
		t.Fatal("expected the style picker")
	}
	press(t, s, runeKey('3'))

	if s.pickingStyle {
		t.Error("picker should close after choosing")
	}
	if svc.CallCount("UpdateLearningStyle") != 1 {
		t.Errorf("UpdateLearningStyle calls = %d, want 1", svc.CallCount("UpdateLearningStyle"))
	}
	if got := orch.Snapshot().Learner.Profile.LearningStyle; got != "practice" {
		t.Errorf("learning style = %q, want practice", got)
	}
}
