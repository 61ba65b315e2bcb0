package complete

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/logging"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/router"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"
)

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "" }
func (stubScreen) Title() string                             { return "Welcome" }

func finishedOrchestrator(t *testing.T) *orchestrator.Orchestrator {
	t.Helper()
	svc := &tutorapi.MockService{
		Units: []content.Unit{content.CourseEnd{Message: "Gratulationes!", ConceptsCompleted: 7}},
		Prog: &tutorapi.Progress{
			CurrentConcept:    "",
			CompletedConcepts: []string{"first-declension", "second-declension"},
			ConceptsCompleted: 2,
		},
	}
	orch := orchestrator.New(orchestrator.Options{
		Service:  svc,
		CourseID: "latin-grammar",
		Logger:   logging.Discard(),
	})
	ctx := context.Background()
	if err := orch.Begin("Julia"); err != nil {
		t.Fatal(err)
	}
	if err := orch.CompleteOnboarding(ctx, tutorapi.Profile{}); err != nil {
		t.Fatal(err)
	}
	if err := orch.CheckGate(ctx); err != nil {
		t.Fatal(err)
	}
	if got := orch.Snapshot().Phase; got != orchestrator.PhaseCourseComplete {
		t.Fatalf("phase = %s, want course-complete", got)
	}
	return orch
}

func TestCompleteScreen_Display(t *testing.T) {
	s := New(finishedOrchestrator(t), nil)

	if s.Title() != "Course Complete" {
		t.Errorf("Title = %q", s.Title())
	}
	view := s.View(80, 30)
	for _, want := range []string{"Gratulationes!", "Concepts mastered: 7", "First Declension"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCompleteScreen_EnterQuits(t *testing.T) {
	s := New(finishedOrchestrator(t), nil)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestCompleteScreen_NewLearnerResets(t *testing.T) {
	orch := finishedOrchestrator(t)
	s := New(orch, func() screen.Screen { return stubScreen{} })

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.RootScreenMsg)
	if !ok {
		t.Fatal("expected RootScreenMsg")
	}
	if _, ok := msg.Screen.(stubScreen); !ok {
		t.Errorf("root screen = %T", msg.Screen)
	}
	v := orch.Snapshot()
	if v.Phase != orchestrator.PhaseWelcome || v.Learner != nil {
		t.Errorf("phase = %s learner = %v, want a reset session", v.Phase, v.Learner)
	}
}
