package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/router"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestWelcome(returning *Returning) (*WelcomeScreen, *orchestrator.Orchestrator, *int) {
	orch := orchestrator.New(orchestrator.Options{Service: &tutorapi.MockService{}})
	calls := 0
	onboarding := func() screen.Screen {
		calls++
		return &stubScreen{title: "onboarding"}
	}
	session := func() screen.Screen { return &stubScreen{title: "session"} }
	return New(orch, returning, onboarding, session), orch, &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func typeText(w *WelcomeScreen, s string) {
	for _, r := range s {
		w.Update(keyPress(r))
	}
}

func TestSplashEndsAfterAnimation(t *testing.T) {
	w, _, _ := newTestWelcome(nil)

	if strings.Contains(w.View(100, 30), "Discite") {
		t.Error("tagline should not be visible at start")
	}
	sendTicks(w, int(totalDur/tickInterval))
	if w.stage != stageName {
		t.Errorf("stage = %d, want name entry", w.stage)
	}
	if !strings.Contains(w.View(100, 30), "Discite") {
		t.Error("tagline should be visible after the splash")
	}
}

func TestKeypressSkipsSplash(t *testing.T) {
	w, _, _ := newTestWelcome(nil)
	sendTicks(w, 1)

	w.Update(keyPress(' '))
	if w.stage != stageName {
		t.Errorf("stage = %d, want name entry", w.stage)
	}
}

func TestReturningLearnerSeesMenu(t *testing.T) {
	w, _, _ := newTestWelcome(&Returning{LearnerID: "l-1", Name: "Julia"})
	w.Update(keyPress(' '))

	if w.stage != stageMenu {
		t.Fatalf("stage = %d, want menu", w.stage)
	}
	if !strings.Contains(w.View(100, 30), "Continue as Julia") {
		t.Error("menu should offer to continue as the last learner")
	}

	w.Update(specialKey(tea.KeyDown))
	w.Update(specialKey(tea.KeyEnter))
	if w.stage != stageName {
		t.Errorf("stage = %d, want name entry after choosing new learner", w.stage)
	}
}

func TestEmptyNameIsRejected(t *testing.T) {
	w, orch, calls := newTestWelcome(nil)
	w.Update(keyPress(' '))

	_, cmd := w.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("blank name should not navigate")
	}
	if w.errMsg == "" {
		t.Error("expected a validation message")
	}
	if *calls != 0 {
		t.Errorf("onboarding factory called %d times, want 0", *calls)
	}
	if orch.Snapshot().Phase != orchestrator.PhaseWelcome {
		t.Errorf("phase = %s, want welcome", orch.Snapshot().Phase)
	}
}

func TestNameEntryMovesToOnboarding(t *testing.T) {
	w, orch, calls := newTestWelcome(nil)
	w.Update(keyPress(' '))
	typeText(w, "Marcus")

	_, cmd := w.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "onboarding" {
		t.Errorf("next screen = %q, want onboarding", msg.Screen.Title())
	}
	if *calls != 1 {
		t.Errorf("onboarding factory called %d times, want 1", *calls)
	}
	if orch.Snapshot().Phase != orchestrator.PhaseOnboarding {
		t.Errorf("phase = %s, want onboarding", orch.Snapshot().Phase)
	}
}

func TestResumeWithoutSnapshotFallsBackToName(t *testing.T) {
	w, _, _ := newTestWelcome(&Returning{LearnerID: "l-1", Name: "Julia"})
	w.Update(keyPress(' '))

	w.Update(resumedMsg{ok: false})
	if w.stage != stageName {
		t.Errorf("stage = %d, want name entry", w.stage)
	}

	w2, _, _ := newTestWelcome(&Returning{LearnerID: "l-1", Name: "Julia"})
	w2.Update(keyPress(' '))
	_, cmd := w2.Update(resumedMsg{ok: true})
	if cmd == nil {
		t.Fatal("expected navigation to the session")
	}
	if msg, ok := cmd().(router.ReplaceScreenMsg); !ok || msg.Screen.Title() != "session" {
		t.Errorf("expected replace with session screen, got %#v", cmd())
	}
}
