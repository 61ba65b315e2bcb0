// Package welcome greets the learner, offers to resume the last session and
// collects the name of a new learner.
package welcome

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/router"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/components"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/layout"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 400 * time.Millisecond
	totalDur     = 1200 * time.Millisecond
)

const columnArt = `  ═══════════
   ║ ║ ║ ║ ║
   ║ ║ ║ ║ ║
   ║ ║ ║ ║ ║
  ═══════════`

type tickMsg time.Time

type resumedMsg struct {
	ok  bool
	err error
}

type stage int

const (
	stageSplash stage = iota
	stageMenu
	stageName
)

// Returning identifies the learner who used the tutor last.
type Returning struct {
	LearnerID string
	Name      string
}

// WelcomeScreen shows a short splash, then either offers to resume the last
// learner or asks for a new learner's name.
type WelcomeScreen struct {
	orch       *orchestrator.Orchestrator
	returning  *Returning
	onboarding func() screen.Screen
	session    func() screen.Screen

	stage    stage
	elapsed  time.Duration
	menu     components.Menu
	input    components.TextInput
	errMsg   string
	resuming bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. onboarding and session build the screens the
// learner moves on to; returning may be nil.
func New(orch *orchestrator.Orchestrator, returning *Returning, onboarding, session func() screen.Screen) *WelcomeScreen {
	w := &WelcomeScreen{
		orch:       orch,
		returning:  returning,
		onboarding: onboarding,
		session:    session,
		input:      components.NewTextInput("Your name", 40),
	}
	if returning != nil {
		w.menu = components.NewMenu([]components.MenuItem{
			{Label: "Continue as " + returning.Name, Action: w.resume},
			{Label: "New learner", Action: func() tea.Cmd {
				w.stage = stageName
				return w.input.Init()
			}},
		})
	}
	return w
}

func (w *WelcomeScreen) Title() string {
	if w.stage == stageSplash {
		return ""
	}
	return "Salve!"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	switch w.stage {
	case stageMenu:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case stageName:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Begin"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.stage != stageSplash {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= totalDur {
			return w, w.leaveSplash()
		}
		return w, tick()

	case resumedMsg:
		w.resuming = false
		switch {
		case msg.err != nil:
			w.errMsg = msg.err.Error()
		case msg.ok:
			return w, w.replace(w.session)
		default:
			w.errMsg = "No saved session was found. Let's start fresh."
			w.stage = stageName
			return w, w.input.Init()
		}
		return w, nil

	case tea.KeyPressMsg:
		return w.handleKey(msg)
	}

	if w.stage == stageName {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *WelcomeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch w.stage {
	case stageSplash:
		return w, w.leaveSplash()

	case stageMenu:
		if w.resuming {
			return w, nil
		}
		var cmd tea.Cmd
		w.menu, cmd = w.menu.Update(msg)
		return w, cmd

	case stageName:
		if msg.String() == "enter" {
			return w, w.begin()
		}
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *WelcomeScreen) leaveSplash() tea.Cmd {
	if w.stage != stageSplash {
		return nil
	}
	w.elapsed = totalDur
	if w.returning != nil {
		w.stage = stageMenu
		return nil
	}
	w.stage = stageName
	return w.input.Init()
}

func (w *WelcomeScreen) begin() tea.Cmd {
	err := w.orch.Begin(w.input.Value())
	var verr *orchestrator.ValidationError
	if errors.As(err, &verr) {
		w.errMsg = verr.Message
		return nil
	}
	if err != nil {
		w.errMsg = err.Error()
		return nil
	}
	w.errMsg = ""
	return w.replace(w.onboarding)
}

func (w *WelcomeScreen) resume() tea.Cmd {
	if w.returning == nil {
		return nil
	}
	w.resuming = true
	id := w.returning.LearnerID
	orch := w.orch
	return func() tea.Msg {
		ok, err := orch.Resume(context.Background(), id)
		return resumedMsg{ok: ok, err: err}
	}
}

func (w *WelcomeScreen) replace(factory func() screen.Screen) tea.Cmd {
	return router.Replace(factory())
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(columnArt))

	if w.elapsed >= phase1End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Discite linguam Latinam."))
	}

	switch w.stage {
	case stageSplash:
		if w.elapsed >= phase1End {
			sections = append(sections, "", theme.Hint.Render("press any key to continue"))
		}
	case stageMenu:
		sections = append(sections, "", w.menu.View())
		if w.resuming {
			sections = append(sections, theme.Hint.Render("Restoring your session..."))
		}
	case stageName:
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.Text).Render("What should we call you?"),
			"",
			w.input.View())
	}

	if w.errMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Error).Render(w.errMsg))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
