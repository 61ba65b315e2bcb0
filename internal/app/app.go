package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/router"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screens/complete"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screens/onboarding"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screens/session"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screens/welcome"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Orchestrator *orchestrator.Orchestrator
	// Returning is the learner offered for resume; nil starts fresh.
	Returning *welcome.Returning
	Logger    *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	orch   *orchestrator.Orchestrator
	width  int
	height int
}

// screens holds the screen factories, which refer to each other.
type screens struct {
	welcome, fresh, onboarding, session, complete func() screen.Screen
}

func newScreens(opts Options) *screens {
	orch := opts.Orchestrator
	s := &screens{}
	s.welcome = func() screen.Screen {
		return welcome.New(orch, opts.Returning, s.onboarding, s.session)
	}
	s.fresh = func() screen.Screen {
		return welcome.New(orch, nil, s.onboarding, s.session)
	}
	s.onboarding = func() screen.Screen {
		return onboarding.New(orch, s.session)
	}
	s.session = func() screen.Screen {
		return session.New(orch, s.complete)
	}
	s.complete = func() screen.Screen {
		return complete.New(orch, s.fresh)
	}
	return s
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	s := newScreens(opts)
	return AppModel{
		router: router.New(s.welcome(), opts.Logger),
		orch:   opts.Orchestrator,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(m.router.Titles(), m.status(), m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(p.KeyHints(), footerHints...)
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// status summarizes the learner for the header.
func (m AppModel) status() layout.HeaderStatus {
	st := layout.HeaderStatus{Mastery: -1}
	if m.orch == nil {
		return st
	}
	snap := m.orch.Snapshot()
	if snap.Learner == nil {
		return st
	}
	st.Learner = snap.Learner.Name
	st.Concept = snap.ConceptID
	if snap.Features.MasteryBar && snap.ConceptID != "" {
		st.Mastery = snap.Mastery.Score
	}
	return st
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("starting tui", "returning", opts.Returning != nil)

	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		logger.Error("tui exited", "err", err)
		return err
	}
	logger.Info("tui exited")
	return nil
}
