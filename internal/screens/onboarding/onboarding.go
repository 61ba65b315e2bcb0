// Package onboarding asks the new learner a few profile questions and
// registers them with the tutoring service.
package onboarding

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/router"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/components"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/layout"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

type registeredMsg struct {
	err error
}

// OnboardingScreen walks through Questions and then registers the learner.
type OnboardingScreen struct {
	orch    *orchestrator.Orchestrator
	session func() screen.Screen

	index      int
	options    components.OptionList
	answers    map[string]string
	submitting bool
	spinner    components.Spinner
	errMsg     string
}

var _ screen.Screen = (*OnboardingScreen)(nil)
var _ screen.KeyHintProvider = (*OnboardingScreen)(nil)

// New creates the onboarding screen. session builds the screen shown once
// registration succeeds.
func New(orch *orchestrator.Orchestrator, session func() screen.Screen) *OnboardingScreen {
	s := &OnboardingScreen{
		orch:    orch,
		session: session,
		answers: make(map[string]string),
	}
	s.options = components.NewOptionList(labels(Questions[0]))
	return s
}

func labels(q Question) []string {
	out := make([]string, len(q.Choices))
	for i, c := range q.Choices {
		out[i] = c.Label
	}
	return out
}

func (s *OnboardingScreen) Init() tea.Cmd { return nil }

func (s *OnboardingScreen) Title() string { return "About You" }

func (s *OnboardingScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (s *OnboardingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		s.submitting = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		return s, router.Replace(s.session())

	case components.SpinnerTickMsg:
		if !s.submitting {
			return s, nil
		}
		s.spinner = s.spinner.Advance()
		return s, s.spinner.Tick()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *OnboardingScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.submitting {
		return s, nil
	}
	if s.errMsg != "" {
		if msg.String() == "r" || msg.String() == "R" {
			s.errMsg = ""
			return s, s.register()
		}
		return s, nil
	}
	if msg.String() == "backspace" && s.index > 0 {
		s.index--
		s.options = components.NewOptionList(labels(Questions[s.index]))
		return s, nil
	}

	s.options, _ = s.options.Update(msg)
	idx, ok := s.options.Chosen()
	if !ok {
		return s, nil
	}
	q := Questions[s.index]
	s.answers[q.Key] = q.Choices[idx].Value

	if s.index < len(Questions)-1 {
		s.index++
		s.options = components.NewOptionList(labels(Questions[s.index]))
		return s, nil
	}
	return s, s.register()
}

func (s *OnboardingScreen) register() tea.Cmd {
	s.submitting = true
	orch := s.orch
	profile := BuildProfile(s.answers)
	return tea.Batch(
		s.spinner.Tick(),
		func() tea.Msg {
			return registeredMsg{err: orch.CompleteOnboarding(context.Background(), profile)}
		},
	)
}

func (s *OnboardingScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d", s.index+1, len(Questions))))
	b.WriteString("\n\n")

	q := Questions[s.index]
	b.WriteString(lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.options.View())

	switch {
	case s.submitting:
		b.WriteString("\n" + s.spinner.View("Setting up your course..."))
	case s.errMsg != "":
		b.WriteString("\n" + theme.Banner.Render("Could not register: "+s.errMsg+"\nPress R to retry."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
