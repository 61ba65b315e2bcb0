// Package complete shows the end of the course.
package complete

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/router"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/layout"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

const defaultMessage = "You have completed every concept in the course."

// CompleteScreen congratulates the learner once the course has ended.
type CompleteScreen struct {
	orch    *orchestrator.Orchestrator
	restart func() screen.Screen

	message  string
	progress int
	concepts []string
}

var _ screen.Screen = (*CompleteScreen)(nil)
var _ screen.KeyHintProvider = (*CompleteScreen)(nil)

// New creates the screen from the orchestrator's final state. restart builds
// the screen a new learner starts from.
func New(orch *orchestrator.Orchestrator, restart func() screen.Screen) *CompleteScreen {
	v := orch.Snapshot()
	s := &CompleteScreen{
		orch:     orch,
		restart:  restart,
		message:  defaultMessage,
		progress: v.Progress.ConceptsCompleted,
		concepts: v.Progress.CompletedConcepts,
	}
	if end, ok := v.Unit.(content.CourseEnd); ok {
		if end.Message != "" {
			s.message = end.Message
		}
		if end.ConceptsCompleted > 0 {
			s.progress = end.ConceptsCompleted
		}
	}
	if s.progress < len(s.concepts) {
		s.progress = len(s.concepts)
	}
	return s
}

func (s *CompleteScreen) Init() tea.Cmd {
	return nil
}

func (s *CompleteScreen) Title() string {
	return "Course Complete"
}

func (s *CompleteScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Quit"},
		{Key: "N", Description: "New learner"},
	}
}

func (s *CompleteScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "q", "esc":
			return s, tea.Quit
		case "n", "N":
			if s.restart == nil {
				return s, nil
			}
			s.orch.Reset()
			return s, router.Root(s.restart())
		}
	}
	return s, nil
}

func (s *CompleteScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Bold(true).
		Render("Finis coronat opus"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(s.message))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Concepts mastered: %d", s.progress)))
	b.WriteString("\n\n")

	if len(s.concepts) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 40)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")
		for _, c := range s.concepts {
			line := theme.Correct.Render("✓ ") + theme.Body.Render(layout.ConceptLabel(c))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press Enter to quit or N to start as a new learner"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
