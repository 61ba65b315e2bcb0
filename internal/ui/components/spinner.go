package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 100 * time.Millisecond

// SpinnerTickMsg advances a Spinner by one frame.
type SpinnerTickMsg struct{}

// Spinner is a small busy indicator.
type Spinner struct {
	frame int
}

// Tick schedules the next frame.
func (s Spinner) Tick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg { return SpinnerTickMsg{} })
}

// Advance moves to the next frame.
func (s Spinner) Advance() Spinner {
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return s
}

// View renders the spinner with a label.
func (s Spinner) View(label string) string {
	return lipgloss.NewStyle().Foreground(theme.Primary).Render(spinnerFrames[s.frame]) +
		" " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
}
