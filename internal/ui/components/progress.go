package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

// MasteryBar displays a concept's mastery score against its threshold.
type MasteryBar struct {
	Label     string
	Value     float64
	Threshold float64
	Mastered  bool
	Width     int
}

// NewMasteryBar creates a new mastery bar.
func NewMasteryBar(label string, value, threshold float64, mastered bool, width int) MasteryBar {
	return MasteryBar{
		Label:     label,
		Value:     value,
		Threshold: threshold,
		Mastered:  mastered,
		Width:     width,
	}
}

// View renders the bar with a threshold tick and the percentage.
func (p MasteryBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 6 // "  100%"

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := min(max(int(float64(barWidth)*p.Value), 0), barWidth)
	mark := -1
	if p.Threshold > 0 && p.Threshold <= 1 {
		mark = min(int(float64(barWidth)*p.Threshold), barWidth-1)
	}

	fill := theme.ProgressFilled
	if p.Mastered {
		fill = theme.ProgressMastered
	}

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		style := theme.ProgressEmpty
		if i < filled {
			style = fill
		}
		cell := " "
		if i == mark {
			cell = "│"
			style = style.Foreground(theme.Accent)
		}
		bar.WriteString(style.Render(cell))
	}
	result += bar.String()

	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d%%", int(p.Value*100+0.5)))

	return result
}
