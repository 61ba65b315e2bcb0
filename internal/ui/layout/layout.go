// Package layout draws the frame around the active screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

const crumbSep = " › "

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the learner to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The tutor needs more room.\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// HeaderStatus is the learner context shown on the right of the header.
type HeaderStatus struct {
	Learner string
	// Concept is the concept id, e.g. "first-declension".
	Concept string
	// Mastery is the concept score in [0,1]; negative hides it.
	Mastery float64
}

// ConceptLabel turns a concept id into a heading: "first-declension" becomes
// "First Declension".
func ConceptLabel(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Breadcrumb joins screen titles, dropping the oldest ones until the result
// fits in width. The newest title is always kept.
func Breadcrumb(titles []string, width int) string {
	for len(titles) > 1 && lipgloss.Width(strings.Join(titles, crumbSep)) > width {
		titles = titles[1:]
	}
	return strings.Join(titles, crumbSep)
}

// RenderHeader renders the header bar: app name, the breadcrumb of open
// screens, and the learner status.
func RenderHeader(titles []string, status HeaderStatus, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  Latin Tutor")

	var rightParts []string
	if status.Concept != "" {
		concept := lipgloss.NewStyle().Foreground(theme.Secondary).Render(ConceptLabel(status.Concept))
		if status.Mastery >= 0 {
			concept += " " + lipgloss.NewStyle().
				Foreground(theme.Accent).
				Render(fmt.Sprintf("%d%%", int(status.Mastery*100+0.5)))
		}
		rightParts = append(rightParts, concept)
	}
	if status.Learner != "" {
		rightParts = append(rightParts, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(status.Learner))
	}
	right := strings.Join(rightParts, "   ")

	// Border and padding take four columns.
	inner := max(width-4, 0)
	room := max(inner-lipgloss.Width(left)-lipgloss.Width(right)-2, 0)
	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(Breadcrumb(titles, room))

	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	return bar(width).Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter renders the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	return bar(width).Render("  " + strings.Join(parts, "   "))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderFrame stacks header, body and footer, giving the body the remaining
// height.
func RenderFrame(header, body, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return header + "\n" + lipgloss.NewStyle().Width(width).Height(h).Render(body) + "\n" + footer
}
