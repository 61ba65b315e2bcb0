// Package theme holds the tutor's palette and shared styles.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette: imperial purple and gold on a dark slate ground.
var (
	Primary   = lipgloss.Color("#7C3AED") // Tyrian purple
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#EAB308") // Gold
	Success   = lipgloss.Color("#22C55E")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Text
var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Latin marks Latin text so it stands apart from English glosses.
	Latin   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	Speaker = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	Link    = lipgloss.NewStyle().Foreground(Secondary).Underline(true)

	// Notice is for guidance that is not an error, like an empty answer.
	Notice      = lipgloss.NewStyle().Foreground(Warning)
	Calibration = lipgloss.NewStyle().Foreground(Accent)
	Celebration = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)

// Boxes
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Banner = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Error).
		Foreground(Error).
		Padding(0, 2)
)

// Choices and grading
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Paradigm tables: case names down the side, forms in the cells.
var (
	ParadigmBorder = lipgloss.NewStyle().Foreground(Border)
	ParadigmHeader = lipgloss.NewStyle().Foreground(Primary).Bold(true).Padding(0, 1)
	ParadigmCase   = lipgloss.NewStyle().Foreground(TextDim).Padding(0, 1)
	ParadigmForm   = lipgloss.NewStyle().Foreground(Accent).Padding(0, 1)
)

// Mastery bar
var (
	ProgressFilled   = lipgloss.NewStyle().Background(Secondary)
	ProgressMastered = lipgloss.NewStyle().Background(Success)
	ProgressEmpty    = lipgloss.NewStyle().Background(Border)
)
