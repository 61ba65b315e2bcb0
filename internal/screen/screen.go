// Package screen defines what the router needs from a tutor screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/layout"
)

// Screen is one full-window view of the tutor. The app draws the header and
// footer around it.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body into a width x height area.
	View(width, height int) string

	// Title names the screen in the header breadcrumb.
	Title() string
}

// KeyHintProvider lets a screen describe its keys in the footer.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that refresh when the screen pushed on
// top of them is closed.
type Resumer interface {
	Resume() tea.Cmd
}
