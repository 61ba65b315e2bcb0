// Package router keeps the stack of tutor screens. Screens never hold the
// router; they ask for navigation with the commands in this package.
package router

import (
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one, e.g. the materials
// gate over the lesson.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the top screen and resumes the one below.
type PopScreenMsg struct{}

// ReplaceScreenMsg moves on to Screen without keeping the current one.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// RootScreenMsg discards the whole stack and starts over from Screen.
type RootScreenMsg struct {
	Screen screen.Screen
}

// Push returns a command that opens s over the active screen.
func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

// Back returns a command that closes the active screen.
func Back() tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{} }
}

// Replace returns a command that swaps the active screen for s.
func Replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceScreenMsg{Screen: s} }
}

// Root returns a command that restarts navigation at s.
func Root(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return RootScreenMsg{Screen: s} }
}

// Router manages the screen stack. The bottom screen is never popped.
type Router struct {
	stack  []screen.Screen
	logger *slog.Logger
}

// New creates a Router showing initial. A nil logger uses slog.Default().
func New(initial screen.Screen, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		stack:  []screen.Screen{initial},
		logger: logger,
	}
}

func (r *Router) push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	r.logger.Debug("screen opened", "screen", s.Title(), "depth", len(r.stack))
	return s.Init()
}

// pop closes the top screen and lets the uncovered one resume.
func (r *Router) pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	closed := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.logger.Debug("screen closed", "screen", closed.Title(), "depth", len(r.stack))

	if res, ok := r.Active().(screen.Resumer); ok {
		return res.Resume()
	}
	return nil
}

func (r *Router) replace(s screen.Screen) tea.Cmd {
	from := r.Active()
	r.stack[len(r.stack)-1] = s
	if from != nil {
		r.logger.Debug("screen replaced", "from", from.Title(), "to", s.Title())
	}
	return s.Init()
}

func (r *Router) root(s screen.Screen) tea.Cmd {
	r.stack = []screen.Screen{s}
	r.logger.Debug("navigation restarted", "screen", s.Title())
	return s.Init()
}

// Active returns the top screen.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of open screens.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Titles returns the titles of the open screens from the bottom up, skipping
// screens without a title.
func (r *Router) Titles() []string {
	titles := make([]string, 0, len(r.stack))
	for _, s := range r.stack {
		if t := s.Title(); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.push(msg.Screen)
	case PopScreenMsg:
		return r.pop()
	case ReplaceScreenMsg:
		return r.replace(msg.Screen)
	case RootScreenMsg:
		return r.root(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
