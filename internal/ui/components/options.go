package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

// OptionList is a numbered single-choice selector. Number keys choose an
// option directly; arrows move the cursor and Enter chooses it.
type OptionList struct {
	Options  []string
	Selected int
	chosen   int
}

// NewOptionList creates a selector with nothing chosen.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options, chosen: -1}
}

// Update handles keyboard navigation and selection.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	case "enter":
		if len(o.Options) > 0 {
			o.chosen = o.Selected
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(o.Options) {
			o.Selected = n - 1
			o.chosen = n - 1
		}
	}
	return o, nil
}

// Chosen returns the chosen index, if any.
func (o OptionList) Chosen() (int, bool) {
	return o.chosen, o.chosen >= 0
}

// Clear forgets the choice so the list can be used again.
func (o *OptionList) Clear() { o.chosen = -1 }

// View renders the options.
func (o OptionList) View() string {
	var s string
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)
		if i == o.Selected {
			s += theme.Selected.Render(line) + "\n"
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
