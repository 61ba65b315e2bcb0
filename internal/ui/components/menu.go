package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

// Mark is the checkbox drawn in front of a menu item.
type Mark int

const (
	MarkNone Mark = iota
	MarkOpen
	MarkDone
)

// MenuItem is one entry of a Menu.
type MenuItem struct {
	Label  string
	Detail string
	Mark   Mark
	Action func() tea.Cmd
}

// Menu is a vertical list of actions, such as the welcome choices or the
// required materials of a module. Arrows wrap around; digits 1-9 run an item
// directly.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first item selected.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Select moves the cursor to i if it is in range.
func (m *Menu) Select(i int) {
	if i >= 0 && i < len(m.Items) {
		m.Selected = i
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
	case "down", "j":
		m.Selected = (m.Selected + 1) % len(m.Items)
	case "enter":
		return m, m.activate()
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= min(len(m.Items), 9) {
			m.Selected = n - 1
			return m, m.activate()
		}
	}
	return m, nil
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	if a := m.Items[m.Selected].Action; a != nil {
		return a()
	}
	return nil
}

// View renders the menu, one item per line.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		cursor, style := "    ", theme.Unselected
		if i == m.Selected {
			cursor, style = "  ▸ ", theme.Selected
		}
		b.WriteString(style.Render(cursor))

		switch item.Mark {
		case MarkOpen:
			b.WriteString(style.Render("[ ] "))
		case MarkDone:
			b.WriteString(theme.Correct.Render("[✓] "))
		}
		b.WriteString(style.Render(item.Label))
		if item.Detail != "" {
			b.WriteString(theme.Hint.Render("  " + item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
