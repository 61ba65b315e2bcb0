package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput is a single-line answer field. Learners often type Latin with
// stray spaces, so Value is trimmed.
type TextInput struct {
	model textinput.Model
}

// NewTextInput creates a focused input. A charLimit of zero means no limit.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Focus()
	return TextInput{model: ti}
}

// Init starts the cursor blinking.
func (t TextInput) Init() tea.Cmd {
	return t.model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	return t.model.View()
}

// Value returns the typed text without surrounding whitespace.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.model.Value())
}

// Empty reports whether nothing but whitespace was typed.
func (t TextInput) Empty() bool {
	return t.Value() == ""
}

// SetValue replaces the typed text.
func (t *TextInput) SetValue(s string) {
	t.model.SetValue(s)
}
