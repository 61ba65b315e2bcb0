// Package materials lets the learner work through the required materials of
// a module before its content unlocks.
package materials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	mats "github.com/jkruckivey/adaptive-latin-sub000/internal/materials"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/router"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/components"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/layout"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

type statusMsg struct {
	statuses []mats.MaterialStatus
	err      error
}

type openedMsg struct {
	flow *mats.Flow
	err  error
}

type mode int

const (
	modeList mode = iota
	modeFlow
)

// MaterialsScreen lists a module's materials and runs their completion
// flows.
type MaterialsScreen struct {
	gate *mats.Gate

	mode     mode
	statuses []mats.MaterialStatus
	unlocked bool
	menu     components.Menu

	flow       *mats.Flow
	options    components.OptionList
	input      components.TextInput
	discussion textarea.Model
	result     *mats.QuizResult

	notice string
	errMsg string
}

var _ screen.Screen = (*MaterialsScreen)(nil)
var _ screen.KeyHintProvider = (*MaterialsScreen)(nil)

// New creates the screen for a module's gate.
func New(gate *mats.Gate) *MaterialsScreen {
	return &MaterialsScreen{gate: gate}
}

func (s *MaterialsScreen) Init() tea.Cmd {
	return s.loadStatus()
}

func (s *MaterialsScreen) Title() string {
	return "Required Materials"
}

func (s *MaterialsScreen) KeyHints() []layout.KeyHint {
	if s.mode == modeList {
		hints := []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Open"},
		}
		if s.unlocked {
			hints = append(hints, layout.KeyHint{Key: "C", Description: "Continue"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	if s.flow != nil && s.flow.Material().Verification.Method == mats.MethodDiscussion && s.flow.State() == mats.StateVerifying {
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MaterialsScreen) loadStatus() tea.Cmd {
	gate := s.gate
	return func() tea.Msg {
		statuses, err := gate.Status(context.Background())
		return statusMsg{statuses: statuses, err: err}
	}
}

func (s *MaterialsScreen) close() tea.Cmd {
	return router.Back()
}

func (s *MaterialsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.setStatuses(msg.statuses)
		return s, nil

	case openedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.flow = msg.flow
		s.mode = modeFlow
		s.result = nil
		s.notice = ""
		return s, nil

	case tea.KeyPressMsg:
		if s.mode == modeList {
			return s.handleListKey(msg)
		}
		return s.handleFlowKey(msg)
	}

	if s.mode == modeFlow && s.flow != nil && s.flow.State() == mats.StateVerifying {
		return s.forwardInput(msg)
	}
	return s, nil
}

func (s *MaterialsScreen) setStatuses(statuses []mats.MaterialStatus) {
	s.statuses = statuses
	s.unlocked = true
	items := make([]components.MenuItem, len(statuses))
	for i, st := range statuses {
		if st.Material.Blocking() && !st.Complete {
			s.unlocked = false
		}
		mark := components.MarkOpen
		if st.Complete {
			mark = components.MarkDone
		}
		id := st.Material.ID
		items[i] = components.MenuItem{
			Label:  st.Material.Title,
			Detail: fmt.Sprintf("%s · %s", st.Material.Requirement, st.Material.Type),
			Mark:   mark,
			Action: func() tea.Cmd { return s.open(id) },
		}
	}
	selected := s.menu.Selected
	s.menu = components.NewMenu(items)
	s.menu.Select(selected)
}

func (s *MaterialsScreen) open(id string) tea.Cmd {
	gate := s.gate
	return func() tea.Msg {
		flow, err := gate.Open(context.Background(), id)
		return openedMsg{flow: flow, err: err}
	}
}

func (s *MaterialsScreen) handleListKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, s.close()
	case "c", "C":
		if s.unlocked {
			return s, s.close()
		}
		return s, nil
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *MaterialsScreen) backToList() (screen.Screen, tea.Cmd) {
	s.mode = modeList
	s.flow = nil
	s.result = nil
	return s, s.loadStatus()
}

func (s *MaterialsScreen) handleFlowKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		return s.backToList()
	}

	f := s.flow
	switch f.State() {
	case mats.StateComplete:
		if key == "enter" {
			return s.backToList()
		}
		return s, nil

	case mats.StateViewing:
		if key != "enter" {
			return s, nil
		}
		if f.Material().Verification.Method == mats.MethodNone {
			return s.finish(f.Acknowledge(context.Background()))
		}
		if err := f.BeginVerification(); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		return s, s.prepareVerification()
	}

	switch f.Material().Verification.Method {
	case mats.MethodAttest:
		switch key {
		case "y", "Y":
			return s.finish(f.Attest(context.Background(), true))
		case "n", "N":
			err := f.Attest(context.Background(), false)
			if errors.Is(err, mats.ErrNotConfirmed) {
				s.notice = "Take your time. Come back when you can confirm."
				return s, nil
			}
			return s.finish(err)
		}
		return s, nil

	case mats.MethodQuiz:
		return s.handleQuizKey(msg)

	case mats.MethodDiscussion:
		if key == "ctrl+s" {
			err := f.SubmitDiscussion(context.Background(), s.discussion.Value())
			if errors.Is(err, mats.ErrTooShort) {
				s.notice = err.Error()
				return s, nil
			}
			return s.finish(err)
		}
		return s.forwardInput(msg)
	}
	return s, nil
}

func (s *MaterialsScreen) finish(err error) (screen.Screen, tea.Cmd) {
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.errMsg = ""
	s.notice = ""
	return s, nil
}

// prepareVerification sets up the input for the current verification step.
func (s *MaterialsScreen) prepareVerification() tea.Cmd {
	v := s.flow.Material().Verification
	switch v.Method {
	case mats.MethodQuiz:
		return s.prepareQuestion()
	case mats.MethodDiscussion:
		s.discussion = textarea.New()
		s.discussion.Placeholder = "Write your response..."
		s.discussion.CharLimit = 4000
		s.discussion.SetWidth(60)
		s.discussion.SetHeight(6)
		return s.discussion.Focus()
	}
	return nil
}

func (s *MaterialsScreen) currentQuestion() mats.QuizQuestion {
	qs := s.flow.Material().Verification.Questions
	return qs[s.flow.Question()]
}

func (s *MaterialsScreen) prepareQuestion() tea.Cmd {
	q := s.currentQuestion()
	switch q.Type {
	case mats.QuestionTrueFalse:
		s.options = components.NewOptionList([]string{"True", "False"})
	case mats.QuestionMultipleChoice:
		s.options = components.NewOptionList(q.Options)
	default:
		s.input = components.NewTextInput("Your answer", 200)
		return s.input.Init()
	}
	return nil
}

func (s *MaterialsScreen) handleQuizKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	q := s.currentQuestion()

	var answer string
	if q.Type == mats.QuestionShortAnswer {
		if msg.String() != "enter" {
			return s.forwardInput(msg)
		}
		answer = strings.TrimSpace(s.input.Value())
		if answer == "" {
			return s, nil
		}
	} else {
		s.options, _ = s.options.Update(msg)
		idx, ok := s.options.Chosen()
		if !ok {
			return s, nil
		}
		answer = s.options.Options[idx]
	}

	f := s.flow
	last := f.Question() == len(f.Material().Verification.Questions)-1
	if err := f.Answer(answer); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if !last {
		s.result = nil
		return s, s.prepareQuestion()
	}

	res, err := f.SubmitQuiz(context.Background())
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.result = &res
	if !res.Passed {
		s.notice = fmt.Sprintf("%d of %d correct. You need %d%% to pass. Let's try again from the first question.",
			res.Correct, res.Total, mats.PassPercent)
		return s, s.prepareQuestion()
	}
	s.notice = ""
	return s, nil
}

func (s *MaterialsScreen) forwardInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.flow.Material().Verification.Method {
	case mats.MethodDiscussion:
		s.discussion, cmd = s.discussion.Update(msg)
	case mats.MethodQuiz:
		if s.currentQuestion().Type == mats.QuestionShortAnswer {
			s.input, cmd = s.input.Update(msg)
		}
	}
	return s, cmd
}

func (s *MaterialsScreen) View(width, height int) string {
	var body string
	if s.mode == modeList {
		body = s.renderList(width)
	} else {
		body = s.renderFlow(width)
	}
	if s.errMsg != "" {
		body += "\n\n" + theme.Banner.Render(s.errMsg)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *MaterialsScreen) renderList(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Before you begin this module"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Complete every required material to unlock the lessons."))
	b.WriteString("\n\n")
	if len(s.statuses) == 0 {
		b.WriteString(theme.Hint.Render("This module has no materials."))
	} else {
		b.WriteString(s.menu.View())
	}
	if s.unlocked {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("All required materials are complete. Press C to continue."))
	}
	return b.String()
}

func (s *MaterialsScreen) renderFlow(width int) string {
	f := s.flow
	m := f.Material()
	wrap := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text)

	var b strings.Builder
	b.WriteString(theme.Title.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s · %s", m.Type, m.Requirement)))
	b.WriteString("\n\n")
	b.WriteString(theme.Link.Render(m.URL))
	b.WriteString("\n\n")

	switch f.State() {
	case mats.StateViewing:
		if m.Verification.Method == mats.MethodNone {
			b.WriteString(wrap.Render("Open the link above. Press Enter once you have finished it."))
		} else {
			b.WriteString(wrap.Render("Open the link above. Press Enter when you are ready to confirm what you learned."))
		}

	case mats.StateVerifying:
		b.WriteString(s.renderVerification(wrap))

	case mats.StateComplete:
		b.WriteString(theme.Correct.Render("Complete!"))
		if s.result != nil {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("  %d of %d correct (%d%%)", s.result.Correct, s.result.Total, s.result.Percent())))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press Enter to return to the list."))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Notice.Render(s.notice))
	}
	return b.String()
}

func (s *MaterialsScreen) renderVerification(wrap lipgloss.Style) string {
	f := s.flow
	v := f.Material().Verification
	var b strings.Builder

	switch v.Method {
	case mats.MethodAttest:
		b.WriteString(wrap.Render(v.Statement))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("[Y] I confirm   [N] Not yet"))

	case mats.MethodQuiz:
		q := s.currentQuestion()
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("Question %d of %d", f.Question()+1, len(v.Questions))))
		if f.Attempts() > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("  ·  attempt %d", f.Attempts()+1)))
		}
		b.WriteString("\n\n")
		b.WriteString(wrap.Bold(true).Render(q.Question))
		b.WriteString("\n\n")
		if q.Type == mats.QuestionShortAnswer {
			b.WriteString(s.input.View())
		} else {
			b.WriteString(s.options.View())
		}

	case mats.MethodDiscussion:
		b.WriteString(wrap.Render(v.Prompt))
		b.WriteString("\n\n")
		b.WriteString(s.discussion.View())
		b.WriteString("\n")
		n := len([]rune(strings.TrimSpace(s.discussion.Value())))
		count := fmt.Sprintf("%d / %d characters", n, mats.MinDiscussionLength)
		if mats.DiscussionLongEnough(s.discussion.Value()) {
			b.WriteString(theme.Correct.Render(count))
		} else {
			b.WriteString(theme.Hint.Render(count))
		}
	}
	return b.String()
}
