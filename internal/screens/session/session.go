// Package session is the tutoring screen: it shows content units, collects
// answers and confidence ratings, and animates mastery progress.
package session

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/confidence"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/mastery"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/router"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screen"
	materialsscreen "github.com/jkruckivey/adaptive-latin-sub000/internal/screens/materials"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screens/onboarding"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/components"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/layout"
)

// SessionScreen implements screen.Screen for the tutoring session.
type SessionScreen struct {
	orch     *orchestrator.Orchestrator
	complete func() screen.Screen

	view    orchestrator.View
	unit    content.Unit
	unitSeq uint64
	phase   orchestrator.Phase
	options components.OptionList
	input   components.TextInput

	pending bool
	spinner components.Spinner
	retry   tea.Cmd
	errMsg  string
	notice  string

	bar        *mastery.Animator
	barConcept string
	animating  bool

	pickingStyle bool
	styles       components.OptionList

	showingQuitConfirm bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates the session screen. complete builds the screen shown once the
// course has ended.
func New(orch *orchestrator.Orchestrator, complete func() screen.Screen) *SessionScreen {
	return &SessionScreen{
		orch:     orch,
		complete: complete,
		bar:      mastery.NewAnimator(0, 0),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	s.sync()
	if s.phase == orchestrator.PhaseGateCheck {
		return s.call("check gate", s.orch.CheckGate)
	}
	return nil
}

func (s *SessionScreen) Title() string {
	switch s.phase {
	case orchestrator.PhasePreviewChoice:
		return "Preview"
	case orchestrator.PhaseConfidence:
		return "How sure are you?"
	case orchestrator.PhaseMasteryCelebration:
		return "Concept Mastered"
	}
	if s.unit != nil {
		switch u := s.unit.(type) {
		case content.Lesson:
			return u.Title
		case content.ParadigmTable:
			return u.Title
		case content.ExampleSet:
			return u.Title
		}
	}
	return "Lesson"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.errMsg != "" && s.retry != nil {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	if s.pickingStyle {
		return []layout.KeyHint{
			{Key: "1-4", Description: "Choose"},
			{Key: "Esc", Description: "Cancel"},
		}
	}

	var hints []layout.KeyHint
	switch s.phase {
	case orchestrator.PhasePreviewChoice, orchestrator.PhaseConfidence:
		hints = append(hints, layout.KeyHint{Key: "↑↓/1-5", Description: "Choose"})
	case orchestrator.PhaseMasteryCelebration:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next concept"})
	case orchestrator.PhaseContent:
		if content.IsQuestion(s.unit) {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Answer"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Continue"})
		}
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+L", Description: "Learning style"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

// call runs fn off the UI loop and reports the outcome as an opDoneMsg. The
// call is remembered so a retryable failure can be repeated.
func (s *SessionScreen) call(op string, fn func(context.Context) error) tea.Cmd {
	s.retry = func() tea.Msg {
		return opDoneMsg{Op: op, Err: fn(context.Background())}
	}
	return s.start(s.retry)
}

func (s *SessionScreen) start(cmd tea.Cmd) tea.Cmd {
	s.pending = true
	s.errMsg = ""
	s.notice = ""
	return tea.Batch(cmd, s.spinner.Tick())
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		return s.handleDone(msg)

	case styleUpdatedMsg:
		s.pending = false
		if msg.Err != nil {
			s.notice = "Could not update learning style: " + msg.Err.Error()
			return s, nil
		}
		s.notice = "Learning style set to " + msg.Style + "."
		s.sync()
		return s, nil

	case components.SpinnerTickMsg:
		if !s.pending {
			return s, nil
		}
		s.spinner = s.spinner.Advance()
		return s, s.spinner.Tick()

	case masteryTickMsg:
		s.bar.Step()
		if s.bar.Done() {
			s.animating = false
			return s, nil
		}
		return s, s.barTick()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == orchestrator.PhaseContent && s.isFillBlank() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleDone(msg opDoneMsg) (screen.Screen, tea.Cmd) {
	s.pending = false
	err := msg.Err

	var verr *orchestrator.ValidationError
	switch {
	case err == nil:
		s.retry = nil
	case errors.Is(err, orchestrator.ErrGateLocked):
		s.retry = nil
		s.sync()
		return s, router.Push(materialsscreen.New(s.orch.CurrentGate()))
	case errors.Is(err, orchestrator.ErrBusy), errors.Is(err, orchestrator.ErrStale):
		return s, nil
	case errors.As(err, &verr):
		s.retry = nil
		s.notice = verr.Message
	case msg.Op == "rate confidence" && errors.Is(err, orchestrator.ErrRetryable):
		// The held answer is gone; the learner answers again.
		s.retry = nil
		s.errMsg = err.Error()
		s.notice = "Your answer was not sent. Answer again to retry."
	default:
		s.errMsg = err.Error()
		if !errors.Is(err, orchestrator.ErrRetryable) {
			s.retry = nil
		}
	}

	cmd := s.sync()
	if s.phase == orchestrator.PhaseCourseComplete && s.complete != nil {
		return s, router.Replace(s.complete())
	}
	return s, cmd
}

// Resume runs when the materials screen is closed. The gate is checked again
// if the session is still waiting on it.
func (s *SessionScreen) Resume() tea.Cmd {
	cmd := s.sync()
	if s.phase == orchestrator.PhaseGateCheck {
		return s.call("check gate", s.orch.CheckGate)
	}
	return cmd
}

// sync pulls the orchestrator state and rebuilds the widgets that depend on
// it. The returned command drives the mastery bar animation.
func (s *SessionScreen) sync() tea.Cmd {
	v := s.orch.Snapshot()
	changed := v.UnitSeq != s.unitSeq || v.Phase != s.phase
	s.view = v
	s.phase = v.Phase
	s.unit = v.Unit
	s.unitSeq = v.UnitSeq
	if changed {
		s.resetWidgets()
	}
	return s.syncBar(v)
}

func (s *SessionScreen) resetWidgets() {
	switch s.phase {
	case orchestrator.PhasePreviewChoice:
		s.options = components.NewOptionList([]string{
			"Show me a preview of this concept",
			"Start the lesson",
		})
	case orchestrator.PhaseConfidence:
		labels := make([]string, int(s.view.Scale))
		for i := range labels {
			labels[i] = s.view.Scale.Label(i + 1)
		}
		s.options = components.NewOptionList(labels)
	case orchestrator.PhaseContent:
		if q, ok := s.unit.(content.Question); ok {
			if _, blank := q.(content.FillBlank); blank {
				s.input = components.NewTextInput("Type your answer...", 60)
				return
			}
			s.options = components.NewOptionList(q.Choices())
		}
	}
}

func (s *SessionScreen) syncBar(v orchestrator.View) tea.Cmd {
	if !v.Features.MasteryBar {
		return nil
	}
	target := v.Mastery.Score
	if v.Phase == orchestrator.PhaseMasteryCelebration {
		target = v.Completed.Score
	}
	if v.ConceptID != s.barConcept {
		s.barConcept = v.ConceptID
		s.bar.Set(target)
		return nil
	}
	if target == s.bar.Target() {
		return nil
	}
	s.bar.Start(target)
	if s.bar.Done() || s.animating {
		return nil
	}
	s.animating = true
	return s.barTick()
}

func (s *SessionScreen) barTick() tea.Cmd {
	return tea.Tick(s.bar.Interval(), func(time.Time) tea.Msg {
		return masteryTickMsg{}
	})
}

func (s *SessionScreen) isFillBlank() bool {
	_, ok := s.unit.(content.FillBlank)
	return ok
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			return s, tea.Quit
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	if s.pickingStyle {
		return s.handleStyleKey(msg)
	}

	switch key {
	case "esc":
		s.showingQuitConfirm = true
		return s, nil
	case "ctrl+l":
		if s.view.Learner != nil && !s.pending {
			s.openStylePicker()
		}
		return s, nil
	}

	if s.pending {
		return s, nil
	}

	if s.errMsg != "" && s.retry != nil && (key == "r" || key == "R") {
		return s, s.start(s.retry)
	}

	switch s.phase {
	case orchestrator.PhasePreviewChoice:
		return s.choose(msg, func(idx int) tea.Cmd {
			show := idx == 0
			return s.call("choose preview", func(ctx context.Context) error {
				return s.orch.ChoosePreview(ctx, show)
			})
		})

	case orchestrator.PhaseConfidence:
		return s.choose(msg, func(idx int) tea.Cmd {
			level := idx + 1
			return s.call("rate confidence", func(ctx context.Context) error {
				return s.orch.ChooseConfidence(ctx, level)
			})
		})

	case orchestrator.PhaseMasteryCelebration:
		if key == "enter" {
			return s, s.call("acknowledge mastery", s.orch.AcknowledgeMastery)
		}

	case orchestrator.PhaseGateCheck:
		if key == "enter" {
			return s, s.call("check gate", s.orch.CheckGate)
		}

	case orchestrator.PhaseContent:
		return s.handleContentKey(msg)
	}
	return s, nil
}

// choose feeds msg to the option list and runs submit once an option has
// been picked.
func (s *SessionScreen) choose(msg tea.KeyPressMsg, submit func(int) tea.Cmd) (screen.Screen, tea.Cmd) {
	s.options, _ = s.options.Update(msg)
	idx, ok := s.options.Chosen()
	if !ok {
		return s, nil
	}
	s.options.Clear()
	return s, submit(idx)
}

func (s *SessionScreen) handleContentKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if !content.IsQuestion(s.unit) {
		if key == "enter" || key == "space" {
			return s, s.call("continue", s.orch.Continue)
		}
		return s, nil
	}

	if s.isFillBlank() {
		if key != "enter" {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		if s.input.Empty() {
			s.notice = "Type an answer first."
			return s, nil
		}
		return s, s.submit(confidence.Response{Blanks: []string{s.input.Value()}})
	}

	return s.choose(msg, func(idx int) tea.Cmd {
		return s.submit(confidence.Response{Choice: idx})
	})
}

func (s *SessionScreen) submit(resp confidence.Response) tea.Cmd {
	return s.call("submit answer", func(ctx context.Context) error {
		return s.orch.SubmitAnswer(ctx, resp)
	})
}

func (s *SessionScreen) openStylePicker() {
	styles := onboarding.LearningStyles()
	labels := make([]string, len(styles))
	for i, c := range styles {
		labels[i] = c.Label
	}
	s.styles = components.NewOptionList(labels)
	s.pickingStyle = true
}

func (s *SessionScreen) handleStyleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		s.pickingStyle = false
		return s, nil
	}
	s.styles, _ = s.styles.Update(msg)
	idx, ok := s.styles.Chosen()
	if !ok {
		return s, nil
	}
	s.pickingStyle = false
	style := onboarding.LearningStyles()[idx].Value
	orch := s.orch
	s.pending = true
	return s, tea.Batch(func() tea.Msg {
		err := orch.UpdateLearningStyle(context.Background(), style)
		return styleUpdatedMsg{Style: style, Err: err}
	}, s.spinner.Tick())
}
