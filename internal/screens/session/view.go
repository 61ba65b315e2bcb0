package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/components"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/layout"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.showingQuitConfirm {
		return renderQuitConfirm(width, height)
	}

	textWidth := min(width-8, 76)
	var b strings.Builder

	if bar := s.renderMasteryBar(textWidth); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n\n")
	}

	switch {
	case s.pickingStyle:
		b.WriteString(s.renderStylePicker())
	case s.pending && s.phase != orchestrator.PhaseContent && s.phase != orchestrator.PhaseConfidence:
		b.WriteString(s.spinner.View("Preparing your lesson..."))
	default:
		b.WriteString(s.renderPhase(textWidth))
	}

	if s.pending && !s.pickingStyle && (s.phase == orchestrator.PhaseContent || s.phase == orchestrator.PhaseConfidence) {
		b.WriteString("\n\n")
		b.WriteString(s.spinner.View("Thinking..."))
	}
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Notice.Width(textWidth).Render(s.notice))
	}
	if s.errMsg != "" {
		msg := s.errMsg
		if s.retry != nil {
			msg += "\n\nPress R to retry"
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Banner.Width(textWidth).Render(msg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (s *SessionScreen) renderMasteryBar(width int) string {
	v := s.view
	if !v.Features.MasteryBar || v.Learner == nil || v.ConceptID == "" {
		return ""
	}
	st := v.Mastery
	if v.Phase == orchestrator.PhaseMasteryCelebration {
		st = v.Completed
	}
	bar := components.NewMasteryBar("Mastery", s.bar.Value(), st.Threshold, st.IsMastered(), max(width-24, 10))
	return bar.View() + "\n" + theme.Hint.Render(st.Hint())
}

func (s *SessionScreen) renderPhase(width int) string {
	switch s.phase {
	case orchestrator.PhaseGateCheck:
		return theme.Hint.Render("Press Enter to check your materials.")

	case orchestrator.PhasePreviewChoice:
		var b strings.Builder
		b.WriteString(theme.Title.Render("A new concept"))
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Width(width).Render("Would you like a quick preview before the lesson begins?"))
		b.WriteString("\n\n")
		b.WriteString(s.options.View())
		return b.String()

	case orchestrator.PhaseConfidence:
		var b strings.Builder
		if q, ok := s.unit.(content.Question); ok {
			b.WriteString(theme.Body.Bold(true).Width(width).Render(q.Prompt()))
			b.WriteString("\n\n")
		}
		b.WriteString(theme.Subtitle.Render("How confident are you in your answer?"))
		b.WriteString("\n\n")
		b.WriteString(s.options.View())
		return b.String()

	case orchestrator.PhaseMasteryCelebration:
		return s.renderCelebration(width)

	case orchestrator.PhaseContent:
		return s.renderUnit(width)
	}
	return ""
}

func (s *SessionScreen) renderCelebration(width int) string {
	done := s.view.Completed
	var b strings.Builder
	b.WriteString(theme.Celebration.Render("★  Optime!  ★"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(width).Align(lipgloss.Center).Render(
		fmt.Sprintf("You have mastered %s with a score of %d%% over %d questions.",
			conceptName(done.ConceptID), done.Percent(), done.AssessmentsCount)))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press Enter to move on to the next concept."))
	return b.String()
}

func conceptName(id string) string {
	if id == "" {
		return "this concept"
	}
	return layout.ConceptLabel(id)
}

func (s *SessionScreen) renderUnit(width int) string {
	body := theme.Body.Width(width)
	cont := theme.Hint.Render("Press Enter to continue.")

	switch u := s.unit.(type) {
	case content.Lesson:
		return theme.Title.Render(u.Title) + "\n\n" + body.Render(u.Body) + "\n\n" + cont

	case content.Text:
		var b strings.Builder
		if u.Title != "" {
			b.WriteString(theme.Title.Render(u.Title))
			b.WriteString("\n\n")
		}
		b.WriteString(body.Render(u.Body))
		b.WriteString("\n\n")
		b.WriteString(cont)
		return b.String()

	case content.ParadigmTable:
		var b strings.Builder
		b.WriteString(theme.Title.Render(u.Title))
		b.WriteString("\n\n")
		b.WriteString(renderParadigm(u))
		if u.Notes != "" {
			b.WriteString("\n\n")
			b.WriteString(theme.Hint.Width(width).Render(u.Notes))
		}
		b.WriteString("\n\n")
		b.WriteString(cont)
		return b.String()

	case content.ExampleSet:
		var b strings.Builder
		b.WriteString(theme.Title.Render(u.Title))
		b.WriteString("\n\n")
		for i, ex := range u.Examples {
			b.WriteString(theme.Latin.Render(fmt.Sprintf("%d. %s", i+1, ex.Latin)))
			b.WriteString("\n")
			b.WriteString(body.Render("   " + ex.Translation))
			if ex.Note != "" {
				b.WriteString("\n")
				b.WriteString(theme.Hint.Render("   " + ex.Note))
			}
			b.WriteString("\n\n")
		}
		b.WriteString(cont)
		return b.String()

	case content.MultipleChoice:
		return s.renderQuestion(width, u.ScenarioText, nil, u.Question, s.options.View())

	case content.Dialogue:
		return s.renderQuestion(width, u.Context, u.Lines, u.Question, s.options.View())

	case content.FillBlank:
		answer := "Answer: " + s.input.View()
		if u.Hint != "" {
			answer += "\n\n" + theme.Hint.Render("Hint: "+u.Hint)
		}
		return s.renderQuestion(width, u.ScenarioText, nil, u.Sentence, answer)

	case content.AssessmentResult:
		return renderResult(u, width) + "\n\n" + cont

	case content.CourseEnd:
		return body.Render(u.Message)
	}
	return ""
}

func (s *SessionScreen) renderQuestion(width int, scenario string, lines []content.DialogueLine, prompt, answer string) string {
	var b strings.Builder
	if scenario != "" {
		b.WriteString(theme.Card.Width(width).Render(theme.Latin.Render(scenario)))
		b.WriteString("\n\n")
	}
	for _, l := range lines {
		b.WriteString(theme.Speaker.Render(l.Speaker + ": "))
		b.WriteString(theme.Latin.Render(l.Text))
		if l.Translation != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("    " + l.Translation))
		}
		b.WriteString("\n")
	}
	if len(lines) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(theme.Body.Bold(true).Width(width).Render(prompt))
	b.WriteString("\n\n")
	b.WriteString(answer)
	return b.String()
}

func renderResult(r content.AssessmentResult, width int) string {
	var b strings.Builder
	if r.Correct {
		b.WriteString(theme.Correct.Render("✓ Recte!"))
	} else {
		b.WriteString(theme.Incorrect.Render("✗ Not quite."))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(width).Render(r.Feedback))
	if r.Explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Width(width).Foreground(theme.TextDim).Render(r.Explanation))
	}
	if r.Calibration != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Calibration.Width(width).Render(r.Calibration))
	}
	return b.String()
}

func renderParadigm(u content.ParadigmTable) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.ParadigmBorder).
		Headers(u.Headers...).
		Rows(u.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.ParadigmHeader
			case col == 0:
				return theme.ParadigmCase
			default:
				return theme.ParadigmForm
			}
		})
	return t.String()
}

func (s *SessionScreen) renderStylePicker() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("How do you like to learn?"))
	b.WriteString("\n\n")
	if l := s.view.Learner; l != nil && l.Profile.LearningStyle != "" {
		b.WriteString(theme.Subtitle.Render("Currently: " + l.Profile.LearningStyle))
		b.WriteString("\n\n")
	}
	b.WriteString(s.styles.View())
	return b.String()
}

func renderQuitConfirm(width, height int) string {
	box := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Leave the lesson?"),
		"",
		theme.Body.Render("Your progress is saved. You can resume next time."),
		"",
		theme.Hint.Render("[Y] Quit   [N] Keep going"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(box))
}
