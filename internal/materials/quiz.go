package materials

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// PassPercent is the minimum quiz score that completes a material.
	PassPercent = 70

	// MinDiscussionLength is the minimum trimmed length, in characters, of a
	// discussion response.
	MinDiscussionLength = 100
)

var fold = cases.Lower(language.Und)

// QuizResult is the outcome of one quiz attempt.
type QuizResult struct {
	Correct int
	Total   int
	Passed  bool
	// Marks records per-question correctness in question order.
	Marks []bool
}

// Percent returns the score as a whole percentage.
func (r QuizResult) Percent() int {
	if r.Total == 0 {
		return 0
	}
	return r.Correct * 100 / r.Total
}

// ScoreQuiz grades answers against the questions. Integer arithmetic keeps
// the threshold exact: 7 of 10 passes, 6 of 9 does not.
func ScoreQuiz(questions []QuizQuestion, answers []string) QuizResult {
	res := QuizResult{Total: len(questions), Marks: make([]bool, len(questions))}
	for i, q := range questions {
		if i < len(answers) && matches(q, answers[i]) {
			res.Correct++
			res.Marks[i] = true
		}
	}
	res.Passed = res.Total > 0 && res.Correct*100 >= PassPercent*res.Total
	return res
}

func matches(q QuizQuestion, answer string) bool {
	got := fold.String(strings.TrimSpace(answer))
	if got == "" {
		return false
	}
	if q.Type != QuestionShortAnswer {
		return got == fold.String(strings.TrimSpace(q.Answer))
	}
	for _, kw := range keywords(q.Answer) {
		if strings.Contains(got, kw) {
			return true
		}
	}
	return false
}

func keywords(answer string) []string {
	parts := strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ';' })
	out := parts[:0]
	for _, p := range parts {
		if kw := fold.String(strings.TrimSpace(p)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// DiscussionLongEnough reports whether a discussion response meets the
// minimum length after trimming.
func DiscussionLongEnough(text string) bool {
	return len([]rune(strings.TrimSpace(text))) >= MinDiscussionLength
}
