package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestDecode_AllKinds(t *testing.T) {
	payloads := map[Kind]string{
		KindLesson:           `{"type":"lesson","title":"First Declension","content":"Nouns ending in -a"}`,
		KindParadigmTable:    `{"type":"paradigm-table","title":"puella","headers":["Case","Sg","Pl"],"rows":[["Nom","puella","puellae"]]}`,
		KindExampleSet:       `{"type":"example-set","title":"Examples","examples":[{"latin":"puella cantat","translation":"the girl sings"}]}`,
		KindMultipleChoice:   `{"type":"multiple-choice","question":"Which case?","options":["nom","acc"],"correctAnswer":1}`,
		KindFillBlank:        `{"type":"fill-blank","sentence":"puell__ cantat","correctAnswers":["a"]}`,
		KindDialogue:         `{"type":"dialogue","dialogue":[{"speaker":"Marcus","text":"Salve!"}],"question":"What did Marcus say?","options":["Hello","Goodbye"],"correctAnswer":0}`,
		KindAssessmentResult: `{"type":"assessment-result","correct":true,"feedback":"Bene!"}`,
		KindText:             `{"type":"text","content":"Plain prose"}`,
		KindCourseEnd:        `{"type":"course-end","message":"Finis"}`,
	}

	for _, kind := range AllKinds() {
		raw, ok := payloads[kind]
		if !ok {
			t.Errorf("no payload for kind %s", kind)
			continue
		}
		u, err := Decode(json.RawMessage(raw))
		if err != nil {
			t.Errorf("Decode(%s): %v", kind, err)
			continue
		}
		if u.Kind() != kind {
			t.Errorf("Kind() = %s, want %s", u.Kind(), kind)
		}
		if u.Successor() != nil {
			t.Errorf("%s: unexpected successor", kind)
		}
	}
}

func TestDecode_QuestionVariants(t *testing.T) {
	questions := map[Kind]bool{
		KindMultipleChoice: true,
		KindFillBlank:      true,
		KindDialogue:       true,
	}
	units := []Unit{
		Lesson{}, ParadigmTable{}, ExampleSet{}, MultipleChoice{}, FillBlank{},
		Dialogue{}, AssessmentResult{}, Text{}, CourseEnd{},
	}
	if len(units) != len(AllKinds()) {
		t.Fatalf("units cover %d kinds, want %d", len(units), len(AllKinds()))
	}
	for _, u := range units {
		if got := IsQuestion(u); got != questions[u.Kind()] {
			t.Errorf("IsQuestion(%s) = %v, want %v", u.Kind(), got, questions[u.Kind()])
		}
	}
}

func TestDecode_NestedSuccessor(t *testing.T) {
	raw := `{
		"type": "assessment-result",
		"correct": false,
		"feedback": "Not quite.",
		"nextContent": {
			"type": "multiple-choice",
			"question": "Try again: which case?",
			"options": ["nom", "acc", "gen"],
			"correctAnswer": 2,
			"showConfidence": false
		}
	}`
	u, err := Decode(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	res, ok := u.(AssessmentResult)
	if !ok {
		t.Fatalf("got %T, want AssessmentResult", u)
	}
	if res.Correct {
		t.Error("Correct = true, want false")
	}
	next, ok := res.Successor().(MultipleChoice)
	if !ok {
		t.Fatalf("successor is %T, want MultipleChoice", res.Successor())
	}
	if next.CorrectAnswer != 2 {
		t.Errorf("CorrectAnswer = %d, want 2", next.CorrectAnswer)
	}
	if next.WantsConfidence() {
		t.Error("WantsConfidence() = true, want false for explicit opt-out")
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"type":`},
		{"missing type", `{"title":"x"}`},
		{"unknown type", `{"type":"flashcard"}`},
		{"choice without options", `{"type":"multiple-choice","question":"q","correctAnswer":0}`},
		{"choice with one option", `{"type":"multiple-choice","question":"q","options":["a"],"correctAnswer":0}`},
		{"answer out of range", `{"type":"multiple-choice","question":"q","options":["a","b"],"correctAnswer":5}`},
		{"fill blank without answers", `{"type":"fill-blank","sentence":"s","correctAnswers":[]}`},
		{"invalid successor", `{"type":"text","content":"x","nextContent":{"type":"lesson"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(json.RawMessage(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			var invalid *InvalidUnitError
			if !errors.As(err, &invalid) {
				t.Errorf("error %v is not *InvalidUnitError", err)
			}
			if !errors.Is(err, ErrRetryable) {
				t.Errorf("error %v does not match ErrRetryable", err)
			}
		})
	}
}

func TestWantsConfidence_DefaultsToTrue(t *testing.T) {
	tests := []struct {
		name string
		q    Question
		want bool
	}{
		{"choice absent", MultipleChoice{}, true},
		{"choice true", MultipleChoice{ShowConfidence: Bool(true)}, true},
		{"choice false", MultipleChoice{ShowConfidence: Bool(false)}, false},
		{"fill absent", FillBlank{}, true},
		{"fill false", FillBlank{ShowConfidence: Bool(false)}, false},
		{"dialogue false", Dialogue{ShowConfidence: Bool(false)}, false},
	}
	for _, tt := range tests {
		if got := tt.q.WantsConfidence(); got != tt.want {
			t.Errorf("%s: WantsConfidence() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	orig := AssessmentResult{
		Envelope: Envelope{Next: FillBlank{
			Sentence:       "puell__ cantat",
			CorrectAnswers: []string{"a"},
		}},
		Correct:  true,
		Feedback: "Optime!",
	}

	raw, err := encode(orig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	res, ok := got.(AssessmentResult)
	if !ok {
		t.Fatalf("got %T, want AssessmentResult", got)
	}
	if res.Feedback != "Optime!" {
		t.Errorf("Feedback = %q", res.Feedback)
	}
	fb, ok := res.Successor().(FillBlank)
	if !ok {
		t.Fatalf("successor is %T, want FillBlank", res.Successor())
	}
	if fb.Sentence != "puell__ cantat" {
		t.Errorf("Sentence = %q", fb.Sentence)
	}
}

// encode renders u back into its wire form, successors included.
func encode(u Unit) (json.RawMessage, error) {
	if u == nil {
		return nil, errors.New("encode nil unit")
	}

	body, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", u.Kind(), err)
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("reparse %s: %w", u.Kind(), err)
	}
	fields["type"] = string(u.Kind())

	if next := u.Successor(); next != nil {
		nextRaw, err := encode(next)
		if err != nil {
			return nil, err
		}
		fields["nextContent"] = nextRaw
	}
	return json.Marshal(fields)
}
