package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// maxDepth bounds how many nested nextContent successors are decoded.
const maxDepth = 8

// ErrRetryable is matched by errors the caller may recover from by asking the
// service again.
var ErrRetryable = errors.New("retryable")

// InvalidUnitError is returned when a payload does not describe a valid unit.
type InvalidUnitError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("invalid content unit: %v", e.Err)
}

func (e *InvalidUnitError) Unwrap() error { return e.Err }

// Is makes invalid payloads match ErrRetryable.
func (e *InvalidUnitError) Is(target error) bool { return target == ErrRetryable }

// Decode validates raw against the unit schema and decodes it, including any
// nested nextContent successors.
func Decode(raw json.RawMessage) (Unit, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return decode(raw, 0)
}

func decode(raw json.RawMessage, depth int) (Unit, error) {
	if depth > maxDepth {
		return nil, &InvalidUnitError{Content: raw, Err: fmt.Errorf("nextContent nested deeper than %d", maxDepth)}
	}

	var head struct {
		Type Kind            `json:"type"`
		Next json.RawMessage `json:"nextContent"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, &InvalidUnitError{Content: raw, Err: err}
	}

	var next Unit
	if len(head.Next) > 0 && string(head.Next) != "null" {
		n, err := decode(head.Next, depth+1)
		if err != nil {
			return nil, err
		}
		next = n
	}

	switch head.Type {
	case KindLesson:
		var u Lesson
		if err := unmarshalUnit(raw, &u); err != nil {
			return nil, err
		}
		u.Next = next
		return u, nil
	case KindParadigmTable:
		var u ParadigmTable
		if err := unmarshalUnit(raw, &u); err != nil {
			return nil, err
		}
		u.Next = next
		return u, nil
	case KindExampleSet:
		var u ExampleSet
		if err := unmarshalUnit(raw, &u); err != nil {
			return nil, err
		}
		u.Next = next
		return u, nil
	case KindMultipleChoice:
		var u MultipleChoice
		if err := unmarshalUnit(raw, &u); err != nil {
			return nil, err
		}
		if u.CorrectAnswer < 0 || u.CorrectAnswer >= len(u.Options) {
			return nil, outOfRange(raw, u.CorrectAnswer, len(u.Options))
		}
		u.Next = next
		return u, nil
	case KindFillBlank:
		var u FillBlank
		if err := unmarshalUnit(raw, &u); err != nil {
			return nil, err
		}
		u.Next = next
		return u, nil
	case KindDialogue:
		var u Dialogue
		if err := unmarshalUnit(raw, &u); err != nil {
			return nil, err
		}
		if u.CorrectAnswer < 0 || u.CorrectAnswer >= len(u.Options) {
			return nil, outOfRange(raw, u.CorrectAnswer, len(u.Options))
		}
		u.Next = next
		return u, nil
	case KindAssessmentResult:
		var u AssessmentResult
		if err := unmarshalUnit(raw, &u); err != nil {
			return nil, err
		}
		u.Next = next
		return u, nil
	case KindText:
		var u Text
		if err := unmarshalUnit(raw, &u); err != nil {
			return nil, err
		}
		u.Next = next
		return u, nil
	case KindCourseEnd:
		var u CourseEnd
		if err := unmarshalUnit(raw, &u); err != nil {
			return nil, err
		}
		u.Next = next
		return u, nil
	default:
		return nil, &InvalidUnitError{Content: raw, Err: fmt.Errorf("unknown unit type %q", head.Type)}
	}
}

func unmarshalUnit(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return &InvalidUnitError{Content: raw, Err: err}
	}
	return nil
}

func outOfRange(raw json.RawMessage, idx, n int) error {
	return &InvalidUnitError{
		Content: raw,
		Err:     fmt.Errorf("correctAnswer %d out of range for %d options", idx, n),
	}
}
