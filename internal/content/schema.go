package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const unitSchemaURL = "schema://content-unit.json"

// unitSchema describes the wire shape of a content unit. Variant-specific
// required fields are expressed with if/then clauses keyed on "type".
var unitSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{
			"type": "string",
			"enum": kindEnum(),
		},
		"showConfidence": map[string]any{"type": "boolean"},
		"nextContent":    map[string]any{"$ref": "#"},
	},
	"required": []any{"type"},
	"allOf": []any{
		requireFor(KindLesson, map[string]any{
			"content": map[string]any{"type": "string"},
		}, "content"),
		requireFor(KindParadigmTable, map[string]any{
			"headers": stringArray(1),
			"rows": map[string]any{
				"type":  "array",
				"items": stringArray(0),
			},
		}, "headers", "rows"),
		requireFor(KindExampleSet, map[string]any{
			"examples": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"latin"},
				},
			},
		}, "examples"),
		requireFor(KindMultipleChoice, map[string]any{
			"question":      map[string]any{"type": "string", "minLength": 1},
			"options":       stringArray(2),
			"correctAnswer": map[string]any{"type": "integer", "minimum": 0},
		}, "question", "options", "correctAnswer"),
		requireFor(KindFillBlank, map[string]any{
			"sentence":       map[string]any{"type": "string", "minLength": 1},
			"correctAnswers": stringArray(1),
		}, "sentence", "correctAnswers"),
		requireFor(KindDialogue, map[string]any{
			"dialogue": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"speaker", "text"},
				},
			},
			"question":      map[string]any{"type": "string", "minLength": 1},
			"options":       stringArray(2),
			"correctAnswer": map[string]any{"type": "integer", "minimum": 0},
		}, "dialogue", "question", "options", "correctAnswer"),
		requireFor(KindAssessmentResult, map[string]any{
			"correct":  map[string]any{"type": "boolean"},
			"feedback": map[string]any{"type": "string"},
		}, "correct"),
		requireFor(KindText, map[string]any{
			"content": map[string]any{"type": "string"},
		}, "content"),
	},
}

func kindEnum() []any {
	kinds := AllKinds()
	out := make([]any, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func stringArray(minItems int) map[string]any {
	return map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string"},
		"minItems": minItems,
	}
}

func requireFor(kind Kind, props map[string]any, required ...string) map[string]any {
	req := make([]any, len(required))
	for i, r := range required {
		req[i] = r
	}
	return map[string]any{
		"if": map[string]any{
			"properties": map[string]any{"type": map[string]any{"const": string(kind)}},
		},
		"then": map[string]any{
			"properties": props,
			"required":   req,
		},
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a parsed JSON value, so round-trip the Go literal.
		defBytes, err := json.Marshal(unitSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal unit schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse unit schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(unitSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(unitSchemaURL)
	})
	return compiled, compileErr
}

// Validate checks raw against the content unit schema.
// Returns *InvalidUnitError on failure.
func Validate(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidUnitError{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledSchema()
	if err != nil {
		return &InvalidUnitError{Content: raw, Err: fmt.Errorf("compile unit schema: %w", err)}
	}

	if err := schema.Validate(parsed); err != nil {
		return &InvalidUnitError{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}
