package taxonomy

import (
	"math"
	"reflect"
	"testing"
)

func sumWeights(recs []Recommendation) float64 {
	var sum float64
	for _, r := range recs {
		sum += r.Weight
	}
	return sum
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		taxonomy   Name
		verb       string
		level      Level
		category   string
		confidence float64
		topType    AssessmentType
	}{
		{"learner lead-in", "Students will analyze the causes of the Punic Wars", Blooms, "analyze", "analyze", "middle-order", 1.0, Written},
		{"be able to", "Learners will be able to compose short Latin letters", Blooms, "compose", "create", "higher-order", 1.0, Written},
		{"leading verb before article", "Describe the uses of the ablative case", Blooms, "describe", "understand", "lower-order", 1.0, Dialogue},
		{"first word", "Recall principal parts", Blooms, "recall", "remember", "lower-order", 1.0, Dialogue},
		{"inflected with dropped e", "Analyzing sentence structure", Blooms, "analyzing", "analyze", "middle-order", 0.8, Written},
		{"inflected suffix", "Identifying noun endings", Blooms, "identifying", "remember", "lower-order", 0.8, Dialogue},
		{"mixed case and padding", "   YOU CAN Conjugate regular verbs  ", Blooms, "conjugate", "apply", "middle-order", 1.0, Applied},
		{"finks reflection", "Students should reflect on their study habits", Finks, "reflect", "learning-how-to-learn", "metacognitive", 1.0, Written},
		{"finks caring", "Participants will value Roman literature", Finks, "value", "caring", "affective", 1.0, Written},
		{"finks integration", "Compare Latin and English word order", Finks, "compare", "integration", "cognitive", 1.0, Written},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, tt.taxonomy)
			if got.ActionVerb != tt.verb {
				t.Errorf("ActionVerb = %q, want %q", got.ActionVerb, tt.verb)
			}
			if got.Level != tt.level {
				t.Errorf("Level = %q, want %q", got.Level, tt.level)
			}
			if got.Category != tt.category {
				t.Errorf("Category = %q, want %q", got.Category, tt.category)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.confidence)
			}
			if top(got.Recommended).Type != tt.topType {
				t.Errorf("top type = %s, want %s", top(got.Recommended).Type, tt.topType)
			}
			if got.Summary == "" {
				t.Error("Summary is empty")
			}
		})
	}
}

func TestClassify_Unknown(t *testing.T) {
	for _, text := range []string{"", "12345", "xylophones everywhere"} {
		got := Classify(text, Blooms)
		if got.Level != LevelUnknown {
			t.Errorf("Classify(%q).Level = %q, want unknown", text, got.Level)
		}
		if got.Confidence != 0 {
			t.Errorf("Classify(%q).Confidence = %v, want 0", text, got.Confidence)
		}
		if math.Abs(sumWeights(got.Recommended)-1.0) > 1e-9 {
			t.Errorf("Classify(%q) weights sum to %v", text, sumWeights(got.Recommended))
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	text := "Students will analyze the causes of the Punic Wars"
	a := Classify(text, Blooms)
	b := Classify(text, Blooms)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated Classify differs:\n%+v\n%+v", a, b)
	}

	// Mutating a result must not leak into later calls.
	a.Recommended[0].Weight = 99
	c := Classify(text, Blooms)
	if !reflect.DeepEqual(b, c) {
		t.Error("result shares recommendation storage with the table")
	}
}

func TestClassify_UnknownTaxonomyFallsBack(t *testing.T) {
	got := Classify("Define the term", Name("solo"))
	if got.Taxonomy != Blooms {
		t.Errorf("Taxonomy = %q, want blooms", got.Taxonomy)
	}
	if got.Level != "remember" {
		t.Errorf("Level = %q, want remember", got.Level)
	}
}

func TestTables_WeightsSumToOne(t *testing.T) {
	for name, defs := range tables {
		if len(defs) != 6 {
			t.Errorf("%s has %d levels, want 6", name, len(defs))
		}
		seen := make(map[string]Level)
		for _, d := range defs {
			if got := sumWeights(d.Recommended); math.Abs(got-1.0) > 1e-9 {
				t.Errorf("%s/%s weights sum to %v", name, d.Level, got)
			}
			for _, v := range d.Verbs {
				if prev, dup := seen[v]; dup {
					t.Errorf("%s: verb %q in both %s and %s", name, v, prev, d.Level)
				}
				seen[v] = d.Level
			}
		}
	}
}

func TestParseName(t *testing.T) {
	if n, err := ParseName("finks"); err != nil || n != Finks {
		t.Errorf("ParseName(finks) = %q, %v", n, err)
	}
	if _, err := ParseName("solo"); err == nil {
		t.Error("expected error for unknown taxonomy")
	}
}
