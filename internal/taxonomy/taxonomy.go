package taxonomy

import "fmt"

// Name identifies a learning-outcome taxonomy.
type Name string

const (
	Blooms Name = "blooms"
	Finks  Name = "finks"
)

// ParseName resolves a taxonomy name given on the command line.
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case Blooms, Finks:
		return Name(s), nil
	}
	return "", fmt.Errorf("unknown taxonomy %q (want %q or %q)", s, Blooms, Finks)
}

// Level is one tier of a taxonomy.
type Level string

// LevelUnknown is reported when no action verb matches the taxonomy.
const LevelUnknown Level = "unknown"

// AssessmentType is a recommended mode of assessment.
type AssessmentType string

const (
	Dialogue AssessmentType = "dialogue"
	Written  AssessmentType = "written"
	Applied  AssessmentType = "applied"
)

// Recommendation weights one assessment type for a level.
type Recommendation struct {
	Type      AssessmentType
	Weight    float64
	Rationale string
}

// levelDef is one row of a taxonomy table.
type levelDef struct {
	Level       Level
	Category    string
	Verbs       []string
	Recommended []Recommendation
}

var tables = map[Name][]levelDef{
	Blooms: {
		{
			Level:    "remember",
			Category: "lower-order",
			Verbs:    []string{"remember", "recall", "recognize", "list", "define", "identify", "name", "memorize", "repeat", "recite", "label", "state"},
			Recommended: []Recommendation{
				{Dialogue, 0.7, "Quick oral recall checks confirm retrieval."},
				{Applied, 0.2, "Short drills reinforce the recalled forms."},
				{Written, 0.1, "A brief written check records retention."},
			},
		},
		{
			Level:    "understand",
			Category: "lower-order",
			Verbs:    []string{"understand", "explain", "describe", "summarize", "paraphrase", "interpret", "translate", "discuss", "exemplify", "infer"},
			Recommended: []Recommendation{
				{Dialogue, 0.6, "Explaining in conversation exposes gaps in comprehension."},
				{Written, 0.2, "A written summary shows the idea in the learner's own words."},
				{Applied, 0.2, "Worked examples test whether the explanation transfers."},
			},
		},
		{
			Level:    "apply",
			Category: "middle-order",
			Verbs:    []string{"apply", "use", "demonstrate", "solve", "implement", "execute", "conjugate", "decline", "compute", "employ", "practice"},
			Recommended: []Recommendation{
				{Applied, 0.5, "Performing the skill on new material is the direct evidence."},
				{Dialogue, 0.4, "Talking through each step reveals the procedure used."},
				{Written, 0.1, "A short written exercise documents the result."},
			},
		},
		{
			Level:    "analyze",
			Category: "middle-order",
			Verbs:    []string{"analyze", "compare", "contrast", "differentiate", "distinguish", "examine", "organize", "parse", "categorize", "deconstruct"},
			Recommended: []Recommendation{
				{Written, 0.4, "Structured written analysis shows how the parts relate."},
				{Applied, 0.4, "Parsing real passages exercises the analysis."},
				{Dialogue, 0.2, "Discussion probes the reasoning behind the analysis."},
			},
		},
		{
			Level:    "evaluate",
			Category: "higher-order",
			Verbs:    []string{"evaluate", "assess", "judge", "critique", "justify", "defend", "argue", "appraise", "prioritize"},
			Recommended: []Recommendation{
				{Written, 0.7, "A reasoned written argument best shows judgement."},
				{Dialogue, 0.2, "Defending the position orally tests its strength."},
				{Applied, 0.1, "Applying the criteria to a case grounds the judgement."},
			},
		},
		{
			Level:    "create",
			Category: "higher-order",
			Verbs:    []string{"create", "design", "compose", "construct", "develop", "formulate", "produce", "write", "invent", "generate", "plan"},
			Recommended: []Recommendation{
				{Written, 0.7, "Original written work is the product being assessed."},
				{Applied, 0.2, "Building an artifact shows the skill in use."},
				{Dialogue, 0.1, "A short conversation clarifies intent and choices."},
			},
		},
	},
	Finks: {
		{
			Level:    "foundational",
			Category: "cognitive",
			Verbs:    []string{"know", "remember", "recall", "identify", "define", "describe", "explain", "list", "recognize", "understand"},
			Recommended: []Recommendation{
				{Dialogue, 0.7, "Conversation quickly checks core knowledge."},
				{Applied, 0.2, "Short exercises confirm the knowledge is usable."},
				{Written, 0.1, "A brief written check records the basics."},
			},
		},
		{
			Level:    "application",
			Category: "cognitive",
			Verbs:    []string{"apply", "use", "solve", "perform", "practice", "translate", "conjugate", "decline", "demonstrate", "analyze", "evaluate", "create"},
			Recommended: []Recommendation{
				{Applied, 0.5, "Doing the task is the clearest evidence of skill."},
				{Dialogue, 0.4, "Talking through the work shows the thinking behind it."},
				{Written, 0.1, "A short write-up documents the outcome."},
			},
		},
		{
			Level:    "integration",
			Category: "cognitive",
			Verbs:    []string{"connect", "relate", "integrate", "compare", "contrast", "combine", "synthesize", "link", "associate"},
			Recommended: []Recommendation{
				{Written, 0.4, "Written synthesis makes the connections explicit."},
				{Applied, 0.4, "Cross-topic tasks test whether ideas combine."},
				{Dialogue, 0.2, "Discussion surfaces links the learner has made."},
			},
		},
		{
			Level:    "human",
			Category: "affective",
			Verbs:    []string{"collaborate", "communicate", "interact", "empathize", "cooperate", "lead", "share"},
			Recommended: []Recommendation{
				{Written, 0.7, "Reflective writing captures personal and social growth."},
				{Dialogue, 0.2, "Conversation shows how the learner engages others."},
				{Applied, 0.1, "Group tasks provide a context for the behaviour."},
			},
		},
		{
			Level:    "caring",
			Category: "affective",
			Verbs:    []string{"value", "appreciate", "care", "commit", "embrace", "enjoy", "cherish", "respect"},
			Recommended: []Recommendation{
				{Written, 0.7, "Reflective writing reveals changes in values and interest."},
				{Dialogue, 0.2, "Open conversation lets the learner voice attitudes."},
				{Applied, 0.1, "Voluntary practice is indirect evidence of interest."},
			},
		},
		{
			Level:    "learning-how-to-learn",
			Category: "metacognitive",
			Verbs:    []string{"reflect", "monitor", "inquire", "investigate", "research", "question", "explore", "plan"},
			Recommended: []Recommendation{
				{Written, 0.8, "Learning journals make strategies visible."},
				{Dialogue, 0.1, "Coaching conversations check self-regulation."},
				{Applied, 0.1, "Self-directed tasks exercise the strategy."},
			},
		},
	},
}

var balanced = []Recommendation{
	{Dialogue, 0.34, "No level was identified, so conversation covers the basics."},
	{Written, 0.33, "Written work gives a general record of learning."},
	{Applied, 0.33, "Practical tasks show what the learner can do."},
}

// Levels returns the level names of a taxonomy in ascending order.
func Levels(name Name) []Level {
	defs := tables[name]
	out := make([]Level, len(defs))
	for i, d := range defs {
		out[i] = d.Level
	}
	return out
}
