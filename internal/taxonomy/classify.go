package taxonomy

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Classification is the result of classifying a learning outcome.
type Classification struct {
	ActionVerb  string
	Taxonomy    Name
	Level       Level
	Category    string
	Confidence  float64
	Recommended []Recommendation
	Summary     string
}

const (
	exactConfidence  = 1.0
	prefixConfidence = 0.8
	minPrefixLen     = 3
)

// Verb extraction patterns, tried in order.
var extractors = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:students|learners|participants|you)\s+(?:will|can|should)\s+(?:be\s+able\s+to\s+)?([a-z]+)`),
	regexp.MustCompile(`^([a-z]+)\s+(?:the|a|an|how|when|where|why)\b`),
	regexp.MustCompile(`^([a-z]+)`),
}

var lower = cases.Lower(language.Und)

// Classify maps a learning-outcome statement to a level of the given taxonomy
// and recommends assessment types for it. Unrecognised taxonomy names fall
// back to Bloom's.
func Classify(text string, name Name) Classification {
	if _, ok := tables[name]; !ok {
		name = Blooms
	}

	verb := ExtractVerb(text)
	def, confidence := lookup(tables[name], verb)
	if def == nil {
		return Classification{
			ActionVerb:  verb,
			Taxonomy:    name,
			Level:       LevelUnknown,
			Category:    string(LevelUnknown),
			Recommended: cloneRecs(balanced),
			Summary:     "No recognised action verb; a balanced mix of assessment types is recommended.",
		}
	}

	recs := cloneRecs(def.Recommended)
	return Classification{
		ActionVerb:  verb,
		Taxonomy:    name,
		Level:       def.Level,
		Category:    def.Category,
		Confidence:  confidence,
		Recommended: recs,
		Summary: fmt.Sprintf("%q is a %s outcome (%s); %s assessment is recommended.",
			verb, def.Level, def.Category, top(recs).Type),
	}
}

// ExtractVerb returns the action verb of an outcome statement, or "".
func ExtractVerb(text string) string {
	norm := strings.TrimSpace(lower.String(text))
	for _, re := range extractors {
		if m := re.FindStringSubmatch(norm); m != nil {
			return m[1]
		}
	}
	return ""
}

func lookup(defs []levelDef, verb string) (*levelDef, float64) {
	if verb == "" {
		return nil, 0
	}
	for i := range defs {
		for _, v := range defs[i].Verbs {
			if v == verb {
				return &defs[i], exactConfidence
			}
		}
	}
	if len(verb) < minPrefixLen {
		return nil, 0
	}
	for i := range defs {
		for _, v := range defs[i].Verbs {
			if prefixMatch(verb, v) {
				return &defs[i], prefixConfidence
			}
		}
	}
	return nil, 0
}

// prefixMatch treats inflected forms as matches: "analyzing" matches
// "analyze" through its stem "analyz".
func prefixMatch(verb, known string) bool {
	if strings.HasPrefix(verb, known) || strings.HasPrefix(known, verb) {
		return true
	}
	stem := strings.TrimSuffix(known, "e")
	return len(stem) >= minPrefixLen && stem != known && strings.HasPrefix(verb, stem)
}

func top(recs []Recommendation) Recommendation {
	best := recs[0]
	for _, r := range recs[1:] {
		if r.Weight > best.Weight {
			best = r
		}
	}
	return best
}

func cloneRecs(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	return out
}
