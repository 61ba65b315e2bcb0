package layout

import (
	"strings"
	"testing"
)

func TestConceptLabel(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"first-declension", "First Declension"},
		{"verbs_present", "Verbs Present"},
		{"ablative", "Ablative"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ConceptLabel(tt.id); got != tt.want {
			t.Errorf("ConceptLabel(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestBreadcrumbDropsOldestTitles(t *testing.T) {
	titles := []string{"Welcome", "First Declension", "Required Materials"}

	if got := Breadcrumb(titles, 200); got != "Welcome › First Declension › Required Materials" {
		t.Errorf("wide breadcrumb = %q", got)
	}
	got := Breadcrumb(titles, 40)
	if strings.Contains(got, "Welcome") {
		t.Errorf("narrow breadcrumb kept the oldest title: %q", got)
	}
	if !strings.HasSuffix(got, "Required Materials") {
		t.Errorf("narrow breadcrumb lost the newest title: %q", got)
	}
	if got := Breadcrumb(titles, 5); got != "Required Materials" {
		t.Errorf("tiny breadcrumb = %q", got)
	}
}

func TestRenderHeaderShowsStatus(t *testing.T) {
	h := RenderHeader([]string{"Lesson"}, HeaderStatus{Learner: "Julia", Concept: "first-declension", Mastery: 0.456}, 120)
	for _, want := range []string{"Latin Tutor", "Lesson", "First Declension", "46%", "Julia"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}

	h = RenderHeader(nil, HeaderStatus{Concept: "first-declension", Mastery: -1}, 120)
	if strings.Contains(h, "%") {
		t.Error("expected mastery to be hidden")
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) {
		t.Error("expected undersized terminals to be too small")
	}
	if IsTooSmall(80, 24) {
		t.Error("minimum size should fit")
	}
}
