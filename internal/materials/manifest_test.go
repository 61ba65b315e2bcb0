package materials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
courses:
  - id: latin-101
    title: Introductory Latin
    modules:
      - id: module-1
        title: Nouns and Cases
        concepts: [concept-001, concept-002]
        materials:
          - id: wheelock-ch1
            title: Wheelock Chapter 1
            url: https://example.org/wheelock1.pdf
            type: pdf
            requirement: required
            verification:
              method: comprehension-quiz
              questions:
                - question: How many cases does Latin have?
                  type: multiple-choice
                  options: ["5", "6", "7"]
                  answer: "6"
          - id: intro-video
            title: Why Latin?
            url: https://example.org/why.mp4
            type: video
            requirement: optional
            verification:
              method: none
      - id: module-2
        title: Verbs
        concepts: [concept-003]
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	mod, ok := m.Module("latin-101", "module-1")
	require.True(t, ok)
	assert.Len(t, mod.Materials, 2)
	assert.Equal(t, MethodQuiz, mod.Materials[0].Verification.Method)
	assert.Equal(t, "6", mod.Materials[0].Verification.Questions[0].Answer)

	assert.Equal(t, "module-1", m.ModuleFor("latin-101", "concept-002"))
	assert.Equal(t, "module-2", m.ModuleFor("latin-101", "concept-003"))
	assert.Equal(t, "", m.ModuleFor("latin-101", "concept-999"))
	assert.Equal(t, "", m.ModuleFor("greek-101", "concept-001"))
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad type": `
courses:
  - id: c
    modules:
      - id: m
        materials:
          - {id: a, type: podcast, requirement: required, verification: {method: none}}`,
		"quiz without questions": `
courses:
  - id: c
    modules:
      - id: m
        materials:
          - {id: a, type: pdf, requirement: required, verification: {method: comprehension-quiz}}`,
		"duplicate id": `
courses:
  - id: c
    modules:
      - id: m
        materials:
          - {id: a, type: pdf, requirement: optional, verification: {method: none}}
          - {id: a, type: pdf, requirement: optional, verification: {method: none}}`,
		"not yaml": "courses: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadManifest_MissingFileIsEmpty(t *testing.T) {
	m, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, m.Courses)
}

func TestLoadManifest_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, m.Courses, 1)
}

func TestRegistry_Gate(t *testing.T) {
	ctx := context.Background()
	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)
	reg := NewRegistry(m, NewMemoryRepository(), nil)

	locked := reg.Gate("l1", "latin-101", "module-1")
	unlocked, err := locked.IsUnlocked(ctx)
	require.NoError(t, err)
	assert.False(t, unlocked)

	open := reg.Gate("l1", "latin-101", "module-2")
	unlocked, err = open.IsUnlocked(ctx)
	require.NoError(t, err)
	assert.True(t, unlocked, "module without materials")

	statuses, err := locked.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, StateIncomplete, statuses[0].State())
}
