package tutorapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestClient_RegisterLearner(t *testing.T) {
	var got map[string]any
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/start", r.URL.Path)
		got = decodeBody(t, r)
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	err := c.RegisterLearner(context.Background(), Registration{
		LearnerID:   "l-1",
		LearnerName: "Julia",
		CourseID:    "latin-101",
		Profile:     Profile{StudiedLatinBefore: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "l-1", got["learner_id"])
	assert.Equal(t, "Julia", got["learner_name"])
	assert.Equal(t, "latin-101", got["course_id"])
	profile, ok := got["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, profile["studied_latin_before"])
}

func TestClient_RegisterLearner_Failure(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"course closed"}`))
	})
	err := c.RegisterLearner(context.Background(), Registration{LearnerID: "l-1"})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Error(), "course closed")
	assert.ErrorIs(t, err, ErrRetryable)
}

func TestClient_GenerateContent(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate-content", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "preview", body["stage"])
		_, _ = w.Write([]byte(`{"success":true,"content":{"type":"lesson","title":"Cases","content":"Latin has six cases."}}`))
	})

	u, err := c.GenerateContent(context.Background(), "l-1", StagePreview)
	require.NoError(t, err)
	lesson, ok := u.(content.Lesson)
	require.True(t, ok, "got %T", u)
	assert.Equal(t, "Cases", lesson.Title)
}

func TestClient_GenerateContent_InvalidUnit(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"content":{"type":"hologram"}}`))
	})
	_, err := c.GenerateContent(context.Background(), "l-1", StageStart)
	var inv *content.InvalidUnitError
	assert.ErrorAs(t, err, &inv)
	assert.ErrorIs(t, err, ErrRetryable)
}

func TestClient_SubmitResponse(t *testing.T) {
	var got map[string]any
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submit-response", r.URL.Path)
		got = decodeBody(t, r)
		_, _ = w.Write([]byte(`{
			"next_content": {"type":"assessment-result","correct":true,"feedback":"Recte!"},
			"mastery_score": 0.9,
			"mastery_threshold": 0.85,
			"assessments_count": 3,
			"concept_completed": true
		}`))
	})

	level := 4
	res, err := c.SubmitResponse(context.Background(), GradeRequest{
		LearnerID:      "l-1",
		QuestionType:   "multiple-choice",
		UserAnswer:     1,
		CorrectAnswer:  1,
		Confidence:     &level,
		CurrentConcept: "concept-001",
		QuestionText:   "Which case?",
		Options:        []string{"nom", "acc"},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(4), got["confidence"])
	assert.Equal(t, float64(1), got["user_answer"])
	assert.Equal(t, "concept-001", got["current_concept"])

	assert.Equal(t, content.KindAssessmentResult, res.Next.Kind())
	assert.Equal(t, 0.9, res.Mastery.Score)
	assert.Equal(t, 3, res.Mastery.AssessmentsCount)
	assert.True(t, res.Mastery.ConceptCompleted)
	assert.Equal(t, "concept-001", res.Mastery.ConceptID)
}

func TestClient_SubmitResponse_NullConfidence(t *testing.T) {
	var raw []byte
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"next_content":{"type":"text","content":"ok"}}`))
	})
	_, err := c.SubmitResponse(context.Background(), GradeRequest{LearnerID: "l-1"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"confidence":null`)
}

func TestClient_SubmitResponse_MissingNext(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"mastery_score":0.5}`))
	})
	_, err := c.SubmitResponse(context.Background(), GradeRequest{LearnerID: "l-1"})
	assert.ErrorIs(t, err, ErrMissingNextContent)
	assert.ErrorIs(t, err, ErrRetryable)
}

func TestClient_Progress(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/progress/l-1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"success": true,
			"current_concept": "concept-002",
			"completed_concepts": ["concept-001"],
			"overall_progress": {"concepts_completed": 1, "total_assessments": 7}
		}`))
	})
	p, err := c.Progress(context.Background(), "l-1")
	require.NoError(t, err)
	assert.Equal(t, "concept-002", p.CurrentConcept)
	assert.Equal(t, []string{"concept-001"}, p.CompletedConcepts)
	assert.Equal(t, 7, p.TotalAssessments)
}

func TestClient_Course(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courses/latin-101", r.URL.Path)
		_, _ = w.Write([]byte(`{"title":"Latin","modules":[{"id":"module-1","concepts":[{"id":"concept-001"},{"id":"concept-002"}]}]}`))
	})
	course, err := c.Course(context.Background(), "latin-101")
	require.NoError(t, err)
	assert.Equal(t, "latin-101", course.ID)
	assert.Equal(t, "module-1", course.ModuleFor("concept-002"))
	assert.Equal(t, 2, course.ConceptCount())
}

func TestClient_HTTPErrors(t *testing.T) {
	tests := []struct {
		status    int
		permanent bool
	}{
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
		{http.StatusTooManyRequests, false},
		{http.StatusNotFound, true},
		{http.StatusUnprocessableEntity, true},
	}
	for _, tt := range tests {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(`{"detail":"boom"}`))
		})
		err := c.UpdateLearningStyle(context.Background(), "l-1", "visual")
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, tt.status, svcErr.Status)
		assert.Equal(t, "boom", svcErr.Message)
		assert.Equal(t, tt.permanent, svcErr.Permanent(), "status %d", tt.status)
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	_, err := c.Progress(context.Background(), "l-1")
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.True(t, errors.Is(err, ErrRetryable))
}
