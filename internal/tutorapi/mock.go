package tutorapi

import (
	"context"
	"errors"
	"sync"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
)

// MockCall records one call made to a MockService.
type MockCall struct {
	Method string
	Stage  Stage
	Grade  *GradeRequest
}

// MockService is a deterministic Service for testing. Content and grading
// results are returned from FIFO queues; every call is recorded.
type MockService struct {
	mu sync.Mutex

	Units    []content.Unit
	Grades   []*GradeResult
	Errs     []error
	Prog     *Progress
	Syllabus *Course

	// Gate, when non-nil, blocks content and grading calls until closed.
	Gate chan struct{}

	Calls []MockCall
}

var errMockEmpty = errors.New("mock queue empty")

func (m *MockService) record(c MockCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, c)
	if len(m.Errs) > 0 {
		err := m.Errs[0]
		m.Errs = m.Errs[1:]
		return err
	}
	return nil
}

func (m *MockService) wait(ctx context.Context) error {
	if m.Gate == nil {
		return nil
	}
	select {
	case <-m.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockService) RegisterLearner(_ context.Context, _ Registration) error {
	return m.record(MockCall{Method: "RegisterLearner"})
}

func (m *MockService) GenerateContent(ctx context.Context, _ string, stage Stage) (content.Unit, error) {
	if err := m.record(MockCall{Method: "GenerateContent", Stage: stage}); err != nil {
		return nil, err
	}
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Units) == 0 {
		return nil, &TransportError{Op: "generate content", Err: errMockEmpty}
	}
	u := m.Units[0]
	m.Units = m.Units[1:]
	return u, nil
}

func (m *MockService) SubmitResponse(ctx context.Context, req GradeRequest) (*GradeResult, error) {
	if err := m.record(MockCall{Method: "SubmitResponse", Grade: &req}); err != nil {
		return nil, err
	}
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Grades) == 0 {
		return nil, &TransportError{Op: "submit response", Err: errMockEmpty}
	}
	g := m.Grades[0]
	m.Grades = m.Grades[1:]
	return g, nil
}

func (m *MockService) Progress(_ context.Context, _ string) (*Progress, error) {
	if err := m.record(MockCall{Method: "Progress"}); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Prog == nil {
		return &Progress{}, nil
	}
	p := *m.Prog
	return &p, nil
}

func (m *MockService) Course(_ context.Context, courseID string) (*Course, error) {
	if err := m.record(MockCall{Method: "Course"}); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Syllabus == nil {
		return &Course{ID: courseID}, nil
	}
	return m.Syllabus, nil
}

func (m *MockService) UpdateLearningStyle(_ context.Context, _, _ string) error {
	return m.record(MockCall{Method: "UpdateLearningStyle"})
}

// CallCount returns how many calls of the named method were made.
func (m *MockService) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// LastGrade returns the most recent grading request, or nil.
func (m *MockService) LastGrade() *GradeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Calls) - 1; i >= 0; i-- {
		if m.Calls[i].Grade != nil {
			return m.Calls[i].Grade
		}
	}
	return nil
}

// Stages returns the stages requested so far, in order.
func (m *MockService) Stages() []Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Stage
	for _, c := range m.Calls {
		if c.Method == "GenerateContent" {
			out = append(out, c.Stage)
		}
	}
	return out
}
