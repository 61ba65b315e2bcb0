package tutorapi

import (
	"context"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/content"
)

// Service is the remote tutoring service. Implementations must be safe for
// concurrent use.
type Service interface {
	RegisterLearner(ctx context.Context, reg Registration) error
	GenerateContent(ctx context.Context, learnerID string, stage Stage) (content.Unit, error)
	SubmitResponse(ctx context.Context, req GradeRequest) (*GradeResult, error)
	Progress(ctx context.Context, learnerID string) (*Progress, error)
	Course(ctx context.Context, courseID string) (*Course, error)
	UpdateLearningStyle(ctx context.Context, learnerID, style string) error
}
