package queue

import (
	"context"
	"errors"
)

// ErrNoRetry marks a job failure as non-retryable. Messages failing with it
// go straight to the dead letter queue instead of the retry schedule.
var ErrNoRetry = errors.New("queue: no retry")

// Job defines a queue job handler.
type Job interface {
	// Name returns the unique identifier of the job.
	Name() string

	// Type returns the type of message that the job handles.
	Type() string

	// Handle processes the job with the given payload.
	Handle(ctx context.Context, payload interface{}) error
}
