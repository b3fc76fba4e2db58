package ports

import (
	"context"

	"unsort/internal/domain"
)

// MemoryService is the external service that ingests notes, summarizes them
// into categories and answers retrieval queries.
type MemoryService interface {
	// Submit sends a note, with the previous note as optional context, and
	// returns the id of the processing task.
	Submit(ctx context.Context, text, priorContext string) (taskID string, err error)

	// PollStatus returns the processing state of a submitted task.
	// A task reported as failed yields an error.
	PollStatus(ctx context.Context, taskID string) (domain.TaskStatus, error)

	// FetchCategories returns the categories the service derived so far.
	FetchCategories(ctx context.Context) ([]domain.RemoteCategory, error)

	// Retrieve runs a retrieval query and returns the matching fragments.
	Retrieve(ctx context.Context, query string) (*domain.Retrieval, error)
}
