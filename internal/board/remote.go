package board

import (
	"context"
	"net/url"

	"spry/internal/api"
)

// Remote is the slice of the API client the board engine needs. The
// engine validates locally and then writes one task at a time; the
// server owns persistence and runs the same completion-timestamp rule
// on its side.
type Remote interface {
	ListTasks(ctx context.Context, query url.Values) ([]api.TaskResponse, error)
	ListStories(ctx context.Context, query url.Values) ([]api.StoryResponse, error)
	ListSprints(ctx context.Context, query url.Values) ([]api.SprintResponse, error)
	UpdateTask(ctx context.Context, id string, req api.TaskUpdateRequest) (api.TaskResponse, error)
	MoveTask(ctx context.Context, id string, req api.TaskMoveRequest) (api.TaskResponse, error)
}

// EpicLister is the optional remote surface for epics. Refreshes pull
// epics only when the remote offers them; the engine and coordinator
// never write epics.
type EpicLister interface {
	ListEpics(ctx context.Context) ([]api.EpicResponse, error)
}

var (
	_ Remote     = (*api.Client)(nil)
	_ EpicLister = (*api.Client)(nil)
)
