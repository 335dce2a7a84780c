package board

import (
	"context"
	"fmt"
	"log/slog"

	"spry/internal/api"
	"spry/internal/models"
)

// Engine applies validated status changes to single tasks. Any status
// may move to any other status; the board is a flexible Kanban, not a
// strict workflow. Soft per-column limits produce warnings, never
// rejections.
type Engine struct {
	store  *EntityStore
	remote Remote
	limits map[string]int
	logger *slog.Logger
}

// NewEngine creates a transition engine. limits maps column names
// (status strings) to soft WIP limits; absent or non-positive entries
// mean unlimited.
func NewEngine(store *EntityStore, remote Remote, limits map[string]int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  store,
		remote: remote,
		limits: limits,
		logger: logger.With("component", "board.engine"),
	}
}

// TransitionResult is the outcome of one status change.
type TransitionResult struct {
	Task models.Task
	// Changed is false for no-op transitions to the current status.
	Changed bool
	// Warning is set when the destination column exceeds its soft
	// limit after the move. The move has still happened.
	Warning *CapacityWarning
}

// Transition moves one task to a new status. Validation runs before
// any network call: an unknown task yields *NotFoundError and an
// unknown status *InvalidStatusError. The completion timestamp rule
// is applied locally and confirmed by the server's response.
func (e *Engine) Transition(ctx context.Context, taskID string, newStatus models.TaskStatus) (TransitionResult, error) {
	var result TransitionResult

	task, ok := e.store.Task(taskID)
	if !ok {
		return result, &NotFoundError{Kind: "task", ID: taskID}
	}
	if !models.IsValidTaskStatus(newStatus) {
		return result, &InvalidStatusError{TaskID: taskID, Status: string(newStatus)}
	}

	if task.Status == newStatus {
		// Idempotent no-op: completedAt must not move.
		result.Task = task
		return result, nil
	}

	warning := e.checkColumn(newStatus)

	resp, err := e.remote.MoveTask(ctx, taskID, api.TaskMoveRequest{Status: string(newStatus)})
	if err != nil {
		return result, fmt.Errorf("move task %s: %w", taskID, err)
	}

	updated := resp.Task
	e.store.putTask(updated)

	if warning != nil {
		e.logger.Warn("column over soft limit",
			"task", taskID, "column", warning.Column,
			"count", warning.Count, "limit", warning.Limit)
	}

	result.Task = updated
	result.Changed = true
	result.Warning = warning
	return result, nil
}

// checkColumn computes the destination column's post-move count and
// compares it to the configured soft limit.
func (e *Engine) checkColumn(status models.TaskStatus) *CapacityWarning {
	limit, ok := e.limits[string(status)]
	if !ok || limit <= 0 {
		return nil
	}
	count := e.store.CountInStatus(status) + 1
	if count <= limit {
		return nil
	}
	return &CapacityWarning{Column: string(status), Limit: limit, Count: count}
}
