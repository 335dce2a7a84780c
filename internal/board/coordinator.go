package board

import (
	"context"
	"log/slog"

	"spry/internal/api"
	"spry/internal/models"
)

// Coordinator keeps story-to-sprint membership consistent at the task
// level: the sprint reference lives on each task, so moving a story
// means one remote write per task. The writes are not transactional;
// a failure partway through leaves the story partially assigned and
// is reported as such, never hidden.
type Coordinator struct {
	store  *EntityStore
	remote Remote
	logger *slog.Logger
}

// NewCoordinator creates a sprint assignment coordinator.
func NewCoordinator(store *EntityStore, remote Remote, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:  store,
		remote: remote,
		logger: logger.With("component", "board.coordinator"),
	}
}

// AssignmentResult is the outcome of a fully successful assignment.
type AssignmentResult struct {
	StoryID  string
	SprintID string
	// Updated lists the task ids written, in write order.
	Updated []string
	// OverCapacity is set when the destination sprint's committed
	// points exceed its capacity after the move. The assignment has
	// still happened.
	OverCapacity bool
}

// AssignStoryToSprint sets every task of the story to the given
// sprint. An empty sprintID returns the story to the backlog.
// Validation runs before any network call. Updates are issued in
// story-task order; if some succeed and a later one fails, the
// succeeded writes stay applied and the call returns
// *PartialAssignmentError naming both subsets.
func (c *Coordinator) AssignStoryToSprint(ctx context.Context, storyID, sprintID string) (AssignmentResult, error) {
	var result AssignmentResult
	result.StoryID = storyID
	result.SprintID = sprintID

	if _, ok := c.store.Story(storyID); !ok {
		return result, &NotFoundError{Kind: "story", ID: storyID}
	}
	if sprintID != "" {
		if _, ok := c.store.Sprint(sprintID); !ok {
			return result, &NotFoundError{Kind: "sprint", ID: sprintID}
		}
	}

	tasks := c.store.TasksForStory(storyID)
	failed := map[string]error{}
	for _, task := range tasks {
		// Each write is an independent call; a failure does not stop
		// the rest, so a retry only needs the failed subset.
		resp, err := c.remote.UpdateTask(ctx, task.ID, api.TaskUpdateRequest{SprintID: &sprintID})
		if err != nil {
			failed[task.ID] = err
			continue
		}
		c.store.putTask(resp.Task)
		result.Updated = append(result.Updated, task.ID)
	}

	if len(failed) > 0 {
		c.logger.Warn("partial sprint assignment",
			"story", storyID, "sprint", sprintID,
			"updated", len(result.Updated), "failed", len(failed))
		return result, &PartialAssignmentError{
			StoryID:  storyID,
			SprintID: sprintID,
			Updated:  result.Updated,
			Failed:   failed,
		}
	}

	if sprintID != "" {
		sprint, _ := c.store.Sprint(sprintID)
		if sprint.HasCapacity() {
			totals := c.mustTotals(sprintID)
			result.OverCapacity = totals.CommittedPoints > *sprint.Capacity
		}
	}
	return result, nil
}

// SprintTotals derives a sprint's committed and completed figures
// from current store state. Pure; no side effects.
func (c *Coordinator) SprintTotals(sprintID string) (models.SprintTotals, error) {
	if _, ok := c.store.Sprint(sprintID); !ok {
		return models.SprintTotals{}, &NotFoundError{Kind: "sprint", ID: sprintID}
	}
	return c.mustTotals(sprintID), nil
}

func (c *Coordinator) mustTotals(sprintID string) models.SprintTotals {
	return models.ComputeSprintTotals(sprintID, c.store.Stories(), c.store.Tasks())
}

// StoryMembership derives the story's sprint relation from its tasks.
func (c *Coordinator) StoryMembership(storyID string) (models.SprintMembership, string, error) {
	if _, ok := c.store.Story(storyID); !ok {
		return "", "", &NotFoundError{Kind: "story", ID: storyID}
	}
	membership, sprintID := models.Membership(c.store.TasksForStory(storyID))
	return membership, sprintID, nil
}
