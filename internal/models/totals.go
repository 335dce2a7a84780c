package models

// SprintTotals summarizes one sprint's commitment and completion.
type SprintTotals struct {
	CommittedPoints float64 `json:"committed_points"`
	CompletedPoints float64 `json:"completed_points"`
	TaskCount       int     `json:"task_count"`
	StoryCount      int     `json:"story_count"`
}

// ComputeSprintTotals derives sprint totals from current entities.
// A story is committed to the sprint when at least one of its tasks
// carries the sprint id, and counts as completed only when every one
// of its tasks is done. Tasks without a story still count toward
// TaskCount but contribute no points.
func ComputeSprintTotals(sprintID string, stories []Story, tasks []Task) SprintTotals {
	var totals SprintTotals

	tasksByStory := map[string][]Task{}
	for _, task := range tasks {
		if task.SprintID == sprintID {
			totals.TaskCount++
		}
		if task.StoryID != "" {
			tasksByStory[task.StoryID] = append(tasksByStory[task.StoryID], task)
		}
	}

	for _, story := range stories {
		storyTasks := tasksByStory[story.ID]
		inSprint := false
		for _, task := range storyTasks {
			if task.SprintID == sprintID {
				inSprint = true
				break
			}
		}
		if !inSprint {
			continue
		}
		totals.StoryCount++
		totals.CommittedPoints += story.Points()
		if FullyDone(storyTasks) {
			totals.CompletedPoints += story.Points()
		}
	}

	return totals
}
