package models

import "time"

// Epic is a long-running theme that stories may roll up into.
type Epic struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EpicProgress is derived from the epic's stories and their tasks.
type EpicProgress struct {
	TotalStoryPoints     float64 `json:"total_story_points"`
	CompletedStoryPoints float64 `json:"completed_story_points"`
	Progress             float64 `json:"progress"`
}

// ComputeEpicProgress sums story points across the epic's stories and
// credits a story only when all of its tasks are done. tasksByStory may
// omit stories that have no tasks; those never count as completed.
func ComputeEpicProgress(stories []Story, tasksByStory map[string][]Task) EpicProgress {
	var progress EpicProgress
	for _, story := range stories {
		points := story.Points()
		progress.TotalStoryPoints += points
		if FullyDone(tasksByStory[story.ID]) {
			progress.CompletedStoryPoints += points
		}
	}
	if progress.TotalStoryPoints > 0 {
		progress.Progress = progress.CompletedStoryPoints / progress.TotalStoryPoints
	}
	return progress
}
