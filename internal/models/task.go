package models

import "time"

// Task represents a single work item on the board.
type Task struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Status         TaskStatus `json:"status"`
	Type           TaskType   `json:"type"`
	Priority       Priority   `json:"priority"`
	StoryID        string     `json:"story_id,omitempty"`
	SprintID       string     `json:"sprint_id,omitempty"`
	Assignee       string     `json:"assignee,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Done reports whether the task occupies the done column.
func (t Task) Done() bool {
	return t.Status == StatusDone
}

// ApplyStatus moves the task to a new status and keeps the completion
// timestamp consistent: entering done stamps it, leaving done clears it,
// any other change leaves it untouched.
func (t *Task) ApplyStatus(status TaskStatus, now time.Time) {
	wasDone := t.Status == StatusDone
	t.Status = status
	switch {
	case status == StatusDone && !wasDone:
		completed := now
		t.CompletedAt = &completed
	case status != StatusDone && wasDone:
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
}
