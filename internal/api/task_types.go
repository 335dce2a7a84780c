package api

import "spry/internal/models"

// TaskCreateRequest defines the payload for creating a task.
type TaskCreateRequest struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Status         *string  `json:"status,omitempty"`
	Type           *string  `json:"type,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	StoryID        *string  `json:"story_id,omitempty"`
	SprintID       *string  `json:"sprint_id,omitempty"`
	Assignee       *string  `json:"assignee,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
}

// TaskUpdateRequest defines the payload for updating a task. Nil
// fields are left untouched; empty strings clear the association.
type TaskUpdateRequest struct {
	Name           *string  `json:"name,omitempty"`
	Status         *string  `json:"status,omitempty"`
	Type           *string  `json:"type,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	StoryID        *string  `json:"story_id,omitempty"`
	SprintID       *string  `json:"sprint_id,omitempty"`
	Assignee       *string  `json:"assignee,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`
}

// TaskMoveRequest asks the server to transition a task's status.
type TaskMoveRequest struct {
	Status string `json:"status"`
}

// TaskResponse wraps a task with any advisory warnings produced by
// the operation that returned it.
type TaskResponse struct {
	models.Task
	Warnings []string `json:"warnings,omitempty"`
}
