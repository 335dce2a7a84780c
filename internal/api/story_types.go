package api

import "spry/internal/models"

// StoryCreateRequest defines the payload for creating a story.
type StoryCreateRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	StoryPoints *float64 `json:"story_points,omitempty"`
	EpicID      *string  `json:"epic_id,omitempty"`
}

// StoryUpdateRequest defines the payload for updating a story.
type StoryUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	StoryPoints *float64 `json:"story_points,omitempty"`
	EpicID      *string  `json:"epic_id,omitempty"`
}

// StoryResponse wraps a story with its derived sprint membership.
type StoryResponse struct {
	models.Story
	Membership string `json:"membership,omitempty"`
	SprintID   string `json:"sprint_id,omitempty"`
}

// AssignStoryRequest moves all of a story's tasks into a sprint.
type AssignStoryRequest struct {
	SprintID string `json:"sprint_id"`
}

// AssignStoryResponse reports the outcome of a story assignment.
// Updated and Failed list task ids; a non-empty Failed list means the
// assignment was partial.
type AssignStoryResponse struct {
	StoryID      string   `json:"story_id"`
	SprintID     string   `json:"sprint_id"`
	Updated      []string `json:"updated"`
	Failed       []string `json:"failed,omitempty"`
	OverCapacity bool     `json:"over_capacity,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}
