package api

import "spry/internal/models"

// EpicCreateRequest defines the payload for creating an epic.
type EpicCreateRequest struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// EpicResponse wraps an epic with its rollup progress.
type EpicResponse struct {
	models.Epic
	Progress *models.EpicProgress `json:"progress,omitempty"`
}
