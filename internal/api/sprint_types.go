package api

import "spry/internal/models"

// SprintCreateRequest defines the payload for creating a sprint.
type SprintCreateRequest struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Goal      *string  `json:"goal,omitempty"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Capacity  *float64 `json:"capacity,omitempty"`
}

// SprintUpdateRequest defines the payload for updating a sprint.
type SprintUpdateRequest struct {
	Name      *string  `json:"name,omitempty"`
	Goal      *string  `json:"goal,omitempty"`
	StartDate *string  `json:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty"`
	Capacity  *float64 `json:"capacity,omitempty"`
}

// SprintResponse wraps a sprint.
type SprintResponse struct {
	models.Sprint
	Active bool `json:"active"`
}

// SprintTotalsResponse is the response from GET /v1/sprints/{id}/totals.
type SprintTotalsResponse struct {
	SprintID string `json:"sprint_id"`
	models.SprintTotals
	Capacity     *float64 `json:"capacity,omitempty"`
	OverCapacity bool     `json:"over_capacity"`
}
