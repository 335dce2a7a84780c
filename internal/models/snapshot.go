package models

import "time"

// Snapshot captures the board state for one day. Snapshots feed the
// burndown and cumulative-flow series and preserve each sprint's
// committed points as they stood at capture time.
type Snapshot struct {
	ID              string             `json:"id"`
	Day             time.Time          `json:"day"`
	StatusCounts    map[TaskStatus]int `json:"status_counts"`
	RemainingPoints float64            `json:"remaining_points"`
	RemainingHours  float64            `json:"remaining_hours"`
	SprintCommitted map[string]float64 `json:"sprint_committed,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// TotalTasks returns the task count across all columns.
func (s Snapshot) TotalTasks() int {
	total := 0
	for _, count := range s.StatusCounts {
		total += count
	}
	return total
}
