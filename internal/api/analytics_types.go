package api

import "spry/internal/metrics"

// DashboardResponse is the response from GET /v1/analytics/dashboard.
// Burndown covers the active sprint, or the most recently ended one
// when nothing is in flight.
type DashboardResponse struct {
	Window          int                     `json:"window"`
	VelocityHistory []metrics.VelocityPoint `json:"velocity_history"`
	Burndown        []metrics.BurndownPoint `json:"burndown"`
	BurndownSprint  string                  `json:"burndown_sprint,omitempty"`
	CumulativeFlow  []metrics.FlowPoint     `json:"cumulative_flow"`
	Team            metrics.TeamMetrics     `json:"team"`
}
