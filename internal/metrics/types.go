// Package metrics derives reporting series from board entities and
// daily snapshots. Every function is pure: the caller injects "now"
// and the entity set, and equal inputs produce equal outputs.
package metrics

import "time"

// PlannedBasis tells how a velocity point's planned figure was obtained.
const (
	// BasisSnapshot means planned points were frozen by a snapshot
	// taken at sprint start.
	BasisSnapshot = "snapshot"
	// BasisCurrent means no sprint-start snapshot was available and
	// planned points were approximated from the current entity set.
	BasisCurrent = "current"
)

// VelocityPoint is one sprint's planned-versus-completed outcome.
type VelocityPoint struct {
	SprintID        string    `json:"sprint_id"`
	SprintName      string    `json:"sprint_name"`
	PlannedPoints   float64   `json:"planned_points"`
	CompletedPoints float64   `json:"completed_points"`
	Basis           string    `json:"basis"`
	Date            time.Time `json:"date"`
}

// BurndownPoint is one business day on a sprint burndown chart.
// Actual is nil for days without an observed snapshot.
type BurndownPoint struct {
	Date   time.Time `json:"date"`
	Ideal  float64   `json:"ideal"`
	Actual *float64  `json:"actual,omitempty"`
}

// FlowPoint is one day of a cumulative flow diagram. Bands are
// stacked running totals in the order done, review, in progress,
// todo, so Done <= Review <= InProgress <= Todo always holds.
type FlowPoint struct {
	Date       time.Time `json:"date"`
	Done       int       `json:"done"`
	Review     int       `json:"review"`
	InProgress int       `json:"in_progress"`
	Todo       int       `json:"todo"`
}

// TeamMetrics aggregates delivery health over a sprint window.
type TeamMetrics struct {
	AverageVelocity float64 `json:"average_velocity"`
	Predictability  float64 `json:"predictability"`
	Throughput      float64 `json:"throughput"`
	CycleTimeDays   float64 `json:"cycle_time_days"`
	LeadTimeDays    float64 `json:"lead_time_days"`
	DefectRate      float64 `json:"defect_rate"`
}
