package metrics

import (
	"sort"
	"time"

	"spry/internal/models"
)

// VelocityHistory produces one point per sprint in chronological
// order. Planned points come from a snapshot taken on or just after
// sprint start when one exists; otherwise the current committed
// points stand in and the point is marked with BasisCurrent.
// Completed points reflect the current entity set, which matches the
// sprint's final state once it has ended.
func VelocityHistory(sprints []models.Sprint, stories []models.Story, tasks []models.Task, snapshots []models.Snapshot, now time.Time) []VelocityPoint {
	ordered := make([]models.Sprint, len(sprints))
	copy(ordered, sprints)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].StartDate.Equal(ordered[j].StartDate) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].StartDate.Before(ordered[j].StartDate)
	})

	points := make([]VelocityPoint, 0, len(ordered))
	for _, sprint := range ordered {
		totals := models.ComputeSprintTotals(sprint.ID, stories, tasks)

		planned, basis := plannedAtStart(sprint, snapshots)
		if basis == BasisCurrent {
			planned = totals.CommittedPoints
		}

		date := sprint.EndDate
		if date.After(now) {
			date = now
		}

		points = append(points, VelocityPoint{
			SprintID:        sprint.ID,
			SprintName:      sprint.Name,
			PlannedPoints:   planned,
			CompletedPoints: totals.CompletedPoints,
			Basis:           basis,
			Date:            date,
		})
	}
	return points
}

// plannedAtStart looks for the earliest snapshot within the sprint
// window that recorded this sprint's committed points.
func plannedAtStart(sprint models.Sprint, snapshots []models.Snapshot) (float64, string) {
	for _, snapshot := range snapshots {
		if snapshot.Day.Before(truncateDay(sprint.StartDate)) {
			continue
		}
		if snapshot.Day.After(truncateDay(sprint.EndDate)) {
			break
		}
		if committed, ok := snapshot.SprintCommitted[sprint.ID]; ok {
			return committed, BasisSnapshot
		}
	}
	return 0, BasisCurrent
}

func truncateDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
