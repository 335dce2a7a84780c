package metrics

import (
	"sort"
	"time"

	"spry/internal/models"
)

// CumulativeFlow turns daily snapshots into stacked flow bands, one
// point per snapshot day in chronological order. Each band is a
// running stack: Done counts done tasks, Review adds review on top,
// and so on, which keeps the bands ordered for charting.
func CumulativeFlow(snapshots []models.Snapshot) []FlowPoint {
	ordered := make([]models.Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Day.Before(ordered[j].Day)
	})

	points := make([]FlowPoint, 0, len(ordered))
	for _, snapshot := range ordered {
		done := snapshot.StatusCounts[models.StatusDone]
		review := done + snapshot.StatusCounts[models.StatusReview]
		inProgress := review + snapshot.StatusCounts[models.StatusInProgress]
		todo := inProgress + snapshot.StatusCounts[models.StatusTodo]
		points = append(points, FlowPoint{
			Date:       truncateDay(snapshot.Day),
			Done:       done,
			Review:     review,
			InProgress: inProgress,
			Todo:       todo,
		})
	}
	return points
}

// FlowWindow filters snapshots to [from, to] before stacking. Zero
// bounds leave that side open.
func FlowWindow(snapshots []models.Snapshot, from, to time.Time) []FlowPoint {
	filtered := make([]models.Snapshot, 0, len(snapshots))
	for _, snapshot := range snapshots {
		day := truncateDay(snapshot.Day)
		if !from.IsZero() && day.Before(truncateDay(from)) {
			continue
		}
		if !to.IsZero() && day.After(truncateDay(to)) {
			continue
		}
		filtered = append(filtered, snapshot)
	}
	return CumulativeFlow(filtered)
}
