package metrics

import (
	"time"

	"spry/internal/models"
)

// Burndown builds an ideal-versus-actual series for one sprint. The
// ideal line starts at the committed total and declines evenly across
// the sprint's business days to zero on the final day. The actual
// line reads each day's snapshot of remaining points; days without a
// snapshot carry no actual value.
func Burndown(sprint models.Sprint, snapshots []models.Snapshot) []BurndownPoint {
	days := businessDays(sprint.StartDate, sprint.EndDate)
	if len(days) == 0 {
		return []BurndownPoint{}
	}

	total := committedTotal(sprint, snapshots)

	byDay := map[time.Time]models.Snapshot{}
	for _, snapshot := range snapshots {
		byDay[truncateDay(snapshot.Day)] = snapshot
	}

	points := make([]BurndownPoint, 0, len(days))
	for i, day := range days {
		point := BurndownPoint{Date: day, Ideal: idealRemaining(total, i, len(days))}
		if snapshot, ok := byDay[day]; ok {
			remaining := snapshot.RemainingPoints
			point.Actual = &remaining
		}
		points = append(points, point)
	}
	return points
}

// committedTotal prefers the committed points recorded for the sprint
// by its earliest in-window snapshot, falling back to that snapshot's
// remaining points when the sprint was never recorded.
func committedTotal(sprint models.Sprint, snapshots []models.Snapshot) float64 {
	if committed, basis := plannedAtStart(sprint, snapshots); basis == BasisSnapshot {
		return committed
	}
	start := truncateDay(sprint.StartDate)
	end := truncateDay(sprint.EndDate)
	for _, snapshot := range snapshots {
		day := truncateDay(snapshot.Day)
		if day.Before(start) || day.After(end) {
			continue
		}
		return snapshot.RemainingPoints
	}
	return 0
}

func idealRemaining(total float64, index, count int) float64 {
	if count <= 1 {
		// A one-day sprint has nowhere to decline; it opens at the
		// committed total.
		if index == 0 {
			return total
		}
		return 0
	}
	return total * float64(count-1-index) / float64(count-1)
}

// businessDays lists the Monday-to-Friday days in [start, end].
func businessDays(start, end time.Time) []time.Time {
	startDay := truncateDay(start)
	endDay := truncateDay(end)
	if endDay.Before(startDay) {
		return nil
	}

	days := []time.Time{}
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		days = append(days, day)
	}
	return days
}
