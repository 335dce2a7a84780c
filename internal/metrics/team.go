package metrics

import (
	"time"

	"spry/internal/models"
)

// Team computes aggregate health figures over the sprints covered by
// the given velocity history. Cycle and lead time consider done tasks
// assigned to those sprints; lead time approximates assignment time
// with the later of task creation and sprint start, since assignment
// itself is not recorded.
func Team(history []VelocityPoint, sprints []models.Sprint, tasks []models.Task) TeamMetrics {
	metrics := TeamMetrics{
		AverageVelocity: averageVelocity(history),
		Predictability:  predictability(history),
	}

	sprintByID := map[string]models.Sprint{}
	totalDays := 0.0
	for _, sprint := range sprints {
		sprintByID[sprint.ID] = sprint
		days := truncateDay(sprint.EndDate).Sub(truncateDay(sprint.StartDate)).Hours()/24 + 1
		if days > 0 {
			totalDays += days
		}
	}

	var completed, defects int
	var cycleSum, leadSum float64
	var cycleCount, leadCount int
	for _, task := range tasks {
		sprint, ok := sprintByID[task.SprintID]
		if !ok {
			continue
		}
		if task.Status != models.StatusDone || task.CompletedAt == nil {
			continue
		}
		completed++
		if task.Type == models.TypeBug {
			defects++
		}
		if cycle := task.CompletedAt.Sub(task.CreatedAt); cycle >= 0 {
			cycleSum += cycle.Hours() / 24
			cycleCount++
		}
		assigned := task.CreatedAt
		if sprint.StartDate.After(assigned) {
			assigned = sprint.StartDate
		}
		if lead := task.CompletedAt.Sub(assigned); lead >= 0 {
			leadSum += lead.Hours() / 24
			leadCount++
		}
	}

	if totalDays > 0 {
		weeks := totalDays / 7
		if weeks > 0 {
			metrics.Throughput = float64(completed) / weeks
		}
	}
	if cycleCount > 0 {
		metrics.CycleTimeDays = cycleSum / float64(cycleCount)
	}
	if leadCount > 0 {
		metrics.LeadTimeDays = leadSum / float64(leadCount)
	}
	if completed > 0 {
		metrics.DefectRate = float64(defects) / float64(completed)
	}
	return metrics
}

func averageVelocity(history []VelocityPoint) float64 {
	if len(history) == 0 {
		return 0
	}
	sum := 0.0
	for _, point := range history {
		sum += point.CompletedPoints
	}
	return sum / float64(len(history))
}

// predictability averages each sprint's completed-over-planned ratio
// as a percentage, capping individual sprints at 100 so overdelivery
// cannot mask a miss elsewhere. Sprints with zero planned points are
// skipped entirely.
func predictability(history []VelocityPoint) float64 {
	var sum float64
	var count int
	for _, point := range history {
		if point.PlannedPoints <= 0 {
			continue
		}
		pct := point.CompletedPoints / point.PlannedPoints * 100
		if pct > 100 {
			pct = 100
		}
		sum += pct
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// SprintsEndedBy filters the history to sprints whose window closed
// on or before now; in-flight sprints distort averages.
func SprintsEndedBy(history []VelocityPoint, sprints []models.Sprint, now time.Time) []VelocityPoint {
	endByID := map[string]time.Time{}
	for _, sprint := range sprints {
		endByID[sprint.ID] = sprint.EndDate
	}
	ended := make([]VelocityPoint, 0, len(history))
	for _, point := range history {
		if end, ok := endByID[point.SprintID]; ok && end.After(now) {
			continue
		}
		ended = append(ended, point)
	}
	return ended
}
