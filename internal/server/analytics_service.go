package server

import (
	"context"
	"fmt"
	"time"

	"spry/internal/api"
	"spry/internal/metrics"
	"spry/internal/models"
	"spry/internal/store"
)

const defaultDashboardWindow = 6

// AnalyticsService assembles the dashboard from raw entities and
// snapshots via the metrics package. It is read-only.
type AnalyticsService struct {
	store store.ProjectStore
	now   func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(projectStore store.ProjectStore) *AnalyticsService {
	return &AnalyticsService{store: projectStore, now: time.Now}
}

// Dashboard computes all four series over the last `window` sprints.
// Burndown covers the active sprint, falling back to the most
// recently ended one.
func (s *AnalyticsService) Dashboard(ctx context.Context, window int) (api.DashboardResponse, error) {
	var resp api.DashboardResponse

	if window <= 0 {
		window = defaultDashboardWindow
	}
	now := s.now().UTC()

	sprints, err := s.store.ListSprints(ctx)
	if err != nil {
		return resp, err
	}
	stories, err := s.store.ListStories(ctx, "")
	if err != nil {
		return resp, err
	}
	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		return resp, err
	}
	snapshots, err := s.store.ListSnapshots(ctx, time.Time{}, time.Time{})
	if err != nil {
		return resp, err
	}

	// Scope the report to the last `window` sprints that have begun.
	begun := make([]models.Sprint, 0, len(sprints))
	for _, sprint := range sprints {
		if !sprint.StartDate.After(now) {
			begun = append(begun, sprint)
		}
	}
	if len(begun) > window {
		begun = begun[len(begun)-window:]
	}

	history := metrics.VelocityHistory(begun, stories, tasks, snapshots, now)
	ended := metrics.SprintsEndedBy(history, begun, now)

	// The flow diagram covers the same sprints as the other series.
	var flowFrom time.Time
	if len(begun) > 0 {
		flowFrom = begun[0].StartDate
	}

	resp.Window = window
	resp.VelocityHistory = history
	resp.CumulativeFlow = metrics.FlowWindow(snapshots, flowFrom, now)
	resp.Team = metrics.Team(ended, begun, tasks)

	if burndownSprint, ok := pickBurndownSprint(begun, now); ok {
		resp.BurndownSprint = burndownSprint.ID
		resp.Burndown = metrics.Burndown(burndownSprint, snapshots)
	} else {
		resp.Burndown = []metrics.BurndownPoint{}
	}
	return resp, nil
}

// pickBurndownSprint prefers the active sprint, then the most
// recently ended one.
func pickBurndownSprint(sprints []models.Sprint, now time.Time) (models.Sprint, bool) {
	var lastEnded models.Sprint
	var found bool
	for _, sprint := range sprints {
		if sprint.Active(now) {
			return sprint, true
		}
		if sprint.Ended(now) {
			lastEnded = sprint
			found = true
		}
	}
	return lastEnded, found
}

func dashboardWindow(raw string) (int, error) {
	if raw == "" {
		return defaultDashboardWindow, nil
	}
	var window int
	if _, err := fmt.Sscanf(raw, "%d", &window); err != nil || window <= 0 {
		return 0, badRequestCode(fmt.Errorf("invalid window"), ErrCodeInvalidQuery)
	}
	return window, nil
}
