package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"spry/internal/api"
	"spry/internal/models"
	"spry/internal/store"
)

// SnapshotService captures daily board snapshots. One snapshot exists
// per day; recapturing a day replaces it.
type SnapshotService struct {
	store store.ProjectStore
	now   func() time.Time
}

// NewSnapshotService constructs a SnapshotService.
func NewSnapshotService(projectStore store.ProjectStore) *SnapshotService {
	return &SnapshotService{store: projectStore, now: time.Now}
}

// Capture records the board state for one day. An empty day means
// today. Per-sprint committed points are frozen for every sprint
// whose window contains the day; they are the planned-points basis
// for later velocity reporting.
func (s *SnapshotService) Capture(ctx context.Context, rawDay string) (api.SnapshotResponse, error) {
	var resp api.SnapshotResponse

	now := s.now().UTC()
	day := now
	if rawDay != "" {
		parsed, err := parseFlexibleTime(rawDay)
		if err != nil {
			return resp, err
		}
		day = parsed.UTC()
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := s.store.ListSnapshots(ctx, day, day)
	if err != nil {
		return resp, err
	}

	counts, err := s.store.CountTasksByStatus(ctx)
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
	sprints, err := s.store.ListSprints(ctx)
	if err != nil {
		return resp, err
	}

	committed := map[string]float64{}
	var remainingPoints float64
	for _, sprint := range sprints {
		if day.Before(truncateDay(sprint.StartDate)) || day.After(truncateDay(sprint.EndDate)) {
			continue
		}
		totals := models.ComputeSprintTotals(sprint.ID, stories, tasks)
		committed[sprint.ID] = totals.CommittedPoints
		remainingPoints += totals.CommittedPoints - totals.CompletedPoints
	}

	var remainingHours float64
	for _, task := range tasks {
		if task.Done() || task.EstimatedHours == nil {
			continue
		}
		remainingHours += *task.EstimatedHours
	}

	snapshot := &models.Snapshot{
		ID:              uuid.NewString(),
		Day:             day,
		StatusCounts:    counts,
		RemainingPoints: remainingPoints,
		RemainingHours:  remainingHours,
		SprintCommitted: committed,
		CreatedAt:       now,
	}
	if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
		return resp, err
	}

	resp.Snapshot = *snapshot
	resp.Replaced = len(existing) > 0
	return resp, nil
}

// List returns snapshots within an optional day range.
func (s *SnapshotService) List(ctx context.Context, rawFrom, rawTo string) ([]api.SnapshotResponse, error) {
	var from, to time.Time
	var err error
	if rawFrom != "" {
		from, err = parseFlexibleTime(rawFrom)
		if err != nil {
			return nil, err
		}
	}
	if rawTo != "" {
		to, err = parseFlexibleTime(rawTo)
		if err != nil {
			return nil, err
		}
	}

	snapshots, err := s.store.ListSnapshots(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]api.SnapshotResponse, 0, len(snapshots))
	for _, snapshot := range snapshots {
		out = append(out, api.SnapshotResponse{Snapshot: snapshot})
	}
	return out, nil
}

func truncateDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
