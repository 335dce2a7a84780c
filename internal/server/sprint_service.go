package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"spry/internal/api"
	"spry/internal/config"
	"spry/internal/models"
	"spry/internal/store"
)

// SprintService centralizes sprint validation and derived totals.
type SprintService struct {
	store store.ProjectStore
	cfg   *config.Config
}

// NewSprintService constructs a SprintService.
func NewSprintService(projectStore store.ProjectStore, cfg *config.Config) *SprintService {
	return &SprintService{store: projectStore, cfg: cfg}
}

// Create creates a sprint. The start date must precede the end date.
// When no capacity is given the configured default applies.
func (s *SprintService) Create(ctx context.Context, req api.SprintCreateRequest) (api.SprintResponse, error) {
	var resp api.SprintResponse

	if strings.TrimSpace(req.Name) == "" {
		return resp, badRequest(fmt.Errorf("name is required"))
	}

	start, err := parseFlexibleTime(req.StartDate)
	if err != nil {
		return resp, err
	}
	end, err := parseFlexibleTime(req.EndDate)
	if err != nil {
		return resp, err
	}
	if !start.Before(end) {
		return resp, badRequestCode(fmt.Errorf("start_date must be before end_date"), ErrCodeInvalidDateRange)
	}

	capacity := req.Capacity
	if capacity == nil && s.cfg.Sprint.DefaultCapacity > 0 {
		def := s.cfg.Sprint.DefaultCapacity
		capacity = &def
	}
	if capacity != nil {
		if err := validatePoints(*capacity); err != nil {
			return resp, err
		}
	}

	id := strings.TrimSpace(req.ID)
	if id != "" {
		if !validateID(id, "sn") {
			return resp, badRequestCode(fmt.Errorf("invalid id"), ErrCodeInvalidID)
		}
		exists, err := s.store.SprintExists(id)
		if err != nil {
			return resp, err
		}
		if exists {
			return resp, conflictCode(fmt.Errorf("id already exists"), ErrCodeIDExists)
		}
	} else {
		id, err = store.GenerateSprintID(s.store.SprintExists)
		if err != nil {
			return resp, err
		}
	}

	now := time.Now().UTC()
	sprint := &models.Sprint{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Goal:      valueOrEmpty(req.Goal),
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSprint(ctx, sprint); err != nil {
		if isUniqueConstraint(err) {
			return resp, conflictCode(fmt.Errorf("id already exists"), ErrCodeIDExists)
		}
		return resp, err
	}

	resp.Sprint = *sprint
	resp.Active = sprint.Active(now)
	return resp, nil
}

// Get fetches a sprint.
func (s *SprintService) Get(ctx context.Context, id string) (api.SprintResponse, error) {
	var resp api.SprintResponse
	sprint, err := s.store.GetSprint(ctx, id)
	if err != nil {
		return resp, err
	}
	if sprint == nil {
		return resp, notFoundCode(fmt.Errorf("sprint not found: %s", id), ErrCodeSprintNotFound)
	}
	resp.Sprint = *sprint
	resp.Active = sprint.Active(time.Now().UTC())
	return resp, nil
}

// Update applies a partial update, revalidating the date window when
// either bound moves.
func (s *SprintService) Update(ctx context.Context, id string, req api.SprintUpdateRequest) (api.SprintResponse, error) {
	var resp api.SprintResponse

	current, err := s.store.GetSprint(ctx, id)
	if err != nil {
		return resp, err
	}
	if current == nil {
		return resp, notFoundCode(fmt.Errorf("sprint not found: %s", id), ErrCodeSprintNotFound)
	}

	update := store.SprintUpdate{UpdatedAt: time.Now().UTC()}
	start := current.StartDate
	end := current.EndDate

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return resp, badRequest(fmt.Errorf("name cannot be empty"))
		}
		update.Name = &trimmed
	}
	if req.Goal != nil {
		goal := strings.TrimSpace(*req.Goal)
		update.Goal = &goal
	}
	if req.StartDate != nil {
		start, err = parseFlexibleTime(*req.StartDate)
		if err != nil {
			return resp, err
		}
		startUTC := start.UTC()
		update.StartDate = &startUTC
	}
	if req.EndDate != nil {
		end, err = parseFlexibleTime(*req.EndDate)
		if err != nil {
			return resp, err
		}
		endUTC := end.UTC()
		update.EndDate = &endUTC
	}
	if !start.Before(end) {
		return resp, badRequestCode(fmt.Errorf("start_date must be before end_date"), ErrCodeInvalidDateRange)
	}
	if req.Capacity != nil {
		if err := validatePoints(*req.Capacity); err != nil {
			return resp, err
		}
		update.Capacity = req.Capacity
	}

	if err := s.store.UpdateSprint(ctx, id, update); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, notFoundCode(fmt.Errorf("sprint not found: %s", id), ErrCodeSprintNotFound)
		}
		return resp, err
	}
	return s.Get(ctx, id)
}

// List returns all sprints in start-date order.
func (s *SprintService) List(ctx context.Context) ([]api.SprintResponse, error) {
	sprints, err := s.store.ListSprints(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]api.SprintResponse, 0, len(sprints))
	for _, sprint := range sprints {
		out = append(out, api.SprintResponse{Sprint: sprint, Active: sprint.Active(now)})
	}
	return out, nil
}

// Totals derives the sprint's committed and completed figures from
// current entities.
func (s *SprintService) Totals(ctx context.Context, id string) (api.SprintTotalsResponse, error) {
	var resp api.SprintTotalsResponse

	sprint, err := s.store.GetSprint(ctx, id)
	if err != nil {
		return resp, err
	}
	if sprint == nil {
		return resp, notFoundCode(fmt.Errorf("sprint not found: %s", id), ErrCodeSprintNotFound)
	}

	stories, err := s.store.ListStories(ctx, "")
	if err != nil {
		return resp, err
	}
	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		return resp, err
	}

	resp.SprintID = id
	resp.SprintTotals = models.ComputeSprintTotals(id, stories, tasks)
	resp.Capacity = sprint.Capacity
	resp.OverCapacity = sprint.HasCapacity() && resp.CommittedPoints > *sprint.Capacity
	return resp, nil
}
