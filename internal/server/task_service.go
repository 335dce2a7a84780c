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

const (
	defaultStatus   = models.StatusTodo
	defaultType     = models.TypeFeature
	defaultPriority = models.PriorityMedium
)

// TaskService centralizes task validation and defaults. Status writes
// go through Move so the completion timestamp rule lives in one
// place.
type TaskService struct {
	store store.ProjectStore
	cfg   *config.Config
}

// NewTaskService constructs a TaskService.
func NewTaskService(projectStore store.ProjectStore, cfg *config.Config) *TaskService {
	return &TaskService{store: projectStore, cfg: cfg}
}

// Create creates a task from a request.
func (s *TaskService) Create(ctx context.Context, req api.TaskCreateRequest) (api.TaskResponse, error) {
	var resp api.TaskResponse

	if strings.TrimSpace(req.Name) == "" {
		return resp, badRequest(fmt.Errorf("name is required"))
	}

	prefix, err := normalizePrefix(s.cfg.ProjectPrefix)
	if err != nil {
		return resp, err
	}

	status := defaultStatus
	if req.Status != nil {
		status, err = normalizeStatus(*req.Status)
		if err != nil {
			return resp, err
		}
	}

	taskType := defaultType
	if req.Type != nil {
		taskType, err = normalizeType(*req.Type)
		if err != nil {
			return resp, err
		}
	}

	priority := defaultPriority
	if req.Priority != nil {
		priority, err = normalizePriority(*req.Priority)
		if err != nil {
			return resp, err
		}
	}

	id := strings.TrimSpace(req.ID)
	if id != "" {
		if !validateID(id, prefix) {
			return resp, badRequestCode(fmt.Errorf("invalid id"), ErrCodeInvalidID)
		}
		exists, err := s.store.TaskExists(id)
		if err != nil {
			return resp, err
		}
		if exists {
			return resp, conflictCode(fmt.Errorf("id already exists"), ErrCodeIDExists)
		}
	} else {
		id, err = store.GenerateID(prefix, s.store.TaskExists)
		if err != nil {
			return resp, err
		}
	}

	storyID, err := s.refStoryID(req.StoryID)
	if err != nil {
		return resp, err
	}
	sprintID, err := s.refSprintID(req.SprintID)
	if err != nil {
		return resp, err
	}
	if req.EstimatedHours != nil {
		if err := validateHours(*req.EstimatedHours); err != nil {
			return resp, err
		}
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:             id,
		Name:           strings.TrimSpace(req.Name),
		Status:         status,
		Type:           taskType,
		Priority:       priority,
		StoryID:        storyID,
		SprintID:       sprintID,
		Assignee:       valueOrEmpty(req.Assignee),
		EstimatedHours: req.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if status == models.StatusDone {
		task.CompletedAt = &now
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		if isUniqueConstraint(err) {
			return resp, conflictCode(fmt.Errorf("id already exists"), ErrCodeIDExists)
		}
		return resp, err
	}

	resp.Task = *task
	return resp, nil
}

// Get fetches a single task.
func (s *TaskService) Get(ctx context.Context, id string) (api.TaskResponse, error) {
	var resp api.TaskResponse
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return resp, err
	}
	if task == nil {
		return resp, notFoundCode(fmt.Errorf("task not found: %s", id), ErrCodeTaskNotFound)
	}
	resp.Task = *task
	return resp, nil
}

// Update applies a partial update and returns the updated task.
func (s *TaskService) Update(ctx context.Context, id string, req api.TaskUpdateRequest) (api.TaskResponse, error) {
	var resp api.TaskResponse

	update := store.TaskUpdate{UpdatedAt: time.Now().UTC()}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return resp, badRequest(fmt.Errorf("name cannot be empty"))
		}
		update.Name = &trimmed
	}
	if req.Status != nil {
		// Status changes carry the completion timestamp rule; they go
		// through Move instead.
		return resp, badRequest(fmt.Errorf("use the move endpoint to change status"))
	}
	if req.Type != nil {
		taskType, err := normalizeType(*req.Type)
		if err != nil {
			return resp, err
		}
		update.Type = &taskType
	}
	if req.Priority != nil {
		priority, err := normalizePriority(*req.Priority)
		if err != nil {
			return resp, err
		}
		update.Priority = &priority
	}
	if req.StoryID != nil {
		storyID, err := s.refStoryID(req.StoryID)
		if err != nil {
			return resp, err
		}
		update.StoryID = &storyID
	}
	if req.SprintID != nil {
		sprintID, err := s.refSprintID(req.SprintID)
		if err != nil {
			return resp, err
		}
		update.SprintID = &sprintID
	}
	if req.Assignee != nil {
		assignee := strings.TrimSpace(*req.Assignee)
		update.Assignee = &assignee
	}
	if req.EstimatedHours != nil {
		if err := validateHours(*req.EstimatedHours); err != nil {
			return resp, err
		}
		update.EstimatedHours = req.EstimatedHours
	}
	if req.ActualHours != nil {
		if err := validateHours(*req.ActualHours); err != nil {
			return resp, err
		}
		update.ActualHours = req.ActualHours
	}

	if err := s.store.UpdateTask(ctx, id, update); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, notFoundCode(fmt.Errorf("task not found: %s", id), ErrCodeTaskNotFound)
		}
		return resp, err
	}
	return s.Get(ctx, id)
}

// Move transitions a task's status, applying the completion timestamp
// rule and reporting a soft WIP warning when the destination column
// exceeds its configured limit.
func (s *TaskService) Move(ctx context.Context, id, rawStatus string) (api.TaskResponse, error) {
	var resp api.TaskResponse

	status, err := normalizeStatus(rawStatus)
	if err != nil {
		return resp, err
	}

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return resp, err
	}
	if task == nil {
		return resp, notFoundCode(fmt.Errorf("task not found: %s", id), ErrCodeTaskNotFound)
	}

	if task.Status == status {
		resp.Task = *task
		return resp, nil
	}

	var warnings []string
	if limit := s.cfg.WIPLimit(string(status)); limit > 0 {
		count, err := s.store.CountTasksInStatus(ctx, status)
		if err != nil {
			return resp, err
		}
		if count+1 > limit {
			warnings = append(warnings, fmt.Sprintf("%s holds %d tasks, limit %d", status, count+1, limit))
		}
	}

	now := time.Now().UTC()
	task.ApplyStatus(status, now)

	update := store.TaskUpdate{Status: &task.Status, UpdatedAt: now}
	if task.CompletedAt != nil {
		update.CompletedAt = task.CompletedAt
	} else {
		update.ClearCompleted = true
	}
	if err := s.store.UpdateTask(ctx, id, update); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, notFoundCode(fmt.Errorf("task not found: %s", id), ErrCodeTaskNotFound)
		}
		return resp, err
	}

	resp.Task = *task
	resp.Warnings = warnings
	return resp, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFoundCode(fmt.Errorf("task not found: %s", id), ErrCodeTaskNotFound)
	}
	return nil
}

// List returns tasks narrowed by a filter.
func (s *TaskService) List(ctx context.Context, filter store.TaskFilter) ([]api.TaskResponse, error) {
	for _, status := range filter.Statuses {
		if _, err := normalizeStatus(status); err != nil {
			return nil, err
		}
	}
	tasks, err := s.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]api.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, api.TaskResponse{Task: task})
	}
	return out, nil
}

// refStoryID validates an optional story reference. Empty means "no
// story" and is allowed; a non-empty id must exist.
func (s *TaskService) refStoryID(ptr *string) (string, error) {
	id := valueOrEmpty(ptr)
	if id == "" {
		return "", nil
	}
	if !validateID(id, "st") {
		return "", badRequestCode(fmt.Errorf("invalid story_id"), ErrCodeInvalidID)
	}
	exists, err := s.store.StoryExists(id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", notFoundCode(fmt.Errorf("story not found: %s", id), ErrCodeStoryNotFound)
	}
	return id, nil
}

func (s *TaskService) refSprintID(ptr *string) (string, error) {
	id := valueOrEmpty(ptr)
	if id == "" {
		return "", nil
	}
	if !validateID(id, "sn") {
		return "", badRequestCode(fmt.Errorf("invalid sprint_id"), ErrCodeInvalidID)
	}
	exists, err := s.store.SprintExists(id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", notFoundCode(fmt.Errorf("sprint not found: %s", id), ErrCodeSprintNotFound)
	}
	return id, nil
}
