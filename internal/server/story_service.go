package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"spry/internal/api"
	"spry/internal/models"
	"spry/internal/store"
)

// StoryService centralizes story validation and derived membership.
type StoryService struct {
	store store.ProjectStore
}

// NewStoryService constructs a StoryService.
func NewStoryService(projectStore store.ProjectStore) *StoryService {
	return &StoryService{store: projectStore}
}

// Create creates a story from a request.
func (s *StoryService) Create(ctx context.Context, req api.StoryCreateRequest) (api.StoryResponse, error) {
	var resp api.StoryResponse

	if strings.TrimSpace(req.Name) == "" {
		return resp, badRequest(fmt.Errorf("name is required"))
	}

	priority := defaultPriority
	var err error
	if req.Priority != nil {
		priority, err = normalizePriority(*req.Priority)
		if err != nil {
			return resp, err
		}
	}
	if req.StoryPoints != nil {
		if err := validatePoints(*req.StoryPoints); err != nil {
			return resp, err
		}
	}

	epicID := valueOrEmpty(req.EpicID)
	if epicID != "" {
		if !validateID(epicID, "ep") {
			return resp, badRequestCode(fmt.Errorf("invalid epic_id"), ErrCodeInvalidID)
		}
		exists, err := s.store.EpicExists(epicID)
		if err != nil {
			return resp, err
		}
		if !exists {
			return resp, notFoundCode(fmt.Errorf("epic not found: %s", epicID), ErrCodeEpicNotFound)
		}
	}

	id := strings.TrimSpace(req.ID)
	if id != "" {
		if !validateID(id, "st") {
			return resp, badRequestCode(fmt.Errorf("invalid id"), ErrCodeInvalidID)
		}
		exists, err := s.store.StoryExists(id)
		if err != nil {
			return resp, err
		}
		if exists {
			return resp, conflictCode(fmt.Errorf("id already exists"), ErrCodeIDExists)
		}
	} else {
		id, err = store.GenerateStoryID(s.store.StoryExists)
		if err != nil {
			return resp, err
		}
	}

	now := time.Now().UTC()
	story := &models.Story{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		StoryPoints: req.StoryPoints,
		EpicID:      epicID,
		Priority:    priority,
		Description: valueOrEmpty(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateStory(ctx, story); err != nil {
		if isUniqueConstraint(err) {
			return resp, conflictCode(fmt.Errorf("id already exists"), ErrCodeIDExists)
		}
		return resp, err
	}

	resp.Story = *story
	resp.Membership = string(models.MembershipBacklog)
	return resp, nil
}

// Get fetches a story with its derived sprint membership.
func (s *StoryService) Get(ctx context.Context, id string) (api.StoryResponse, error) {
	var resp api.StoryResponse
	story, err := s.store.GetStory(ctx, id)
	if err != nil {
		return resp, err
	}
	if story == nil {
		return resp, notFoundCode(fmt.Errorf("story not found: %s", id), ErrCodeStoryNotFound)
	}

	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{StoryID: id})
	if err != nil {
		return resp, err
	}
	membership, sprintID := models.Membership(tasks)

	resp.Story = *story
	resp.Membership = string(membership)
	resp.SprintID = sprintID
	return resp, nil
}

// Update applies a partial update.
func (s *StoryService) Update(ctx context.Context, id string, req api.StoryUpdateRequest) (api.StoryResponse, error) {
	var resp api.StoryResponse

	update := store.StoryUpdate{UpdatedAt: time.Now().UTC()}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return resp, badRequest(fmt.Errorf("name cannot be empty"))
		}
		update.Name = &trimmed
	}
	if req.Priority != nil {
		priority, err := normalizePriority(*req.Priority)
		if err != nil {
			return resp, err
		}
		update.Priority = &priority
	}
	if req.StoryPoints != nil {
		if err := validatePoints(*req.StoryPoints); err != nil {
			return resp, err
		}
		update.StoryPoints = req.StoryPoints
	}
	if req.EpicID != nil {
		epicID := strings.TrimSpace(*req.EpicID)
		if epicID != "" {
			if !validateID(epicID, "ep") {
				return resp, badRequestCode(fmt.Errorf("invalid epic_id"), ErrCodeInvalidID)
			}
			exists, err := s.store.EpicExists(epicID)
			if err != nil {
				return resp, err
			}
			if !exists {
				return resp, notFoundCode(fmt.Errorf("epic not found: %s", epicID), ErrCodeEpicNotFound)
			}
		}
		update.EpicID = &epicID
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		update.Description = &description
	}

	if err := s.store.UpdateStory(ctx, id, update); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, notFoundCode(fmt.Errorf("story not found: %s", id), ErrCodeStoryNotFound)
		}
		return resp, err
	}
	return s.Get(ctx, id)
}

// Delete removes a story. Its tasks keep existing with the story
// reference cleared by the schema's ON DELETE SET NULL.
func (s *StoryService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteStory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFoundCode(fmt.Errorf("story not found: %s", id), ErrCodeStoryNotFound)
	}
	return nil
}

// List returns stories, optionally narrowed to one epic.
func (s *StoryService) List(ctx context.Context, epicID string) ([]api.StoryResponse, error) {
	if epicID != "" && !validateID(epicID, "ep") {
		return nil, badRequestCode(fmt.Errorf("invalid epic_id"), ErrCodeInvalidID)
	}
	stories, err := s.store.ListStories(ctx, epicID)
	if err != nil {
		return nil, err
	}

	out := make([]api.StoryResponse, 0, len(stories))
	for _, story := range stories {
		tasks, err := s.store.ListTasks(ctx, store.TaskFilter{StoryID: story.ID})
		if err != nil {
			return nil, err
		}
		membership, sprintID := models.Membership(tasks)
		out = append(out, api.StoryResponse{
			Story:      story,
			Membership: string(membership),
			SprintID:   sprintID,
		})
	}
	return out, nil
}

// Tasks lists the story's tasks.
func (s *StoryService) Tasks(ctx context.Context, id string) ([]api.TaskResponse, error) {
	exists, err := s.store.StoryExists(id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundCode(fmt.Errorf("story not found: %s", id), ErrCodeStoryNotFound)
	}
	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{StoryID: id})
	if err != nil {
		return nil, err
	}
	out := make([]api.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, api.TaskResponse{Task: task})
	}
	return out, nil
}

// Assign moves every task of the story into a sprint; an empty
// sprintID returns them to the backlog. Each task write is
// independent: a failure partway is reported with both subsets and
// succeeded writes stay applied.
func (s *StoryService) Assign(ctx context.Context, id, sprintID string) (api.AssignStoryResponse, error) {
	resp := api.AssignStoryResponse{StoryID: id, SprintID: sprintID, Updated: []string{}}

	exists, err := s.store.StoryExists(id)
	if err != nil {
		return resp, err
	}
	if !exists {
		return resp, notFoundCode(fmt.Errorf("story not found: %s", id), ErrCodeStoryNotFound)
	}

	var sprint *models.Sprint
	if sprintID != "" {
		if !validateID(sprintID, "sn") {
			return resp, badRequestCode(fmt.Errorf("invalid sprint_id"), ErrCodeInvalidID)
		}
		sprint, err = s.store.GetSprint(ctx, sprintID)
		if err != nil {
			return resp, err
		}
		if sprint == nil {
			return resp, notFoundCode(fmt.Errorf("sprint not found: %s", sprintID), ErrCodeSprintNotFound)
		}
	}

	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{StoryID: id})
	if err != nil {
		return resp, err
	}

	now := time.Now().UTC()
	for _, task := range tasks {
		update := store.TaskUpdate{SprintID: &sprintID, UpdatedAt: now}
		if err := s.store.UpdateTask(ctx, task.ID, update); err != nil {
			resp.Failed = append(resp.Failed, task.ID)
			continue
		}
		resp.Updated = append(resp.Updated, task.ID)
	}

	if sprint != nil && sprint.HasCapacity() {
		totals, err := s.totals(ctx, sprintID)
		if err == nil && totals.CommittedPoints > *sprint.Capacity {
			resp.OverCapacity = true
			resp.Warnings = append(resp.Warnings, fmt.Sprintf(
				"sprint %s committed %.1f points over capacity %.1f",
				sprintID, totals.CommittedPoints, *sprint.Capacity))
		}
	}
	return resp, nil
}

func (s *StoryService) totals(ctx context.Context, sprintID string) (models.SprintTotals, error) {
	stories, err := s.store.ListStories(ctx, "")
	if err != nil {
		return models.SprintTotals{}, err
	}
	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		return models.SprintTotals{}, err
	}
	return models.ComputeSprintTotals(sprintID, stories, tasks), nil
}
