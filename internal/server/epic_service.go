package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spry/internal/api"
	"spry/internal/models"
	"spry/internal/store"
)

// EpicService handles epics and their rollup progress.
type EpicService struct {
	store store.ProjectStore
}

// NewEpicService constructs an EpicService.
func NewEpicService(projectStore store.ProjectStore) *EpicService {
	return &EpicService{store: projectStore}
}

// Create creates an epic.
func (s *EpicService) Create(ctx context.Context, req api.EpicCreateRequest) (api.EpicResponse, error) {
	var resp api.EpicResponse

	if strings.TrimSpace(req.Name) == "" {
		return resp, badRequest(fmt.Errorf("name is required"))
	}

	id := strings.TrimSpace(req.ID)
	var err error
	if id != "" {
		if !validateID(id, "ep") {
			return resp, badRequestCode(fmt.Errorf("invalid id"), ErrCodeInvalidID)
		}
		exists, err := s.store.EpicExists(id)
		if err != nil {
			return resp, err
		}
		if exists {
			return resp, conflictCode(fmt.Errorf("id already exists"), ErrCodeIDExists)
		}
	} else {
		id, err = store.GenerateEpicID(s.store.EpicExists)
		if err != nil {
			return resp, err
		}
	}

	now := time.Now().UTC()
	epic := &models.Epic{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: valueOrEmpty(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateEpic(ctx, epic); err != nil {
		if isUniqueConstraint(err) {
			return resp, conflictCode(fmt.Errorf("id already exists"), ErrCodeIDExists)
		}
		return resp, err
	}

	resp.Epic = *epic
	return resp, nil
}

// Get fetches an epic with its derived progress.
func (s *EpicService) Get(ctx context.Context, id string) (api.EpicResponse, error) {
	var resp api.EpicResponse
	epic, err := s.store.GetEpic(ctx, id)
	if err != nil {
		return resp, err
	}
	if epic == nil {
		return resp, notFoundCode(fmt.Errorf("epic not found: %s", id), ErrCodeEpicNotFound)
	}

	progress, err := s.progress(ctx, id)
	if err != nil {
		return resp, err
	}

	resp.Epic = *epic
	resp.Progress = &progress
	return resp, nil
}

// List returns all epics with progress.
func (s *EpicService) List(ctx context.Context) ([]api.EpicResponse, error) {
	epics, err := s.store.ListEpics(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]api.EpicResponse, 0, len(epics))
	for _, epic := range epics {
		progress, err := s.progress(ctx, epic.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, api.EpicResponse{Epic: epic, Progress: &progress})
	}
	return out, nil
}

func (s *EpicService) progress(ctx context.Context, epicID string) (models.EpicProgress, error) {
	stories, err := s.store.ListStories(ctx, epicID)
	if err != nil {
		return models.EpicProgress{}, err
	}
	tasksByStory := map[string][]models.Task{}
	for _, story := range stories {
		tasks, err := s.store.ListTasks(ctx, store.TaskFilter{StoryID: story.ID})
		if err != nil {
			return models.EpicProgress{}, err
		}
		tasksByStory[story.ID] = tasks
	}
	return models.ComputeEpicProgress(stories, tasksByStory), nil
}
