package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spry/internal/api"
	"spry/internal/config"
	"spry/internal/models"
	"spry/internal/store"
)

// PlanImporter turns a parsed sprint plan into stories and tasks.
// Import runs in two passes: validate the whole plan first, then
// write, so a malformed record rejects the plan before anything is
// created. Dry-run reports what would be written.
type PlanImporter struct {
	store store.ProjectStore
	cfg   *config.Config
}

// NewPlanImporter constructs a PlanImporter.
func NewPlanImporter(projectStore store.ProjectStore, cfg *config.Config) *PlanImporter {
	return &PlanImporter{store: projectStore, cfg: cfg}
}

type planStory struct {
	story models.Story
	tasks []models.Task
	skip  bool
}

// Import applies a plan. Dedupe matches existing stories by name:
// "skip" drops duplicates, "error" rejects the plan.
func (p *PlanImporter) Import(ctx context.Context, req api.PlanImportRequest) (api.PlanImportResponse, error) {
	var resp api.PlanImportResponse
	resp.DryRun = req.DryRun

	dedupe := req.Dedupe
	if dedupe == "" {
		dedupe = "skip"
	}
	if dedupe != "skip" && dedupe != "error" {
		return resp, badRequestCode(fmt.Errorf("invalid dedupe mode: %s", dedupe), ErrCodeInvalidPlanMode)
	}
	if len(req.Stories) == 0 {
		return resp, badRequest(fmt.Errorf("plan has no stories"))
	}

	sprintID := strings.TrimSpace(req.SprintID)
	if sprintID != "" {
		if !validateID(sprintID, "sn") {
			return resp, badRequestCode(fmt.Errorf("invalid sprint_id"), ErrCodeInvalidID)
		}
		exists, err := p.store.SprintExists(sprintID)
		if err != nil {
			return resp, err
		}
		if !exists {
			return resp, notFoundCode(fmt.Errorf("sprint not found: %s", sprintID), ErrCodeSprintNotFound)
		}
	}

	existingNames, err := p.existingStoryNames(ctx)
	if err != nil {
		return resp, err
	}

	// Pass one: validate and stage.
	now := time.Now().UTC()
	prefix, err := normalizePrefix(p.cfg.ProjectPrefix)
	if err != nil {
		return resp, err
	}

	staged := make([]planStory, 0, len(req.Stories))
	for i, record := range req.Stories {
		name := strings.TrimSpace(record.Name)
		if name == "" {
			return resp, badRequest(fmt.Errorf("story %d: name is required", i+1))
		}
		if _, dup := existingNames[strings.ToLower(name)]; dup {
			if dedupe == "error" {
				return resp, conflictCode(fmt.Errorf("story already exists: %s", name), ErrCodeIDExists)
			}
			resp.Skipped++
			resp.Messages = append(resp.Messages, fmt.Sprintf("skipped duplicate story: %s", name))
			staged = append(staged, planStory{skip: true})
			continue
		}

		priority := defaultPriority
		if record.Priority != "" {
			priority, err = normalizePriority(record.Priority)
			if err != nil {
				return resp, err
			}
		}
		if record.StoryPoints != nil {
			if err := validatePoints(*record.StoryPoints); err != nil {
				return resp, err
			}
		}
		epicID := strings.TrimSpace(record.EpicID)
		if epicID != "" {
			if !validateID(epicID, "ep") {
				return resp, badRequestCode(fmt.Errorf("story %q: invalid epic_id", name), ErrCodeInvalidID)
			}
			exists, err := p.store.EpicExists(epicID)
			if err != nil {
				return resp, err
			}
			if !exists {
				return resp, notFoundCode(fmt.Errorf("story %q: epic not found: %s", name, epicID), ErrCodeEpicNotFound)
			}
		}

		entry := planStory{
			story: models.Story{
				Name:        name,
				StoryPoints: record.StoryPoints,
				EpicID:      epicID,
				Priority:    priority,
				Description: strings.TrimSpace(record.Description),
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		}

		for j, taskRecord := range record.Tasks {
			taskName := strings.TrimSpace(taskRecord.Name)
			if taskName == "" {
				return resp, badRequest(fmt.Errorf("story %q: task %d: name is required", name, j+1))
			}
			taskType := defaultType
			if taskRecord.Type != "" {
				taskType, err = normalizeType(taskRecord.Type)
				if err != nil {
					return resp, err
				}
			}
			taskPriority := priority
			if taskRecord.Priority != "" {
				taskPriority, err = normalizePriority(taskRecord.Priority)
				if err != nil {
					return resp, err
				}
			}
			if taskRecord.EstimatedHours != nil {
				if err := validateHours(*taskRecord.EstimatedHours); err != nil {
					return resp, err
				}
			}
			entry.tasks = append(entry.tasks, models.Task{
				Name:           taskName,
				Status:         models.StatusTodo,
				Type:           taskType,
				Priority:       taskPriority,
				SprintID:       sprintID,
				Assignee:       strings.TrimSpace(taskRecord.Assignee),
				EstimatedHours: taskRecord.EstimatedHours,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
		staged = append(staged, entry)
		existingNames[strings.ToLower(name)] = struct{}{}
	}

	// Pass two: write.
	for _, entry := range staged {
		if entry.skip {
			continue
		}
		if req.DryRun {
			resp.StoriesCreated++
			resp.TasksCreated += len(entry.tasks)
			continue
		}

		storyID, err := store.GenerateStoryID(p.store.StoryExists)
		if err != nil {
			return resp, err
		}
		entry.story.ID = storyID
		if err := p.store.CreateStory(ctx, &entry.story); err != nil {
			return resp, err
		}
		resp.StoriesCreated++
		resp.StoryIDs = append(resp.StoryIDs, storyID)

		for _, task := range entry.tasks {
			taskID, err := store.GenerateID(prefix, p.store.TaskExists)
			if err != nil {
				return resp, err
			}
			task.ID = taskID
			task.StoryID = storyID
			if err := p.store.CreateTask(ctx, &task); err != nil {
				return resp, err
			}
			resp.TasksCreated++
		}
	}
	return resp, nil
}

func (p *PlanImporter) existingStoryNames(ctx context.Context) (map[string]struct{}, error) {
	stories, err := p.store.ListStories(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(stories))
	for _, story := range stories {
		names[strings.ToLower(story.Name)] = struct{}{}
	}
	return names, nil
}
