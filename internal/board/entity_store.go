// Package board holds the client-side working set and the two
// writers that mutate it: the status transition engine and the sprint
// assignment coordinator. All derived figures (sprint totals, story
// membership) are computed from the store on demand.
package board

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"spry/internal/models"
)

// EntityStore is an in-memory view of the board, indexed by id and by
// the task's story and sprint references. The engine and coordinator
// are its only writers; read accessors return copies.
type EntityStore struct {
	mu      sync.RWMutex
	tasks   map[string]models.Task
	stories map[string]models.Story
	sprints map[string]models.Sprint
	epics   map[string]models.Epic

	tasksByStory  map[string]map[string]struct{}
	tasksBySprint map[string]map[string]struct{}

	// fetchSeq tickets refreshes in start order; appliedSeq records
	// the newest refresh whose result was kept. A refresh that
	// started before the latest applied one discards its result.
	fetchSeq   uint64
	appliedSeq uint64
}

// NewEntityStore creates an empty store.
func NewEntityStore() *EntityStore {
	return &EntityStore{
		tasks:         map[string]models.Task{},
		stories:       map[string]models.Story{},
		sprints:       map[string]models.Sprint{},
		epics:         map[string]models.Epic{},
		tasksByStory:  map[string]map[string]struct{}{},
		tasksBySprint: map[string]map[string]struct{}{},
	}
}

// Refresh pulls the full entity set from the remote and replaces the
// store contents, unless a refresh that started later has already
// been applied, in which case this result is dropped.
func (s *EntityStore) Refresh(ctx context.Context, remote Remote) error {
	s.mu.Lock()
	s.fetchSeq++
	ticket := s.fetchSeq
	s.mu.Unlock()

	taskResps, err := remote.ListTasks(ctx, nil)
	if err != nil {
		return fmt.Errorf("refresh tasks: %w", err)
	}
	storyResps, err := remote.ListStories(ctx, nil)
	if err != nil {
		return fmt.Errorf("refresh stories: %w", err)
	}
	sprintResps, err := remote.ListSprints(ctx, nil)
	if err != nil {
		return fmt.Errorf("refresh sprints: %w", err)
	}

	tasks := make([]models.Task, 0, len(taskResps))
	for _, resp := range taskResps {
		tasks = append(tasks, resp.Task)
	}
	stories := make([]models.Story, 0, len(storyResps))
	for _, resp := range storyResps {
		stories = append(stories, resp.Story)
	}
	sprints := make([]models.Sprint, 0, len(sprintResps))
	for _, resp := range sprintResps {
		sprints = append(sprints, resp.Sprint)
	}

	var epics []models.Epic
	if lister, ok := remote.(EpicLister); ok {
		epicResps, err := lister.ListEpics(ctx)
		if err != nil {
			return fmt.Errorf("refresh epics: %w", err)
		}
		epics = make([]models.Epic, 0, len(epicResps))
		for _, resp := range epicResps {
			epics = append(epics, resp.Epic)
		}
	}

	return s.apply(ticket, tasks, stories, sprints, epics)
}

func (s *EntityStore) apply(ticket uint64, tasks []models.Task, stories []models.Story, sprints []models.Sprint, epics []models.Epic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket < s.appliedSeq {
		return fmt.Errorf("stale refresh discarded: fetch %d superseded by %d", ticket, s.appliedSeq)
	}
	s.appliedSeq = ticket

	s.tasks = make(map[string]models.Task, len(tasks))
	s.tasksByStory = map[string]map[string]struct{}{}
	s.tasksBySprint = map[string]map[string]struct{}{}
	for _, task := range tasks {
		s.indexTaskLocked(task)
	}

	s.stories = make(map[string]models.Story, len(stories))
	for _, story := range stories {
		s.stories[story.ID] = story
	}
	s.sprints = make(map[string]models.Sprint, len(sprints))
	for _, sprint := range sprints {
		s.sprints[sprint.ID] = sprint
	}
	s.epics = make(map[string]models.Epic, len(epics))
	for _, epic := range epics {
		s.epics[epic.ID] = epic
	}
	return nil
}

// Seed loads entities directly, bypassing the remote. Used at startup
// and in tests.
func (s *EntityStore) Seed(tasks []models.Task, stories []models.Story, sprints []models.Sprint) {
	s.mu.Lock()
	s.fetchSeq++
	ticket := s.fetchSeq
	s.mu.Unlock()
	// Seeding counts as the freshest view.
	_ = s.apply(ticket, tasks, stories, sprints, nil)
}

func (s *EntityStore) indexTaskLocked(task models.Task) {
	if previous, ok := s.tasks[task.ID]; ok {
		s.unindexLocked(previous)
	}
	s.tasks[task.ID] = task
	if task.StoryID != "" {
		if s.tasksByStory[task.StoryID] == nil {
			s.tasksByStory[task.StoryID] = map[string]struct{}{}
		}
		s.tasksByStory[task.StoryID][task.ID] = struct{}{}
	}
	if task.SprintID != "" {
		if s.tasksBySprint[task.SprintID] == nil {
			s.tasksBySprint[task.SprintID] = map[string]struct{}{}
		}
		s.tasksBySprint[task.SprintID][task.ID] = struct{}{}
	}
}

func (s *EntityStore) unindexLocked(task models.Task) {
	if task.StoryID != "" {
		delete(s.tasksByStory[task.StoryID], task.ID)
	}
	if task.SprintID != "" {
		delete(s.tasksBySprint[task.SprintID], task.ID)
	}
}

// putTask replaces one task and keeps the indexes consistent. Engine
// and coordinator call this after a confirmed remote write.
func (s *EntityStore) putTask(task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexTaskLocked(task)
}

// Task returns a copy of the task.
func (s *EntityStore) Task(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	return task, ok
}

// Story returns a copy of the story.
func (s *EntityStore) Story(id string) (models.Story, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	story, ok := s.stories[id]
	return story, ok
}

// Sprint returns a copy of the sprint.
func (s *EntityStore) Sprint(id string) (models.Sprint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sprint, ok := s.sprints[id]
	return sprint, ok
}

// Epic returns a copy of the epic.
func (s *EntityStore) Epic(id string) (models.Epic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	epic, ok := s.epics[id]
	return epic, ok
}

// Epics lists all epics ordered by id.
func (s *EntityStore) Epics() []models.Epic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Epic, 0, len(s.epics))
	for _, epic := range s.epics {
		out = append(out, epic)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tasks lists all tasks ordered by id.
func (s *EntityStore) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		out = append(out, task)
	}
	sortTasks(out)
	return out
}

// Stories lists all stories ordered by id.
func (s *EntityStore) Stories() []models.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Story, 0, len(s.stories))
	for _, story := range s.stories {
		out = append(out, story)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sprints lists all sprints ordered by start date.
func (s *EntityStore) Sprints() []models.Sprint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Sprint, 0, len(s.sprints))
	for _, sprint := range s.sprints {
		out = append(out, sprint)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

// TasksForStory lists the story's tasks ordered by id. Story-task
// order drives the coordinator's write order.
func (s *EntityStore) TasksForStory(storyID string) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0, len(s.tasksByStory[storyID]))
	for id := range s.tasksByStory[storyID] {
		out = append(out, s.tasks[id])
	}
	sortTasks(out)
	return out
}

// TasksForSprint lists the sprint's tasks ordered by id.
func (s *EntityStore) TasksForSprint(sprintID string) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0, len(s.tasksBySprint[sprintID]))
	for id := range s.tasksBySprint[sprintID] {
		out = append(out, s.tasks[id])
	}
	sortTasks(out)
	return out
}

// CountInStatus returns how many tasks occupy a column.
func (s *EntityStore) CountInStatus(status models.TaskStatus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, task := range s.tasks {
		if task.Status == status {
			count++
		}
	}
	return count
}

func sortTasks(tasks []models.Task) {
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
}
