package store

import (
	"context"
	"time"

	"spry/internal/models"
)

// TaskStore abstracts task storage backends.
type TaskStore interface {
	TaskExists(id string) (bool, error)
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, update TaskUpdate) error
	DeleteTask(ctx context.Context, id string) (bool, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	CountTasksByStatus(ctx context.Context) (map[models.TaskStatus]int, error)
	CountTasksInStatus(ctx context.Context, status models.TaskStatus) (int, error)
}

// StoryStore abstracts story storage backends.
type StoryStore interface {
	StoryExists(id string) (bool, error)
	CreateStory(ctx context.Context, story *models.Story) error
	GetStory(ctx context.Context, id string) (*models.Story, error)
	UpdateStory(ctx context.Context, id string, update StoryUpdate) error
	DeleteStory(ctx context.Context, id string) (bool, error)
	ListStories(ctx context.Context, epicID string) ([]models.Story, error)
}

// SprintStore abstracts sprint storage backends.
type SprintStore interface {
	SprintExists(id string) (bool, error)
	CreateSprint(ctx context.Context, sprint *models.Sprint) error
	GetSprint(ctx context.Context, id string) (*models.Sprint, error)
	UpdateSprint(ctx context.Context, id string, update SprintUpdate) error
	ListSprints(ctx context.Context) ([]models.Sprint, error)
}

// EpicStore abstracts epic storage backends.
type EpicStore interface {
	EpicExists(id string) (bool, error)
	CreateEpic(ctx context.Context, epic *models.Epic) error
	GetEpic(ctx context.Context, id string) (*models.Epic, error)
	ListEpics(ctx context.Context) ([]models.Epic, error)
}

// SnapshotStore abstracts snapshot storage backends.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error
	ListSnapshots(ctx context.Context, from, to time.Time) ([]models.Snapshot, error)
}

// UserStore abstracts admin user storage backends.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash, role string, now time.Time) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetUserDisabled(ctx context.Context, username string, disabled bool, now time.Time) error
}

// ProjectStore is the full storage surface the server expects.
type ProjectStore interface {
	TaskStore
	StoryStore
	SprintStore
	EpicStore
	SnapshotStore
	UserStore
	SchemaVersion() (int, error)
	Close() error
}

var _ ProjectStore = (*Store)(nil)
