package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"spry/internal/models"
)

// TaskFilter narrows task listings.
type TaskFilter struct {
	Statuses []string
	StoryID  string
	SprintID string
	// SprintBacklog selects tasks with no sprint assignment.
	SprintBacklog bool
	Assignee      string
	Limit         int
	Offset        int
}

// TaskUpdate carries partial task updates; nil fields are untouched.
type TaskUpdate struct {
	Name           *string
	Status         *models.TaskStatus
	Type           *models.TaskType
	Priority       *models.Priority
	StoryID        *string
	SprintID       *string
	Assignee       *string
	EstimatedHours *float64
	ActualHours    *float64
	CompletedAt    *time.Time
	ClearCompleted bool
	UpdatedAt      time.Time
}

const taskColumns = "id, name, status, type, priority, story_id, sprint_id, assignee, estimated_hours, actual_hours, created_at, updated_at, completed_at"

// CreateTask inserts a task.
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, name, status, type, priority, story_id, sprint_id, assignee,
			estimated_hours, actual_hours, created_at, updated_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID,
		task.Name,
		string(task.Status),
		string(task.Type),
		string(task.Priority),
		nullIfEmpty(task.StoryID),
		nullIfEmpty(task.SprintID),
		nullIfEmpty(task.Assignee),
		nullFloat(task.EstimatedHours),
		nullFloat(task.ActualHours),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
		nullTime(task.CompletedAt),
	)
	return err
}

// GetTask returns a task by id, or nil when absent.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	return scanTask(row)
}

// UpdateTask applies a partial update to a task.
func (s *Store) UpdateTask(ctx context.Context, id string, update TaskUpdate) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}

	set := []string{}
	args := []any{}

	if update.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*update.Status))
	}
	if update.Type != nil {
		set = append(set, "type = ?")
		args = append(args, string(*update.Type))
	}
	if update.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, string(*update.Priority))
	}
	if update.StoryID != nil {
		set = append(set, "story_id = ?")
		args = append(args, nullIfEmpty(*update.StoryID))
	}
	if update.SprintID != nil {
		set = append(set, "sprint_id = ?")
		args = append(args, nullIfEmpty(*update.SprintID))
	}
	if update.Assignee != nil {
		set = append(set, "assignee = ?")
		args = append(args, nullIfEmpty(*update.Assignee))
	}
	if update.EstimatedHours != nil {
		set = append(set, "estimated_hours = ?")
		args = append(args, *update.EstimatedHours)
	}
	if update.ActualHours != nil {
		set = append(set, "actual_hours = ?")
		args = append(args, *update.ActualHours)
	}
	if update.CompletedAt != nil {
		set = append(set, "completed_at = ?")
		args = append(args, nullTime(update.CompletedAt))
	} else if update.ClearCompleted {
		set = append(set, "completed_at = NULL")
	}

	set = append(set, "updated_at = ?")
	args = append(args, formatTime(update.UpdatedAt))

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(set, ", "))
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTask removes a task by id and reports whether it existed.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListTasks returns tasks matching a filter, most recently updated first.
func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query, args := buildTaskQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		if task != nil {
			tasks = append(tasks, *task)
		}
	}
	return tasks, rows.Err()
}

// CountTasksByStatus returns per-column task counts.
func (s *Store) CountTasksByStatus(ctx context.Context) (map[models.TaskStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM tasks GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[models.TaskStatus]int{}
	for _, status := range models.WorkflowOrder {
		counts[status] = 0
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.TaskStatus(status)] = count
	}
	return counts, rows.Err()
}

// CountTasksInStatus returns the task count for one column.
func (s *Store) CountTasksInStatus(ctx context.Context, status models.TaskStatus) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE status = ?", string(status)).Scan(&count)
	return count, err
}

func buildTaskQuery(filter TaskFilter) (string, []any) {
	where := []string{}
	args := []any{}

	if len(filter.Statuses) > 0 {
		where = append(where, fmt.Sprintf("status IN (%s)", placeholders(len(filter.Statuses))))
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	if filter.StoryID != "" {
		where = append(where, "story_id = ?")
		args = append(args, filter.StoryID)
	}
	switch {
	case filter.SprintID != "":
		where = append(where, "sprint_id = ?")
		args = append(args, filter.SprintID)
	case filter.SprintBacklog:
		where = append(where, "sprint_id IS NULL")
	}
	if filter.Assignee != "" {
		where = append(where, "assignee = ?")
		args = append(args, filter.Assignee)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY updated_at DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return query, args
}

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*models.Task, error) {
	var task models.Task
	var status, taskType, priority string
	var storyID, sprintID, assignee sql.NullString
	var estimated, actual sql.NullFloat64
	var createdAt, updatedAt string
	var completedAt sql.NullString

	if err := scanner.Scan(
		&task.ID,
		&task.Name,
		&status,
		&taskType,
		&priority,
		&storyID,
		&sprintID,
		&assignee,
		&estimated,
		&actual,
		&createdAt,
		&updatedAt,
		&completedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	task.Status = models.TaskStatus(status)
	task.Type = models.TaskType(taskType)
	task.Priority = models.Priority(priority)
	task.StoryID = storyID.String
	task.SprintID = sprintID.String
	task.Assignee = assignee.String
	if estimated.Valid {
		value := estimated.Float64
		task.EstimatedHours = &value
	}
	if actual.Valid {
		value := actual.Float64
		task.ActualHours = &value
	}

	parsedCreated, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	parsedUpdated, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	task.CreatedAt = parsedCreated
	task.UpdatedAt = parsedUpdated
	if completedAt.Valid {
		parsedCompleted, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		task.CompletedAt = &parsedCompleted
	}

	return &task, nil
}
