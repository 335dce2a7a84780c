package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"spry/internal/models"
)

// SprintUpdate carries partial sprint updates; nil fields are untouched.
type SprintUpdate struct {
	Name          *string
	Goal          *string
	StartDate     *time.Time
	EndDate       *time.Time
	Capacity      *float64
	ClearCapacity bool
	UpdatedAt     time.Time
}

const sprintColumns = "id, name, goal, start_date, end_date, capacity, created_at, updated_at"

// CreateSprint inserts a sprint.
func (s *Store) CreateSprint(ctx context.Context, sprint *models.Sprint) error {
	if sprint == nil {
		return fmt.Errorf("sprint is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sprints (id, name, goal, start_date, end_date, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sprint.ID,
		sprint.Name,
		nullIfEmpty(sprint.Goal),
		formatTime(sprint.StartDate),
		formatTime(sprint.EndDate),
		nullFloat(sprint.Capacity),
		formatTime(sprint.CreatedAt),
		formatTime(sprint.UpdatedAt),
	)
	return err
}

// GetSprint returns a sprint by id, or nil when absent.
func (s *Store) GetSprint(ctx context.Context, id string) (*models.Sprint, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sprintColumns+" FROM sprints WHERE id = ?", id)
	return scanSprint(row)
}

// UpdateSprint applies a partial update to a sprint.
func (s *Store) UpdateSprint(ctx context.Context, id string, update SprintUpdate) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}

	set := []string{}
	args := []any{}

	if update.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Goal != nil {
		set = append(set, "goal = ?")
		args = append(args, nullIfEmpty(*update.Goal))
	}
	if update.StartDate != nil {
		set = append(set, "start_date = ?")
		args = append(args, formatTime(*update.StartDate))
	}
	if update.EndDate != nil {
		set = append(set, "end_date = ?")
		args = append(args, formatTime(*update.EndDate))
	}
	if update.Capacity != nil {
		set = append(set, "capacity = ?")
		args = append(args, *update.Capacity)
	} else if update.ClearCapacity {
		set = append(set, "capacity = NULL")
	}

	set = append(set, "updated_at = ?")
	args = append(args, formatTime(update.UpdatedAt))

	args = append(args, id)
	query := fmt.Sprintf("UPDATE sprints SET %s WHERE id = ?", strings.Join(set, ", "))
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

// ListSprints returns all sprints in chronological start order.
func (s *Store) ListSprints(ctx context.Context) ([]models.Sprint, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+sprintColumns+" FROM sprints ORDER BY start_date, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sprints := []models.Sprint{}
	for rows.Next() {
		sprint, err := scanSprint(rows)
		if err != nil {
			return nil, err
		}
		if sprint != nil {
			sprints = append(sprints, *sprint)
		}
	}
	return sprints, rows.Err()
}

func scanSprint(scanner interface {
	Scan(dest ...any) error
}) (*models.Sprint, error) {
	var sprint models.Sprint
	var goal sql.NullString
	var capacity sql.NullFloat64
	var startDate, endDate, createdAt, updatedAt string

	if err := scanner.Scan(
		&sprint.ID,
		&sprint.Name,
		&goal,
		&startDate,
		&endDate,
		&capacity,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	sprint.Goal = goal.String
	if capacity.Valid {
		value := capacity.Float64
		sprint.Capacity = &value
	}

	for _, field := range []struct {
		raw  string
		dest *time.Time
	}{
		{startDate, &sprint.StartDate},
		{endDate, &sprint.EndDate},
		{createdAt, &sprint.CreatedAt},
		{updatedAt, &sprint.UpdatedAt},
	} {
		parsed, err := parseTime(field.raw)
		if err != nil {
			return nil, err
		}
		*field.dest = parsed
	}

	return &sprint, nil
}
