package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"spry/internal/models"
)

// StoryUpdate carries partial story updates; nil fields are untouched.
type StoryUpdate struct {
	Name        *string
	StoryPoints *float64
	ClearPoints bool
	EpicID      *string
	Priority    *models.Priority
	Description *string
	UpdatedAt   time.Time
}

const storyColumns = "id, name, story_points, epic_id, priority, description, created_at, updated_at"

// CreateStory inserts a story.
func (s *Store) CreateStory(ctx context.Context, story *models.Story) error {
	if story == nil {
		return fmt.Errorf("story is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stories (id, name, story_points, epic_id, priority, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		story.ID,
		story.Name,
		nullFloat(story.StoryPoints),
		nullIfEmpty(story.EpicID),
		string(story.Priority),
		nullIfEmpty(story.Description),
		formatTime(story.CreatedAt),
		formatTime(story.UpdatedAt),
	)
	return err
}

// GetStory returns a story by id, or nil when absent.
func (s *Store) GetStory(ctx context.Context, id string) (*models.Story, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+storyColumns+" FROM stories WHERE id = ?", id)
	return scanStory(row)
}

// UpdateStory applies a partial update to a story.
func (s *Store) UpdateStory(ctx context.Context, id string, update StoryUpdate) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}

	set := []string{}
	args := []any{}

	if update.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *update.Name)
	}
	if update.StoryPoints != nil {
		set = append(set, "story_points = ?")
		args = append(args, *update.StoryPoints)
	} else if update.ClearPoints {
		set = append(set, "story_points = NULL")
	}
	if update.EpicID != nil {
		set = append(set, "epic_id = ?")
		args = append(args, nullIfEmpty(*update.EpicID))
	}
	if update.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, string(*update.Priority))
	}
	if update.Description != nil {
		set = append(set, "description = ?")
		args = append(args, nullIfEmpty(*update.Description))
	}

	set = append(set, "updated_at = ?")
	args = append(args, formatTime(update.UpdatedAt))

	args = append(args, id)
	query := fmt.Sprintf("UPDATE stories SET %s WHERE id = ?", strings.Join(set, ", "))
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

// DeleteStory removes a story and reports whether it existed. Tasks
// referencing the story keep running with story_id cleared by the
// schema's ON DELETE SET NULL.
func (s *Store) DeleteStory(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM stories WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListStories returns stories, optionally restricted to one epic.
func (s *Store) ListStories(ctx context.Context, epicID string) ([]models.Story, error) {
	query := "SELECT " + storyColumns + " FROM stories"
	args := []any{}
	if epicID != "" {
		query += " WHERE epic_id = ?"
		args = append(args, epicID)
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := []models.Story{}
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		if story != nil {
			stories = append(stories, *story)
		}
	}
	return stories, rows.Err()
}

func scanStory(scanner interface {
	Scan(dest ...any) error
}) (*models.Story, error) {
	var story models.Story
	var points sql.NullFloat64
	var epicID, description sql.NullString
	var priority, createdAt, updatedAt string

	if err := scanner.Scan(
		&story.ID,
		&story.Name,
		&points,
		&epicID,
		&priority,
		&description,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if points.Valid {
		value := points.Float64
		story.StoryPoints = &value
	}
	story.EpicID = epicID.String
	story.Description = description.String
	story.Priority = models.Priority(priority)

	parsedCreated, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	parsedUpdated, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	story.CreatedAt = parsedCreated
	story.UpdatedAt = parsedUpdated

	return &story, nil
}
