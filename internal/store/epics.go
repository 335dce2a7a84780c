package store

import (
	"context"
	"database/sql"
	"fmt"

	"spry/internal/models"
)

const epicColumns = "id, name, description, created_at, updated_at"

// CreateEpic inserts an epic.
func (s *Store) CreateEpic(ctx context.Context, epic *models.Epic) error {
	if epic == nil {
		return fmt.Errorf("epic is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO epics (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		epic.ID,
		epic.Name,
		nullIfEmpty(epic.Description),
		formatTime(epic.CreatedAt),
		formatTime(epic.UpdatedAt),
	)
	return err
}

// GetEpic returns an epic by id, or nil when absent.
func (s *Store) GetEpic(ctx context.Context, id string) (*models.Epic, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+epicColumns+" FROM epics WHERE id = ?", id)
	return scanEpic(row)
}

// ListEpics returns all epics in creation order.
func (s *Store) ListEpics(ctx context.Context) ([]models.Epic, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+epicColumns+" FROM epics ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	epics := []models.Epic{}
	for rows.Next() {
		epic, err := scanEpic(rows)
		if err != nil {
			return nil, err
		}
		if epic != nil {
			epics = append(epics, *epic)
		}
	}
	return epics, rows.Err()
}

func scanEpic(scanner interface {
	Scan(dest ...any) error
}) (*models.Epic, error) {
	var epic models.Epic
	var description sql.NullString
	var createdAt, updatedAt string

	if err := scanner.Scan(&epic.ID, &epic.Name, &description, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	epic.Description = description.String

	parsedCreated, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	parsedUpdated, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	epic.CreatedAt = parsedCreated
	epic.UpdatedAt = parsedUpdated

	return &epic, nil
}
