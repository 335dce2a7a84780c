package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"spry/internal/models"
)

const snapshotColumns = "id, day, todo_count, in_progress_count, review_count, done_count, remaining_points, remaining_hours, sprint_committed, created_at"

// SaveSnapshot inserts or replaces the snapshot for its day. One
// snapshot per calendar day; a later capture for the same day wins.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is required")
	}

	var committed any
	if len(snapshot.SprintCommitted) > 0 {
		encoded, err := json.Marshal(snapshot.SprintCommitted)
		if err != nil {
			return err
		}
		committed = string(encoded)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (
			id, day, todo_count, in_progress_count, review_count, done_count,
			remaining_points, remaining_hours, sprint_committed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			todo_count = excluded.todo_count,
			in_progress_count = excluded.in_progress_count,
			review_count = excluded.review_count,
			done_count = excluded.done_count,
			remaining_points = excluded.remaining_points,
			remaining_hours = excluded.remaining_hours,
			sprint_committed = excluded.sprint_committed,
			created_at = excluded.created_at
	`,
		snapshot.ID,
		formatDay(snapshot.Day),
		snapshot.StatusCounts[models.StatusTodo],
		snapshot.StatusCounts[models.StatusInProgress],
		snapshot.StatusCounts[models.StatusReview],
		snapshot.StatusCounts[models.StatusDone],
		snapshot.RemainingPoints,
		snapshot.RemainingHours,
		committed,
		formatTime(snapshot.CreatedAt),
	)
	return err
}

// ListSnapshots returns snapshots within [from, to], oldest first.
// Zero bounds are open.
func (s *Store) ListSnapshots(ctx context.Context, from, to time.Time) ([]models.Snapshot, error) {
	query := "SELECT " + snapshotColumns + " FROM snapshots"
	where := ""
	args := []any{}

	if !from.IsZero() {
		where = " WHERE day >= ?"
		args = append(args, formatDay(from))
	}
	if !to.IsZero() {
		if where == "" {
			where = " WHERE day <= ?"
		} else {
			where += " AND day <= ?"
		}
		args = append(args, formatDay(to))
	}
	query += where + " ORDER BY day"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []models.Snapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		if snapshot != nil {
			snapshots = append(snapshots, *snapshot)
		}
	}
	return snapshots, rows.Err()
}

func scanSnapshot(scanner interface {
	Scan(dest ...any) error
}) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	var day, createdAt string
	var todo, inProgress, review, done int
	var committed sql.NullString

	if err := scanner.Scan(
		&snapshot.ID,
		&day,
		&todo,
		&inProgress,
		&review,
		&done,
		&snapshot.RemainingPoints,
		&snapshot.RemainingHours,
		&committed,
		&createdAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	snapshot.StatusCounts = map[models.TaskStatus]int{
		models.StatusTodo:       todo,
		models.StatusInProgress: inProgress,
		models.StatusReview:     review,
		models.StatusDone:       done,
	}

	if committed.Valid && committed.String != "" {
		if err := json.Unmarshal([]byte(committed.String), &snapshot.SprintCommitted); err != nil {
			return nil, fmt.Errorf("decode sprint_committed: %w", err)
		}
	}

	parsedDay, err := parseDay(day)
	if err != nil {
		return nil, err
	}
	parsedCreated, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	snapshot.Day = parsedDay
	snapshot.CreatedAt = parsedCreated

	return &snapshot, nil
}
