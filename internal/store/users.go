package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// User is an admin account for the API server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const userColumns = "id, username, password_hash, role, disabled, created_at, updated_at"

// CreateUser inserts an admin user.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash, role string, now time.Time) (*User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	if role == "" {
		role = "admin"
	}

	id, err := GenerateID("us", func(candidate string) (bool, error) {
		return s.rowExists("SELECT 1 FROM users WHERE id = ? LIMIT 1", candidate)
	})
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, disabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`, id, username, passwordHash, role, formatTime(now), formatTime(now))
	if err != nil {
		return nil, err
	}

	return s.GetUserByUsername(ctx, username)
}

// GetUserByUsername returns a user by username, or nil when absent.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUser(row)
}

// ListUsers returns all users ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, *user)
		}
	}
	return users, rows.Err()
}

// SetUserDisabled toggles the disabled flag for a user.
func (s *Store) SetUserDisabled(ctx context.Context, username string, disabled bool, now time.Time) error {
	username = strings.TrimSpace(strings.ToLower(username))
	flag := 0
	if disabled {
		flag = 1
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET disabled = ?, updated_at = ? WHERE username = ?",
		flag, formatTime(now), username)
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

func scanUser(scanner interface {
	Scan(dest ...any) error
}) (*User, error) {
	var user User
	var disabled int
	var createdAt, updatedAt string

	if err := scanner.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&disabled,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	user.Disabled = disabled != 0

	parsedCreated, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	parsedUpdated, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = parsedCreated
	user.UpdatedAt = parsedUpdated

	return &user, nil
}
