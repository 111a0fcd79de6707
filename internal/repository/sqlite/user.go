package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/model"
	"github.com/summaize/summaize/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user and fills ID and timestamps on the struct.
//
// The service layer checks for duplicates before calling this, but two
// concurrent registrations can both pass that check. The UNIQUE constraints
// on username and email are the real guarantee; a constraint violation here
// is translated to the same user_exists conflict the pre-check produces.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user_exists", "username or email already registered")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}

	return nil
}

// GetUserByLogin retrieves a user whose username or email equals login.
func (db *DB) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users
		 WHERE username = ? OR email = ?`,
		login, login,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundCode("login_failed_user_not_found", "no user with that username or email")
		}
		return nil, fmt.Errorf("sqlite: getting user by login %q: %w", login, err)
	}

	return &u, nil
}

// GetUserByID retrieves a user by primary key.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// UserExists reports whether either identifier is taken.
func (db *DB) UserExists(ctx context.Context, username, email string) (bool, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ? OR email = ?`,
		username, email,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking user existence: %w", err)
	}
	return true, nil
}

// isUniqueViolation detects SQLite's UNIQUE constraint error. modernc's
// driver exposes no typed error for it, so we match the message, which is
// stable across SQLite versions ("UNIQUE constraint failed: users.username").
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
