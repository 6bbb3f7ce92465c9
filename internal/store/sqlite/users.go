package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/normalize"
	"github.com/typerank/typerank-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, email, username, password_hash, role, status, created_at, updated_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		username  sql.NullString
		role      string
		status    string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&u.ID, &u.Email, &username, &u.PasswordHash, &role, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	u.Username = username.String
	u.Role = domain.Role(role)
	u.Status = domain.UserStatus(status)

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user.
// Returns a store.ConflictError (matching store.ErrAlreadyExists) when the
// ID, email or username is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, email_lower, username, password_hash, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		normalize.Email(user.Email),
		nullString(user.Username),
		user.PasswordHash,
		string(user.Role),
		string(user.Status),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		return conflictError(err, "user")
	}
	return nil
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, ignoring case and surrounding space.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, normalize.Email(email))

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpdateUser writes the mutable profile fields: username, password hash,
// role, status and updated_at.
// Returns store.ErrNotFound if the user does not exist, or a
// store.ConflictError when the new username is taken.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			username = ?,
			password_hash = ?,
			role = ?,
			status = ?,
			updated_at = ?
		WHERE id = ?`,
		nullString(user.Username),
		user.PasswordHash,
		string(user.Role),
		string(user.Status),
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return conflictError(err, "user")
	}
	return requireAffected(result)
}

// DeleteUser removes a user. Their attempts go with them through the
// ON DELETE CASCADE on attempts.user_id; guest attempts are untouched.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
