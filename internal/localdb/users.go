package localdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// CreateUser inserts an account. It returns false when the username is taken.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (username) DO NOTHING`,
		username, passwordHash, s.now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to create user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// GetUser retrieves an account by username, or nil when it does not exist
func (s *Store) GetUser(ctx context.Context, username string) (*types.User, error) {
	var user types.User
	err := s.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
