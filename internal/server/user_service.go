package server

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/types"
)

// UserStore persists accounts. GetUser returns nil, nil for unknown usernames.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (bool, error)
	GetUser(ctx context.Context, username string) (*types.User, error)
}

// UserService provides account registration and authentication
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// Register creates an account. It fails with ErrUsernameTaken if the name exists.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	hash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateUser(ctx, req.Username, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		return nil, &ErrUsernameTaken{Username: req.Username}
	}

	user, err := s.store.GetUser(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("created user not found: %s", req.Username)
	}
	return user, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	user, err := s.store.GetUser(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !s.passwordConfig.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return user, nil
}
