// Package service contains the business logic of the catalog. Services
// accept plain values plus the caller's identity, enforce validation
// and authorization, and delegate persistence to the repository
// interfaces. They know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/auth"
	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
	"github.com/sheepbooru/catalog/internal/validation"
)

// IdentityService handles registration, credential verification, and
// user lookup.
type IdentityService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	validate  *validation.Validator
	logger    *slog.Logger
}

func NewIdentityService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *IdentityService {
	return &IdentityService{
		users:     users,
		passwords: passwords,
		validate:  validation.New(),
		logger:    logger,
	}
}

type registerInput struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Register creates a new account. The username must be unused (exact,
// case-sensitive comparison); new accounts are never admins.
func (s *IdentityService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if err := s.validate.Validate(registerInput{Username: username, Password: password}); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/identity: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      false,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords produce the same Unauthorized error so the response
// doesn't reveal which accounts exist.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("service/identity: looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	return user, nil
}

// Lookup returns the user for the given internal ID.
func (s *IdentityService) Lookup(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetUserByID(ctx, id)
}

// List returns all users.
func (s *IdentityService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/identity: listing users: %w", err)
	}
	return users, nil
}
