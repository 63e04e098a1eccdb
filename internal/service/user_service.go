package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/groupusers/internal/auth"
	"github.com/mmynk/groupusers/internal/models"
	"github.com/mmynk/groupusers/internal/storage"
)

var (
	ErrEmailRequired       = errors.New("email is required")
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrEmailExists         = errors.New("email already registered")
	ErrSelfRelation        = errors.New("a user cannot follow or befriend themselves")
	ErrUnknownUser         = errors.New("user does not exist")
)

// UserService registers users and records follower and friend relations.
type UserService struct {
	users  storage.UserStore
	hasher *auth.PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users storage.UserStore, hasher *auth.PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates a new user account with a hashed password.
func (s *UserService) Register(ctx context.Context, email, displayName, password string) (*models.User, error) {
	s.logger.Info("Register request", "email", email)

	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if displayName == "" {
		return nil, ErrDisplayNameRequired
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(email, displayName, hash)
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		s.logger.Error("Registration failed", "email", email, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Follow records that followerID follows userID.
func (s *UserService) Follow(ctx context.Context, userID, followerID int64) error {
	if err := s.checkPair(ctx, userID, followerID); err != nil {
		return err
	}
	if err := s.users.AddFollower(ctx, userID, followerID); err != nil {
		return err
	}
	s.logger.Info("Follower added", "user_id", userID, "follower_id", followerID)
	return nil
}

// Befriend records a friendship between the two users.
func (s *UserService) Befriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkPair(ctx, userID, friendID); err != nil {
		return err
	}
	if err := s.users.AddFriend(ctx, userID, friendID); err != nil {
		return err
	}
	s.logger.Info("Friend added", "user_id", userID, "friend_id", friendID)
	return nil
}

// checkPair verifies both users exist and are distinct.
func (s *UserService) checkPair(ctx context.Context, a, b int64) error {
	if a == b {
		return ErrSelfRelation
	}
	for _, id := range []int64{a, b} {
		if _, err := s.users.GetUser(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %d", ErrUnknownUser, id)
			}
			return fmt.Errorf("failed to look up user: %w", err)
		}
	}
	return nil
}
