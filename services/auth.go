package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lborres/jokes/core"
	"github.com/lborres/jokes/pkg/crypto"
)

type AuthService struct {
	users          core.UserStorage
	passwordHasher crypto.PasswordHandler
	logger         *slog.Logger

	// dummyDigest is verified against when a username is unknown so both
	// failure paths pay for one password verification.
	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(users core.UserStorage, passwordHasher crypto.PasswordHandler, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:          users,
		passwordHasher: passwordHasher,
		logger:         logger,
	}
}

// Login returns the identity of the user owning username when password
// matches. An unknown username and a wrong password both yield
// ErrInvalidCredentials; any other error is a store or hasher failure.
func (s *AuthService) Login(ctx context.Context, username, password string) (*core.User, error) {
	// Step 1: Find the user by username
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			s.burnVerify(password)
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Step 2: Verify the password
	valid, err := s.passwordHasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	return user.Identity(), nil
}

// Register stores a new user and returns its identity. Username uniqueness
// is left to the store, which reports a duplicate as ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, password string) (*core.User, error) {
	hashedPassword, err := s.passwordHasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &core.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	return user.Identity(), nil
}

func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		digest, err := s.passwordHasher.Hash(uuid.NewString())
		if err != nil {
			s.logger.Warn("failed to prepare dummy digest", slog.Any("error", err))
			return
		}
		s.dummyDigest = digest
	})
	if s.dummyDigest != "" {
		_, _ = s.passwordHasher.Verify(password, s.dummyDigest)
	}
}
