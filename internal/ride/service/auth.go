package service

import (
	"context"
	"errors"
	"fmt"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned on any login failure so callers
	// can not distinguish a missing user from a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// RegisterCommand represents the input for user registration
type RegisterCommand struct {
	Username string
	Email    string
	Password string
	Role     string
}

// LoginCommand represents the input for authentication
type LoginCommand struct {
	Username string
	Password string
}

// AuthUseCase handles registration and login.
type AuthUseCase struct {
	store  domain.Store
	clock  domain.Clock
	logger logger.Logger
}

// NewAuthUseCase creates a new use case instance
func NewAuthUseCase(store domain.Store, clock domain.Clock, log logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		store:  store,
		clock:  clock,
		logger: log,
	}
}

// Register creates a new user with a bcrypt password hash.
func (uc *AuthUseCase) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	if _, err := uc.store.Users().FindByUsername(ctx, cmd.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		uc.logger.Error("register_lookup_failed", err)
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("register_hash_failed", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     cmd.Username,
		Email:        cmd.Email,
		Role:         cmd.Role,
		PasswordHash: string(hash),
		CreatedAt:    uc.clock.Now(),
	}

	if err := uc.store.Users().Save(ctx, user); err != nil {
		uc.logger.Error("register_save_failed", err)
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	uc.logger.WithFields(logger.LogFields{
		"user_id": user.ID,
	}).Info("user_registered", "User registered")

	return user, nil
}

// Login verifies credentials and returns the user.
func (uc *AuthUseCase) Login(ctx context.Context, cmd LoginCommand) (*domain.User, error) {
	user, err := uc.store.Users().FindByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		uc.logger.Error("login_lookup_failed", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	uc.logger.WithFields(logger.LogFields{
		"user_id": user.ID,
	}).Info("login_success", "User authenticated")

	return user, nil
}
