package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAuthUseCase(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) *AuthUseCase {
		return NewAuthUseCase(newMemStore(), newFakeClock(now), testLog)
	}

	t.Run("register then login round trip", func(t *testing.T) {
		uc := setup(t)

		user, err := uc.Register(context.Background(), RegisterCommand{
			Username: "alice", Email: "alice@example.com", Password: "s3cret", Role: "PASSENGER",
		})
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if user.PasswordHash == "s3cret" {
			t.Error("password stored in plain text")
		}

		got, err := uc.Login(context.Background(), LoginCommand{Username: "alice", Password: "s3cret"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("login returned user %s, want %s", got.ID, user.ID)
		}
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		uc := setup(t)

		if _, err := uc.Register(context.Background(), RegisterCommand{Username: "alice", Password: "a", Role: "PASSENGER"}); err != nil {
			t.Fatalf("Register: %v", err)
		}
		_, err := uc.Register(context.Background(), RegisterCommand{Username: "alice", Password: "b", Role: "DRIVER"})
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		uc := setup(t)

		if _, err := uc.Register(context.Background(), RegisterCommand{Username: "alice", Password: "s3cret", Role: "PASSENGER"}); err != nil {
			t.Fatalf("Register: %v", err)
		}

		_, wrongPass := uc.Login(context.Background(), LoginCommand{Username: "alice", Password: "wrong"})
		_, noUser := uc.Login(context.Background(), LoginCommand{Username: "bob", Password: "s3cret"})

		if !errors.Is(wrongPass, ErrInvalidCredentials) || !errors.Is(noUser, ErrInvalidCredentials) {
			t.Errorf("errors = %v / %v, want ErrInvalidCredentials for both", wrongPass, noUser)
		}
	})
}
