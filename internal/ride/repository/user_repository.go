package repository

import (
	"context"
	"errors"
	"fmt"

	"greenride/internal/ride/domain"

	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	q querier
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, role, password_hash, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.Role,
		user.PasswordHash, user.Rating, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT id, username, email, role, password_hash, rating, created_at FROM users WHERE id = $1`
	return r.scanUser(r.q.QueryRow(ctx, query, userID))
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, email, role, password_hash, rating, created_at FROM users WHERE username = $1`
	return r.scanUser(r.q.QueryRow(ctx, query, username))
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Role,
		&user.PasswordHash, &user.Rating, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
