package repository

import (
	"context"
	"errors"
	"fmt"

	"greenride/internal/ride/domain"

	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	q querier
}

func (r *notificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, category, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.q.Exec(ctx, query,
		notification.ID, notification.RecipientID, notification.Message,
		string(notification.Category), notification.Read, notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) FindByID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	query := `SELECT id, user_id, message, category, is_read, created_at FROM notifications WHERE id = $1`

	notification := &domain.Notification{}
	err := r.q.QueryRow(ctx, query, notificationID).Scan(
		&notification.ID, &notification.RecipientID, &notification.Message,
		&notification.Category, &notification.Read, &notification.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	return notification, nil
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, message, category, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		notification := &domain.Notification{}
		err := rows.Scan(
			&notification.ID, &notification.RecipientID, &notification.Message,
			&notification.Category, &notification.Read, &notification.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) ExistsByRecipientAndMessage(ctx context.Context, recipientID, message string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM notifications WHERE user_id = $1 AND message = $2)`
	if err := r.q.QueryRow(ctx, query, recipientID, message).Scan(&exists); err != nil {
		return false, fmt.Errorf("query notification existence: %w", err)
	}
	return exists, nil
}

func (r *notificationRepository) Update(ctx context.Context, notification *domain.Notification) error {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET is_read = $2 WHERE id = $1`,
		notification.ID, notification.Read)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
