package service

import (
	"context"
	"time"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"

	"github.com/google/uuid"
)

// NotificationEvent is the wire shape of a dispatched notification.
type NotificationEvent struct {
	ID          string                      `json:"id"`
	RecipientID string                      `json:"recipient_id"`
	Message     string                      `json:"message"`
	Category    domain.NotificationCategory `json:"category"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// EventPublisher is the interface for publishing notification events to
// the delivery fan-out.
type EventPublisher interface {
	Publish(ctx context.Context, event NotificationEvent) error
}

// Notifier persists notifications and pushes them to the delivery
// fan-out. Both steps are fire-and-forget from the caller's view: a
// failure is logged, never propagated, so a booking that committed can
// not be failed by its notifications.
type Notifier struct {
	store     domain.Store
	publisher EventPublisher
	clock     domain.Clock
	logger    logger.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(store domain.Store, publisher EventPublisher, clock domain.Clock, log logger.Logger) *Notifier {
	return &Notifier{
		store:     store,
		publisher: publisher,
		clock:     clock,
		logger:    log,
	}
}

// Notify implements domain.Notifier.
func (n *Notifier) Notify(ctx context.Context, recipientID, message string, category domain.NotificationCategory) {
	notification := &domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Message:     message,
		Category:    category,
		CreatedAt:   n.clock.Now(),
	}

	if err := n.store.Notifications().Save(ctx, notification); err != nil {
		n.logger.WithFields(logger.LogFields{
			"user_id":  recipientID,
			"category": string(category),
		}).Error("notification_save_failed", err)
		return
	}

	event := NotificationEvent{
		ID:          notification.ID,
		RecipientID: notification.RecipientID,
		Message:     notification.Message,
		Category:    notification.Category,
		CreatedAt:   notification.CreatedAt,
	}

	if err := n.publisher.Publish(ctx, event); err != nil {
		// The notification row is already saved; realtime delivery is
		// best effort.
		n.logger.WithFields(logger.LogFields{
			"user_id":  recipientID,
			"category": string(category),
		}).Error("notification_publish_failed", err)
		return
	}

	n.logger.WithFields(logger.LogFields{
		"user_id":  recipientID,
		"category": string(category),
	}).Debug("notification_dispatched", "Notification saved and published")
}
