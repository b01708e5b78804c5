package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"greenride/internal/ride/service"
	"greenride/pkg/rabbitmq"
)

// NotificationPublisher publishes notification events to the topic
// exchange, routed by category.
type NotificationPublisher struct {
	mq *rabbitmq.Connection
}

// NewNotificationPublisher creates a new publisher instance
func NewNotificationPublisher(mq *rabbitmq.Connection) *NotificationPublisher {
	return &NotificationPublisher{mq: mq}
}

// Publish implements service.EventPublisher.
func (p *NotificationPublisher) Publish(ctx context.Context, event service.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	routingKey := "notification." + strings.ToLower(string(event.Category))
	return p.mq.Publish(ctx, rabbitmq.NotificationExchange, routingKey, body)
}
