package messaging

import (
	"encoding/json"

	"greenride/internal/ride/service"
	"greenride/pkg/logger"
	"greenride/pkg/rabbitmq"
	"greenride/pkg/websocket"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationConsumer drains the delivery queue and pushes each event
// to the recipient's live WebSocket connection, if any.
type NotificationConsumer struct {
	mq      *rabbitmq.Connection
	manager *websocket.Manager
	logger  logger.Logger
}

// NewNotificationConsumer creates a new consumer instance
func NewNotificationConsumer(mq *rabbitmq.Connection, manager *websocket.Manager, log logger.Logger) *NotificationConsumer {
	return &NotificationConsumer{
		mq:      mq,
		manager: manager,
		logger:  log,
	}
}

// StartConsuming begins consuming from the notification queue.
func (c *NotificationConsumer) StartConsuming() error {
	return c.mq.Consume(rabbitmq.NotificationQueue, c.handleMessage)
}

func (c *NotificationConsumer) handleMessage(msg amqp.Delivery) {
	var event service.NotificationEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error("notification_unmarshal_failed", err)
		// Malformed payload will never parse; drop it.
		msg.Nack(false, false)
		return
	}

	if err := c.manager.SendToUser(event.RecipientID, event); err != nil {
		c.logger.WithFields(logger.LogFields{
			"user_id": event.RecipientID,
		}).Error("notification_push_failed", err)
	}

	msg.Ack(false)
}
