package domain

import "time"

// NotificationCategory classifies why a notification was sent.
type NotificationCategory string

const (
	CategoryBooking       NotificationCategory = "BOOKING"
	CategoryConfirmation  NotificationCategory = "CONFIRMATION"
	CategoryCancellation  NotificationCategory = "CANCELLATION"
	CategoryBookingChange NotificationCategory = "BOOKING_CHANGE"
	CategoryReminder      NotificationCategory = "REMINDER"
)

// Notification is written only as a side effect of core operations.
// Nothing mutates it afterwards except the owner toggling the read flag.
type Notification struct {
	ID          string
	RecipientID string
	Message     string
	Category    NotificationCategory
	Read        bool
	CreatedAt   time.Time
}

// ReminderMessage builds the canonical reminder text. The reminder sweep
// deduplicates on this exact string, so it must stay stable.
func ReminderMessage(destination string) string {
	return "Your ride to " + destination + " starts soon!"
}
