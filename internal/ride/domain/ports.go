package domain

import (
	"context"
	"time"
)

// RouteRepository is the port for route persistence.
type RouteRepository interface {
	// Save persists a new route
	Save(ctx context.Context, route *Route) error

	// Update updates an existing route
	Update(ctx context.Context, route *Route) error

	// FindByID retrieves a route by its ID
	FindByID(ctx context.Context, routeID string) (*Route, error)

	// FindByIDForUpdate retrieves a route and holds it locked for the
	// rest of the enclosing transaction. Seat accounting goes through
	// this lock so concurrent bookings on one route serialize.
	FindByIDForUpdate(ctx context.Context, routeID string) (*Route, error)

	// FindAll retrieves every route, optionally filtered by a
	// case-insensitive destination substring.
	FindAll(ctx context.Context, destination string) ([]*Route, error)

	// Delete removes a route
	Delete(ctx context.Context, routeID string) error

	// Stats aggregates fleet-wide route figures for the admin overview.
	Stats(ctx context.Context) (*RouteStats, error)
}

// RouteStats is the admin overview aggregate.
type RouteStats struct {
	TotalRoutes        int64
	AvgDistanceKm      float64
	AvgAvailableSeats  float64
	PopularDestination string
}

// BookingRepository is the port for booking persistence.
type BookingRepository interface {
	Save(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, bookingID string) error
	DeleteAllByRoute(ctx context.Context, routeID string) error
	ExistsByUserAndRoute(ctx context.Context, userID, routeID string) (bool, error)
	FindByUserAndRoute(ctx context.Context, userID, routeID string) (*Booking, error)
	FindAllByRoute(ctx context.Context, routeID string) ([]*Booking, error)
	FindAllByUser(ctx context.Context, userID string) ([]*Booking, error)
	FindAll(ctx context.Context) ([]*Booking, error)
}

// UserRepository is the user-lookup capability the core consumes.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, userID string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// NotificationRepository is the port for the notification log.
type NotificationRepository interface {
	Save(ctx context.Context, notification *Notification) error
	FindByID(ctx context.Context, notificationID string) (*Notification, error)
	FindByRecipient(ctx context.Context, recipientID string) ([]*Notification, error)
	ExistsByRecipientAndMessage(ctx context.Context, recipientID, message string) (bool, error)
	Update(ctx context.Context, notification *Notification) error
}

// Tx exposes the repositories bound to one transaction.
type Tx interface {
	Routes() RouteRepository
	Bookings() BookingRepository
	Users() UserRepository
	Notifications() NotificationRepository
}

// Store is the persistence capability for the whole core. Repositories
// obtained outside InTx auto-commit per call.
type Store interface {
	Tx

	// InTx runs fn inside a single transaction; fn returning an error
	// rolls everything back.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Notifier is the fire-and-forget notification dispatch contract.
// Implementations must never fail the calling operation.
type Notifier interface {
	Notify(ctx context.Context, recipientID, message string, category NotificationCategory)
}

// Clock is injected rather than read ambiently so tests can control the
// lateness-window and reminder edge cases.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
