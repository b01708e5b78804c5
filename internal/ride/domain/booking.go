package domain

import "time"

// Booking is a passenger's reservation of one seat on a route.
// At most one booking may exist per (user, route) pair.
type Booking struct {
	ID        string
	UserID    string
	RouteID   string
	CreatedAt time.Time
}
