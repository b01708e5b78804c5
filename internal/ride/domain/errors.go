package domain

import "errors"

// Domain errors. All of them are user-facing and recoverable; the HTTP
// layer maps each one to a stable code and status.
var (
	ErrRouteNotFound        = errors.New("route not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoSeatsAvailable     = errors.New("no seats available")
	ErrAlreadyBooked        = errors.New("already booked")
	ErrSelfBooking          = errors.New("cannot book your own ride")
	ErrNotRouteOwner        = errors.New("only the driver can cancel the route")
	ErrRideNotCancellable   = errors.New("cannot cancel an in-progress or completed ride")
	ErrInvalidTransition    = errors.New("invalid ride status transition")
	ErrUnauthorized         = errors.New("not allowed to perform this action")
)
