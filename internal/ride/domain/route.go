package domain

import (
	"errors"
	"fmt"
	"time"
)

// RouteStatus represents the lifecycle state of a published route
type RouteStatus string

const (
	StatusScheduled  RouteStatus = "SCHEDULED"
	StatusInProgress RouteStatus = "IN_PROGRESS"
	StatusCompleted  RouteStatus = "COMPLETED"
)

// String returns string representation of status
func (s RouteStatus) String() string {
	return string(s)
}

// IsValid checks if status is valid
func (s RouteStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving to next is a legal transition.
// COMPLETED is terminal; a SCHEDULED ride may also be finished directly.
func (s RouteStatus) CanTransitionTo(next RouteStatus) bool {
	switch s {
	case StatusScheduled:
		return next == StatusInProgress || next == StatusCompleted
	case StatusInProgress:
		return next == StatusCompleted
	}
	return false
}

// Route is the core domain entity: a published ride offer with a fixed
// seat capacity and departure time.
type Route struct {
	id                  string
	driverID            string
	startLocation       string
	destination         string
	departureTime       time.Time
	availableSeats      int
	costPerSeat         float64
	status              RouteStatus
	distanceKm          float64
	durationMin         float64
	actualDepartureTime *time.Time
	actualArrivalTime   *time.Time
	createdAt           time.Time
}

// NewRoute creates a new scheduled route with validation
func NewRoute(
	driverID string,
	startLocation string,
	destination string,
	departureTime time.Time,
	availableSeats int,
	costPerSeat float64,
	now time.Time,
) (*Route, error) {
	if driverID == "" {
		return nil, errors.New("driver id is required")
	}
	if startLocation == "" || destination == "" {
		return nil, errors.New("start location and destination are required")
	}
	if availableSeats < 1 {
		return nil, errors.New("a route must offer at least one seat")
	}
	if costPerSeat < 0 {
		return nil, errors.New("cost per seat must not be negative")
	}

	return &Route{
		driverID:       driverID,
		startLocation:  startLocation,
		destination:    destination,
		departureTime:  departureTime,
		availableSeats: availableSeats,
		costPerSeat:    costPerSeat,
		status:         StatusScheduled,
		createdAt:      now,
	}, nil
}

// ReconstructRoute reconstructs a route from persistence (used by repository)
func ReconstructRoute(
	id string,
	driverID string,
	startLocation string,
	destination string,
	departureTime time.Time,
	availableSeats int,
	costPerSeat float64,
	status RouteStatus,
	distanceKm float64,
	durationMin float64,
	actualDepartureTime *time.Time,
	actualArrivalTime *time.Time,
	createdAt time.Time,
) *Route {
	return &Route{
		id:                  id,
		driverID:            driverID,
		startLocation:       startLocation,
		destination:         destination,
		departureTime:       departureTime,
		availableSeats:      availableSeats,
		costPerSeat:         costPerSeat,
		status:              status,
		distanceKm:          distanceKm,
		durationMin:         durationMin,
		actualDepartureTime: actualDepartureTime,
		actualArrivalTime:   actualArrivalTime,
		createdAt:           createdAt,
	}
}

// Business methods

// CanAcceptBooking runs the booking preconditions in order; the first
// failure wins. The duplicate check needs storage, so the caller passes
// the lookup result in.
func (r *Route) CanAcceptBooking(passengerID string, alreadyBooked bool) error {
	if r.availableSeats <= 0 {
		return ErrNoSeatsAvailable
	}
	if alreadyBooked {
		return ErrAlreadyBooked
	}
	if r.driverID == passengerID {
		return ErrSelfBooking
	}
	return nil
}

// TakeSeat claims one seat. Seats never go negative.
func (r *Route) TakeSeat() error {
	if r.availableSeats <= 0 {
		return ErrNoSeatsAvailable
	}
	r.availableSeats--
	return nil
}

// ReleaseSeat returns one seat after a booking is cancelled.
func (r *Route) ReleaseSeat() {
	r.availableSeats++
}

// TransitionTo moves the route to the next lifecycle state, stamping the
// actual departure/arrival time.
func (r *Route) TransitionTo(next RouteStatus, now time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	if !r.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.status, next)
	}

	switch next {
	case StatusInProgress:
		r.actualDepartureTime = &now
	case StatusCompleted:
		r.actualArrivalTime = &now
	}
	r.status = next
	return nil
}

// CanBeCancelled checks if the route can still be cancelled.
// Cancellation is an exit from SCHEDULED only.
func (r *Route) CanBeCancelled() bool {
	return r.status == StatusScheduled
}

// SetMetrics records the pre-computed distance and duration estimates.
func (r *Route) SetMetrics(distanceKm, durationMin float64) {
	r.distanceKm = distanceKm
	r.durationMin = durationMin
}

// Getters (encapsulation)

func (r *Route) ID() string                      { return r.id }
func (r *Route) DriverID() string                { return r.driverID }
func (r *Route) StartLocation() string           { return r.startLocation }
func (r *Route) Destination() string             { return r.destination }
func (r *Route) DepartureTime() time.Time        { return r.departureTime }
func (r *Route) AvailableSeats() int             { return r.availableSeats }
func (r *Route) CostPerSeat() float64            { return r.costPerSeat }
func (r *Route) Status() RouteStatus             { return r.status }
func (r *Route) DistanceKm() float64             { return r.distanceKm }
func (r *Route) DurationMin() float64            { return r.durationMin }
func (r *Route) ActualDepartureTime() *time.Time { return r.actualDepartureTime }
func (r *Route) ActualArrivalTime() *time.Time   { return r.actualArrivalTime }
func (r *Route) CreatedAt() time.Time            { return r.createdAt }

// SetID sets the route ID (used after persistence)
func (r *Route) SetID(id string) {
	r.id = id
}
