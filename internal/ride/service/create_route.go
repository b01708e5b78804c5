package service

import (
	"context"
	"fmt"
	"time"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"

	"github.com/google/uuid"
)

// fallbackDurationMin is used when the caller supplies no duration
// estimate, matching the behavior when the external planner is down.
const fallbackDurationMin = 60.0

// CreateRouteCommand represents the input for publishing a route
type CreateRouteCommand struct {
	DriverID       string
	StartLocation  string
	Destination    string
	DepartureTime  time.Time
	AvailableSeats int
	CostPerSeat    float64
	DistanceKm     float64
	DurationMin    float64
}

// RouteDTO represents the output data transfer object
type RouteDTO struct {
	ID                  string  `json:"id"`
	DriverID            string  `json:"driver_id"`
	StartLocation       string  `json:"start_location"`
	Destination         string  `json:"destination"`
	DepartureTime       string  `json:"departure_time"`
	AvailableSeats      int     `json:"available_seats"`
	CostPerSeat         float64 `json:"cost_per_seat"`
	Status              string  `json:"status"`
	DistanceKm          float64 `json:"distance_km"`
	DurationMin         float64 `json:"duration_min"`
	ActualDepartureTime string  `json:"actual_departure_time,omitempty"`
	ActualArrivalTime   string  `json:"actual_arrival_time,omitempty"`
}

// CreateRouteUseCase handles the business workflow for publishing a ride
type CreateRouteUseCase struct {
	store  domain.Store
	clock  domain.Clock
	logger logger.Logger
}

// NewCreateRouteUseCase creates a new use case instance
func NewCreateRouteUseCase(store domain.Store, clock domain.Clock, log logger.Logger) *CreateRouteUseCase {
	return &CreateRouteUseCase{
		store:  store,
		clock:  clock,
		logger: log,
	}
}

// Execute runs the use case
func (uc *CreateRouteUseCase) Execute(ctx context.Context, cmd CreateRouteCommand) (*RouteDTO, error) {
	if _, err := uc.store.Users().FindByID(ctx, cmd.DriverID); err != nil {
		uc.logger.WithFields(logger.LogFields{
			"user_id": cmd.DriverID,
		}).Error("create_route_driver_lookup_failed", err)
		return nil, err
	}

	route, err := domain.NewRoute(
		cmd.DriverID,
		cmd.StartLocation,
		cmd.Destination,
		cmd.DepartureTime,
		cmd.AvailableSeats,
		cmd.CostPerSeat,
		uc.clock.Now(),
	)
	if err != nil {
		uc.logger.Error("create_route_entity_failed", err)
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	durationMin := cmd.DurationMin
	if durationMin == 0 {
		durationMin = fallbackDurationMin
	}
	route.SetMetrics(cmd.DistanceKm, durationMin)
	route.SetID(uuid.NewString())

	if err := uc.store.Routes().Save(ctx, route); err != nil {
		uc.logger.Error("save_route_failed", err)
		return nil, fmt.Errorf("failed to save route: %w", err)
	}

	uc.logger.WithFields(logger.LogFields{
		"route_id": route.ID(),
		"user_id":  cmd.DriverID,
	}).Info("route_created", "Route published")

	return toRouteDTO(route), nil
}

// toRouteDTO converts domain entity to DTO
func toRouteDTO(route *domain.Route) *RouteDTO {
	dto := &RouteDTO{
		ID:             route.ID(),
		DriverID:       route.DriverID(),
		StartLocation:  route.StartLocation(),
		Destination:    route.Destination(),
		DepartureTime:  route.DepartureTime().Format(time.RFC3339),
		AvailableSeats: route.AvailableSeats(),
		CostPerSeat:    route.CostPerSeat(),
		Status:         route.Status().String(),
		DistanceKm:     route.DistanceKm(),
		DurationMin:    route.DurationMin(),
	}
	if t := route.ActualDepartureTime(); t != nil {
		dto.ActualDepartureTime = t.Format(time.RFC3339)
	}
	if t := route.ActualArrivalTime(); t != nil {
		dto.ActualArrivalTime = t.Format(time.RFC3339)
	}
	return dto
}
