package service

import (
	"context"
	"fmt"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"
)

// UpdateRideStatusCommand represents a driver moving their ride through
// its lifecycle.
type UpdateRideStatusCommand struct {
	RouteID  string
	DriverID string
	Status   domain.RouteStatus
}

// UpdateRideStatusUseCase enforces the lifecycle transition table and
// stamps actual departure/arrival times.
type UpdateRideStatusUseCase struct {
	store  domain.Store
	clock  domain.Clock
	logger logger.Logger
}

// NewUpdateRideStatusUseCase creates a new use case instance
func NewUpdateRideStatusUseCase(store domain.Store, clock domain.Clock, log logger.Logger) *UpdateRideStatusUseCase {
	return &UpdateRideStatusUseCase{
		store:  store,
		clock:  clock,
		logger: log,
	}
}

// Execute runs the use case
func (uc *UpdateRideStatusUseCase) Execute(ctx context.Context, cmd UpdateRideStatusCommand) error {
	err := uc.store.InTx(ctx, func(tx domain.Tx) error {
		route, err := tx.Routes().FindByIDForUpdate(ctx, cmd.RouteID)
		if err != nil {
			return err
		}

		if route.DriverID() != cmd.DriverID {
			return domain.ErrUnauthorized
		}

		if err := route.TransitionTo(cmd.Status, uc.clock.Now()); err != nil {
			return err
		}

		if err := tx.Routes().Update(ctx, route); err != nil {
			return fmt.Errorf("update route: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.WithFields(logger.LogFields{
			"route_id": cmd.RouteID,
			"status":   cmd.Status.String(),
		}).Error("update_ride_status_failed", err)
		return err
	}

	uc.logger.WithFields(logger.LogFields{
		"route_id": cmd.RouteID,
		"status":   cmd.Status.String(),
	}).Info("ride_status_updated", "Ride status updated")

	return nil
}
