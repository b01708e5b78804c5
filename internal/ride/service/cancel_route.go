package service

import (
	"context"
	"fmt"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"
)

// CancelRouteCommand represents a driver cancelling their whole route
type CancelRouteCommand struct {
	RouteID  string
	DriverID string
}

// CancelRouteResult reports the lateness classification of the
// cancellation.
type CancelRouteResult struct {
	LateCancellation bool   `json:"lateCancellation"`
	Message          string `json:"message"`
}

// CancelRouteUseCase handles driver-initiated cancellation: every
// current passenger is notified, then bookings and the route itself are
// removed. The passenger set is snapshotted before any deletion so no
// recipient is lost.
type CancelRouteUseCase struct {
	store    domain.Store
	notifier domain.Notifier
	clock    domain.Clock
	logger   logger.Logger
}

// NewCancelRouteUseCase creates a new use case instance
func NewCancelRouteUseCase(store domain.Store, notifier domain.Notifier, clock domain.Clock, log logger.Logger) *CancelRouteUseCase {
	return &CancelRouteUseCase{
		store:    store,
		notifier: notifier,
		clock:    clock,
		logger:   log,
	}
}

// Execute runs the use case
func (uc *CancelRouteUseCase) Execute(ctx context.Context, cmd CancelRouteCommand) (*CancelRouteResult, error) {
	var (
		passengerIDs []string
		destination  string
		assessment   domain.CancellationAssessment
	)

	err := uc.store.InTx(ctx, func(tx domain.Tx) error {
		route, err := tx.Routes().FindByIDForUpdate(ctx, cmd.RouteID)
		if err != nil {
			return err
		}

		if route.DriverID() != cmd.DriverID {
			return domain.ErrNotRouteOwner
		}
		if !route.CanBeCancelled() {
			return domain.ErrRideNotCancellable
		}

		assessment = domain.AssessCancellation(uc.clock.Now(), route.DepartureTime())

		// Snapshot the passenger set before anything is deleted.
		bookings, err := tx.Bookings().FindAllByRoute(ctx, cmd.RouteID)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		for _, booking := range bookings {
			passengerIDs = append(passengerIDs, booking.UserID)
		}

		if err := tx.Bookings().DeleteAllByRoute(ctx, cmd.RouteID); err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		if err := tx.Routes().Delete(ctx, cmd.RouteID); err != nil {
			return fmt.Errorf("delete route: %w", err)
		}

		destination = route.Destination()
		return nil
	})
	if err != nil {
		uc.logger.WithFields(logger.LogFields{
			"route_id": cmd.RouteID,
			"user_id":  cmd.DriverID,
		}).Error("cancel_route_failed", err)
		return nil, err
	}

	for _, passengerID := range passengerIDs {
		uc.notifier.Notify(ctx, passengerID, "The route to "+destination+" has been cancelled.", domain.CategoryCancellation)
	}

	message := "Route cancelled."
	if assessment.Late {
		message = "Late cancellation. Penalty may apply."
	}

	uc.logger.WithFields(logger.LogFields{
		"route_id":   cmd.RouteID,
		"user_id":    cmd.DriverID,
		"passengers": len(passengerIDs),
		"late":       assessment.Late,
	}).Info("route_cancelled", "Route cancelled")

	return &CancelRouteResult{
		LateCancellation: assessment.Late,
		Message:          message,
	}, nil
}
