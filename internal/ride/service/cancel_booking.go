package service

import (
	"context"
	"fmt"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"
)

// CancelBookingCommand represents a passenger cancelling their own booking
type CancelBookingCommand struct {
	RouteID string
	UserID  string
}

// CancelBookingResult reports refund eligibility derived from the
// lateness window.
type CancelBookingResult struct {
	Refunded bool   `json:"isRefunded"`
	Message  string `json:"message"`
}

// CancelBookingUseCase handles passenger-initiated cancellation. Seat
// release shares the route row lock with booking, so the two never race.
type CancelBookingUseCase struct {
	store    domain.Store
	notifier domain.Notifier
	clock    domain.Clock
	logger   logger.Logger
}

// NewCancelBookingUseCase creates a new use case instance
func NewCancelBookingUseCase(store domain.Store, notifier domain.Notifier, clock domain.Clock, log logger.Logger) *CancelBookingUseCase {
	return &CancelBookingUseCase{
		store:    store,
		notifier: notifier,
		clock:    clock,
		logger:   log,
	}
}

// Execute runs the use case
func (uc *CancelBookingUseCase) Execute(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	var (
		driverID   string
		username   string
		assessment domain.CancellationAssessment
	)

	err := uc.store.InTx(ctx, func(tx domain.Tx) error {
		route, err := tx.Routes().FindByIDForUpdate(ctx, cmd.RouteID)
		if err != nil {
			return err
		}

		booking, err := tx.Bookings().FindByUserAndRoute(ctx, cmd.UserID, cmd.RouteID)
		if err != nil {
			return err
		}

		if !route.CanBeCancelled() {
			return domain.ErrRideNotCancellable
		}

		assessment = domain.AssessCancellation(uc.clock.Now(), route.DepartureTime())

		passenger, err := tx.Users().FindByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}

		if err := tx.Bookings().Delete(ctx, booking.ID); err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		route.ReleaseSeat()
		if err := tx.Routes().Update(ctx, route); err != nil {
			return fmt.Errorf("update route: %w", err)
		}

		driverID = route.DriverID()
		username = passenger.Username
		return nil
	})
	if err != nil {
		uc.logger.WithFields(logger.LogFields{
			"route_id": cmd.RouteID,
			"user_id":  cmd.UserID,
		}).Error("cancel_booking_failed", err)
		return nil, err
	}

	uc.notifier.Notify(ctx, driverID, username+" cancelled their booking.", domain.CategoryBookingChange)

	message := "Booking cancelled. Refund processing."
	if assessment.Late {
		message = "Late cancellation. No refund."
	}

	uc.logger.WithFields(logger.LogFields{
		"route_id": cmd.RouteID,
		"user_id":  cmd.UserID,
		"late":     assessment.Late,
	}).Info("booking_cancelled", "Booking cancelled")

	return &CancelBookingResult{
		Refunded: !assessment.Late,
		Message:  message,
	}, nil
}
