package service

import (
	"context"
	"fmt"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"

	"github.com/google/uuid"
)

// BookSeatCommand represents the input for booking a seat
type BookSeatCommand struct {
	RouteID string
	UserID  string
}

// BookSeatUseCase handles the business workflow for booking one seat.
// The seat decrement, the booking insert and the route persist happen in
// a single transaction holding the route row lock, so two concurrent
// bookers can never both take the last seat.
type BookSeatUseCase struct {
	store    domain.Store
	notifier domain.Notifier
	clock    domain.Clock
	logger   logger.Logger
}

// NewBookSeatUseCase creates a new use case instance
func NewBookSeatUseCase(store domain.Store, notifier domain.Notifier, clock domain.Clock, log logger.Logger) *BookSeatUseCase {
	return &BookSeatUseCase{
		store:    store,
		notifier: notifier,
		clock:    clock,
		logger:   log,
	}
}

// Execute runs the use case
func (uc *BookSeatUseCase) Execute(ctx context.Context, cmd BookSeatCommand) error {
	var (
		passenger *domain.User
		driverID  string
	)

	err := uc.store.InTx(ctx, func(tx domain.Tx) error {
		route, err := tx.Routes().FindByIDForUpdate(ctx, cmd.RouteID)
		if err != nil {
			return err
		}

		alreadyBooked, err := tx.Bookings().ExistsByUserAndRoute(ctx, cmd.UserID, cmd.RouteID)
		if err != nil {
			return fmt.Errorf("check existing booking: %w", err)
		}

		if err := route.CanAcceptBooking(cmd.UserID, alreadyBooked); err != nil {
			return err
		}

		passenger, err = tx.Users().FindByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}

		if err := route.TakeSeat(); err != nil {
			return err
		}
		if err := tx.Routes().Update(ctx, route); err != nil {
			return fmt.Errorf("update route: %w", err)
		}

		booking := &domain.Booking{
			ID:        uuid.NewString(),
			UserID:    cmd.UserID,
			RouteID:   cmd.RouteID,
			CreatedAt: uc.clock.Now(),
		}
		if err := tx.Bookings().Save(ctx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}

		driverID = route.DriverID()
		return nil
	})
	if err != nil {
		uc.logger.WithFields(logger.LogFields{
			"route_id": cmd.RouteID,
			"user_id":  cmd.UserID,
		}).Error("book_seat_failed", err)
		return err
	}

	// Notifications are outside the transaction on purpose: the booking
	// has committed and must not be failed by dispatch.
	uc.notifier.Notify(ctx, driverID, passenger.Username+" joined your ride", domain.CategoryBooking)
	uc.notifier.Notify(ctx, cmd.UserID, "Booking confirmed!", domain.CategoryConfirmation)

	uc.logger.WithFields(logger.LogFields{
		"route_id": cmd.RouteID,
		"user_id":  cmd.UserID,
	}).Info("seat_booked", "Seat booked")

	return nil
}
