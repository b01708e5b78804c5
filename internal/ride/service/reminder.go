package service

import (
	"context"
	"time"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"
)

// ReminderScheduler periodically scans upcoming bookings and sends each
// passenger a departure reminder. Sweeps run on a single goroutine so
// they never overlap; the stored-notification check makes the reminder
// per booking idempotent across sweeps and restarts.
type ReminderScheduler struct {
	store    domain.Store
	notifier domain.Notifier
	clock    domain.Clock
	interval time.Duration
	window   time.Duration
	logger   logger.Logger
	done     chan struct{}
}

// NewReminderScheduler creates a new scheduler. window is how far ahead
// of departure a reminder fires.
func NewReminderScheduler(store domain.Store, notifier domain.Notifier, clock domain.Clock, interval, window time.Duration, log logger.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		store:    store,
		notifier: notifier,
		clock:    clock,
		interval: interval,
		window:   window,
		logger:   log,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. It returns immediately.
func (rs *ReminderScheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(rs.interval)
		defer ticker.Stop()

		rs.logger.Info("reminder_scheduler_started", "Reminder scheduler running")

		for {
			select {
			case <-ctx.Done():
				return
			case <-rs.done:
				return
			case <-ticker.C:
				rs.sweep(ctx)
			}
		}
	}()
}

// Stop terminates the sweep loop.
func (rs *ReminderScheduler) Stop() {
	close(rs.done)
}

func (rs *ReminderScheduler) sweep(ctx context.Context) {
	bookings, err := rs.store.Bookings().FindAll(ctx)
	if err != nil {
		rs.logger.Error("reminder_sweep_failed", err)
		return
	}

	now := rs.clock.Now()
	horizon := now.Add(rs.window)

	for _, booking := range bookings {
		route, err := rs.store.Routes().FindByID(ctx, booking.RouteID)
		if err != nil {
			rs.logger.WithFields(logger.LogFields{
				"route_id": booking.RouteID,
				"user_id":  booking.UserID,
			}).Error("reminder_route_lookup_failed", err)
			continue
		}

		departure := route.DepartureTime()
		if !departure.After(now) || !departure.Before(horizon) {
			continue
		}

		message := domain.ReminderMessage(route.Destination())

		sent, err := rs.store.Notifications().ExistsByRecipientAndMessage(ctx, booking.UserID, message)
		if err != nil {
			rs.logger.WithFields(logger.LogFields{
				"route_id": booking.RouteID,
				"user_id":  booking.UserID,
			}).Error("reminder_dedupe_check_failed", err)
			continue
		}
		if sent {
			continue
		}

		rs.notifier.Notify(ctx, booking.UserID, message, domain.CategoryReminder)

		rs.logger.WithFields(logger.LogFields{
			"route_id": booking.RouteID,
			"user_id":  booking.UserID,
		}).Debug("reminder_sent", "Departure reminder dispatched")
	}
}
