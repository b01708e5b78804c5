package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"greenride/internal/ride/domain"
)

func TestCancelBooking(t *testing.T) {
	departure := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	setup := func(t *testing.T, now time.Time) (*memStore, *recordingNotifier, *CancelBookingUseCase) {
		store := newMemStore()
		notifier := &recordingNotifier{}
		clock := newFakeClock(now)
		seedUser(t, store, "driver-1", "dave", "DRIVER")
		seedUser(t, store, "passenger-1", "alice", "PASSENGER")
		seedRoute(t, store, "route-1", "driver-1", "Airport", departure, 2)
		seedBooking(t, store, "booking-1", "passenger-1", "route-1", now.Add(-time.Hour))
		return store, notifier, NewCancelBookingUseCase(store, notifier, clock, testLog)
	}

	t.Run("timely cancellation refunds and restores the seat", func(t *testing.T) {
		store, notifier, uc := setup(t, departure.Add(-2*time.Hour))

		result, err := uc.Execute(context.Background(), CancelBookingCommand{RouteID: "route-1", UserID: "passenger-1"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if !result.Refunded {
			t.Error("expected refund")
		}
		if result.Message != "Booking cancelled. Refund processing." {
			t.Errorf("message = %q", result.Message)
		}

		route, _ := store.Routes().FindByID(context.Background(), "route-1")
		if route.AvailableSeats() != 3 {
			t.Errorf("seats = %d, want 3", route.AvailableSeats())
		}
		if _, err := store.Bookings().FindByUserAndRoute(context.Background(), "passenger-1", "route-1"); !errors.Is(err, domain.ErrBookingNotFound) {
			t.Errorf("booking still present: %v", err)
		}

		driverMsgs := notifier.forRecipient("driver-1")
		if len(driverMsgs) != 1 || driverMsgs[0].Message != "alice cancelled their booking." || driverMsgs[0].Category != domain.CategoryBookingChange {
			t.Errorf("driver notification = %+v", driverMsgs)
		}
	})

	t.Run("late cancellation forfeits the refund but still frees the seat", func(t *testing.T) {
		store, _, uc := setup(t, departure.Add(-5*time.Minute))

		result, err := uc.Execute(context.Background(), CancelBookingCommand{RouteID: "route-1", UserID: "passenger-1"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if result.Refunded {
			t.Error("expected no refund inside the late window")
		}
		if result.Message != "Late cancellation. No refund." {
			t.Errorf("message = %q", result.Message)
		}

		route, _ := store.Routes().FindByID(context.Background(), "route-1")
		if route.AvailableSeats() != 3 {
			t.Errorf("seats = %d, want 3", route.AvailableSeats())
		}
	})

	t.Run("post-departure cancellation of a scheduled route is not late", func(t *testing.T) {
		_, _, uc := setup(t, departure.Add(30*time.Minute))

		result, err := uc.Execute(context.Background(), CancelBookingCommand{RouteID: "route-1", UserID: "passenger-1"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if !result.Refunded {
			t.Error("expected refund after departure time on a still-scheduled route")
		}
	})

	t.Run("no booking to cancel", func(t *testing.T) {
		_, notifier, uc := setup(t, departure.Add(-2*time.Hour))

		_, err := uc.Execute(context.Background(), CancelBookingCommand{RouteID: "route-1", UserID: "driver-1"})
		if !errors.Is(err, domain.ErrBookingNotFound) {
			t.Errorf("expected ErrBookingNotFound, got %v", err)
		}
		if len(notifier.all()) != 0 {
			t.Error("notification sent for failed cancellation")
		}
	})

	t.Run("ride already started", func(t *testing.T) {
		store, _, uc := setup(t, departure.Add(-2*time.Hour))

		route, _ := store.Routes().FindByID(context.Background(), "route-1")
		if err := route.TransitionTo(domain.StatusInProgress, departure); err != nil {
			t.Fatalf("TransitionTo: %v", err)
		}
		if err := store.Routes().Update(context.Background(), route); err != nil {
			t.Fatalf("Update: %v", err)
		}

		_, err := uc.Execute(context.Background(), CancelBookingCommand{RouteID: "route-1", UserID: "passenger-1"})
		if !errors.Is(err, domain.ErrRideNotCancellable) {
			t.Errorf("expected ErrRideNotCancellable, got %v", err)
		}
	})

	t.Run("book then cancel round trip restores capacity", func(t *testing.T) {
		store, notifier, _ := setup(t, departure.Add(-2*time.Hour))
		clock := newFakeClock(departure.Add(-2 * time.Hour))
		seedUser(t, store, "passenger-2", "bob", "PASSENGER")

		book := NewBookSeatUseCase(store, notifier, clock, testLog)
		cancel := NewCancelBookingUseCase(store, notifier, clock, testLog)

		if err := book.Execute(context.Background(), BookSeatCommand{RouteID: "route-1", UserID: "passenger-2"}); err != nil {
			t.Fatalf("book: %v", err)
		}
		if _, err := cancel.Execute(context.Background(), CancelBookingCommand{RouteID: "route-1", UserID: "passenger-2"}); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		route, _ := store.Routes().FindByID(context.Background(), "route-1")
		if route.AvailableSeats() != 2 {
			t.Errorf("seats = %d, want 2 after round trip", route.AvailableSeats())
		}
	})
}
