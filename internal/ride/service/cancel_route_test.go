package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"greenride/internal/ride/domain"
)

func TestCancelRoute(t *testing.T) {
	departure := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	setup := func(t *testing.T, now time.Time) (*memStore, *recordingNotifier, *CancelRouteUseCase) {
		store := newMemStore()
		notifier := &recordingNotifier{}
		clock := newFakeClock(now)
		seedUser(t, store, "driver-1", "dave", "DRIVER")
		seedUser(t, store, "passenger-1", "alice", "PASSENGER")
		seedUser(t, store, "passenger-2", "bob", "PASSENGER")
		seedRoute(t, store, "route-1", "driver-1", "Airport", departure, 1)
		seedBooking(t, store, "booking-1", "passenger-1", "route-1", now.Add(-2*time.Hour))
		seedBooking(t, store, "booking-2", "passenger-2", "route-1", now.Add(-time.Hour))
		return store, notifier, NewCancelRouteUseCase(store, notifier, clock, testLog)
	}

	t.Run("cancellation cascades and notifies every passenger", func(t *testing.T) {
		store, notifier, uc := setup(t, departure.Add(-2*time.Hour))

		result, err := uc.Execute(context.Background(), CancelRouteCommand{RouteID: "route-1", DriverID: "driver-1"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if result.LateCancellation {
			t.Error("cancellation two hours out should not be late")
		}
		if result.Message != "Route cancelled." {
			t.Errorf("message = %q", result.Message)
		}

		if _, err := store.Routes().FindByID(context.Background(), "route-1"); !errors.Is(err, domain.ErrRouteNotFound) {
			t.Errorf("route still present: %v", err)
		}
		bookings, _ := store.Bookings().FindAllByRoute(context.Background(), "route-1")
		if len(bookings) != 0 {
			t.Errorf("bookings remaining = %d", len(bookings))
		}

		for _, passengerID := range []string{"passenger-1", "passenger-2"} {
			msgs := notifier.forRecipient(passengerID)
			if len(msgs) != 1 {
				t.Fatalf("%s: notifications = %d, want 1", passengerID, len(msgs))
			}
			if msgs[0].Message != "The route to Airport has been cancelled." {
				t.Errorf("%s: message = %q", passengerID, msgs[0].Message)
			}
			if msgs[0].Category != domain.CategoryCancellation {
				t.Errorf("%s: category = %s", passengerID, msgs[0].Category)
			}
		}
	})

	t.Run("late cancellation is flagged", func(t *testing.T) {
		_, _, uc := setup(t, departure.Add(-10*time.Minute))

		result, err := uc.Execute(context.Background(), CancelRouteCommand{RouteID: "route-1", DriverID: "driver-1"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if !result.LateCancellation {
			t.Error("expected late flag at ten minutes out")
		}
		if result.Message != "Late cancellation. Penalty may apply." {
			t.Errorf("message = %q", result.Message)
		}
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		store, notifier, uc := setup(t, departure.Add(-2*time.Hour))

		_, err := uc.Execute(context.Background(), CancelRouteCommand{RouteID: "route-1", DriverID: "passenger-1"})
		if !errors.Is(err, domain.ErrNotRouteOwner) {
			t.Errorf("expected ErrNotRouteOwner, got %v", err)
		}
		if _, err := store.Routes().FindByID(context.Background(), "route-1"); err != nil {
			t.Errorf("route should be untouched: %v", err)
		}
		if len(notifier.all()) != 0 {
			t.Error("notifications sent for rejected cancellation")
		}
	})

	t.Run("started ride cannot be cancelled", func(t *testing.T) {
		store, _, uc := setup(t, departure.Add(-2*time.Hour))

		route, _ := store.Routes().FindByID(context.Background(), "route-1")
		if err := route.TransitionTo(domain.StatusInProgress, departure); err != nil {
			t.Fatalf("TransitionTo: %v", err)
		}
		if err := store.Routes().Update(context.Background(), route); err != nil {
			t.Fatalf("Update: %v", err)
		}

		_, err := uc.Execute(context.Background(), CancelRouteCommand{RouteID: "route-1", DriverID: "driver-1"})
		if !errors.Is(err, domain.ErrRideNotCancellable) {
			t.Errorf("expected ErrRideNotCancellable, got %v", err)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		_, _, uc := setup(t, departure.Add(-2*time.Hour))
		_, err := uc.Execute(context.Background(), CancelRouteCommand{RouteID: "nope", DriverID: "driver-1"})
		if !errors.Is(err, domain.ErrRouteNotFound) {
			t.Errorf("expected ErrRouteNotFound, got %v", err)
		}
	})
}
