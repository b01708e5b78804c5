package service

import (
	"context"
	"fmt"
	"time"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"
)

// PassengerDTO is the public view of a passenger on a route.
type PassengerDTO struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Rating   float64 `json:"rating"`
}

// NotificationDTO is the public view of a stored notification.
type NotificationDTO struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Category  string `json:"category"`
	Read      bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// QueryService groups the read-side operations that need no workflow of
// their own.
type QueryService struct {
	store  domain.Store
	logger logger.Logger
}

// NewQueryService creates a new query service instance
func NewQueryService(store domain.Store, log logger.Logger) *QueryService {
	return &QueryService{
		store:  store,
		logger: log,
	}
}

// ListRoutes returns all routes, optionally filtered by destination substring.
func (qs *QueryService) ListRoutes(ctx context.Context, destination string) ([]*RouteDTO, error) {
	routes, err := qs.store.Routes().FindAll(ctx, destination)
	if err != nil {
		qs.logger.Error("list_routes_failed", err)
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	dtos := make([]*RouteDTO, 0, len(routes))
	for _, route := range routes {
		dtos = append(dtos, toRouteDTO(route))
	}
	return dtos, nil
}

// GetRoute returns a single route by ID.
func (qs *QueryService) GetRoute(ctx context.Context, routeID string) (*RouteDTO, error) {
	route, err := qs.store.Routes().FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return toRouteDTO(route), nil
}

// GetPassengers returns the users currently booked on a route.
func (qs *QueryService) GetPassengers(ctx context.Context, routeID string) ([]*PassengerDTO, error) {
	if _, err := qs.store.Routes().FindByID(ctx, routeID); err != nil {
		return nil, err
	}

	bookings, err := qs.store.Bookings().FindAllByRoute(ctx, routeID)
	if err != nil {
		qs.logger.WithFields(logger.LogFields{
			"route_id": routeID,
		}).Error("list_passengers_failed", err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	passengers := make([]*PassengerDTO, 0, len(bookings))
	for _, booking := range bookings {
		user, err := qs.store.Users().FindByID(ctx, booking.UserID)
		if err != nil {
			qs.logger.WithFields(logger.LogFields{
				"route_id": routeID,
				"user_id":  booking.UserID,
			}).Error("passenger_lookup_failed", err)
			continue
		}
		passengers = append(passengers, &PassengerDTO{
			ID:       user.ID,
			Username: user.Username,
			Rating:   user.Rating,
		})
	}
	return passengers, nil
}

// GetBookedRouteIDs returns the IDs of every route the user has booked.
func (qs *QueryService) GetBookedRouteIDs(ctx context.Context, userID string) ([]string, error) {
	bookings, err := qs.store.Bookings().FindAllByUser(ctx, userID)
	if err != nil {
		qs.logger.WithFields(logger.LogFields{
			"user_id": userID,
		}).Error("list_booked_routes_failed", err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	routeIDs := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		routeIDs = append(routeIDs, booking.RouteID)
	}
	return routeIDs, nil
}

// ListNotifications returns the user's notifications, newest first.
func (qs *QueryService) ListNotifications(ctx context.Context, userID string) ([]*NotificationDTO, error) {
	notifications, err := qs.store.Notifications().FindByRecipient(ctx, userID)
	if err != nil {
		qs.logger.WithFields(logger.LogFields{
			"user_id": userID,
		}).Error("list_notifications_failed", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]*NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, &NotificationDTO{
			ID:        n.ID,
			Message:   n.Message,
			Category:  string(n.Category),
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return dtos, nil
}

// MarkNotificationRead marks one of the user's notifications as read.
func (qs *QueryService) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	notification, err := qs.store.Notifications().FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.RecipientID != userID {
		return domain.ErrUnauthorized
	}

	notification.Read = true
	if err := qs.store.Notifications().Update(ctx, notification); err != nil {
		qs.logger.WithFields(logger.LogFields{
			"user_id": userID,
		}).Error("mark_notification_read_failed", err)
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

// AdminStats returns aggregate route statistics.
func (qs *QueryService) AdminStats(ctx context.Context) (*domain.RouteStats, error) {
	stats, err := qs.store.Routes().Stats(ctx)
	if err != nil {
		qs.logger.Error("admin_stats_failed", err)
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}
