package repository

import (
	"context"
	"errors"
	"fmt"

	"greenride/internal/ride/domain"

	"github.com/jackc/pgx/v5"
)

type bookingRepository struct {
	q querier
}

func (r *bookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	query := `INSERT INTO bookings (id, user_id, route_id, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, booking.ID, booking.UserID, booking.RouteID, booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, bookingID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) DeleteAllByRoute(ctx context.Context, routeID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM bookings WHERE route_id = $1`, routeID)
	if err != nil {
		return fmt.Errorf("delete bookings by route: %w", err)
	}
	return nil
}

func (r *bookingRepository) ExistsByUserAndRoute(ctx context.Context, userID, routeID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE user_id = $1 AND route_id = $2)`
	if err := r.q.QueryRow(ctx, query, userID, routeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query booking existence: %w", err)
	}
	return exists, nil
}

func (r *bookingRepository) FindByUserAndRoute(ctx context.Context, userID, routeID string) (*domain.Booking, error) {
	query := `SELECT id, user_id, route_id, created_at FROM bookings WHERE user_id = $1 AND route_id = $2`

	booking := &domain.Booking{}
	err := r.q.QueryRow(ctx, query, userID, routeID).
		Scan(&booking.ID, &booking.UserID, &booking.RouteID, &booking.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) FindAllByRoute(ctx context.Context, routeID string) ([]*domain.Booking, error) {
	query := `SELECT id, user_id, route_id, created_at FROM bookings WHERE route_id = $1 ORDER BY created_at`
	return r.queryBookings(ctx, query, routeID)
}

func (r *bookingRepository) FindAllByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	query := `SELECT id, user_id, route_id, created_at FROM bookings WHERE user_id = $1 ORDER BY created_at`
	return r.queryBookings(ctx, query, userID)
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT id, user_id, route_id, created_at FROM bookings ORDER BY created_at`
	return r.queryBookings(ctx, query)
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking := &domain.Booking{}
		if err := rows.Scan(&booking.ID, &booking.UserID, &booking.RouteID, &booking.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
