package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greenride/internal/ride/domain"

	"github.com/jackc/pgx/v5"
)

const routeColumns = `id, driver_id, start_location, destination, departure_time,
       available_seats, cost_per_seat, status, distance_km, duration_min,
       actual_departure_time, actual_arrival_time, created_at`

type routeRepository struct {
	q querier
}

func (r *routeRepository) Save(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (id, driver_id, start_location, destination, departure_time,
		                    available_seats, cost_per_seat, status, distance_km, duration_min, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.q.Exec(ctx, query,
		route.ID(),
		route.DriverID(),
		route.StartLocation(),
		route.Destination(),
		route.DepartureTime(),
		route.AvailableSeats(),
		route.CostPerSeat(),
		route.Status().String(),
		route.DistanceKm(),
		route.DurationMin(),
		route.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

func (r *routeRepository) Update(ctx context.Context, route *domain.Route) error {
	query := `
		UPDATE routes
		SET available_seats = $2, status = $3,
		    actual_departure_time = $4, actual_arrival_time = $5
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query,
		route.ID(),
		route.AvailableSeats(),
		route.Status().String(),
		route.ActualDepartureTime(),
		route.ActualArrivalTime(),
	)
	if err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRouteNotFound
	}
	return nil
}

func (r *routeRepository) FindByID(ctx context.Context, routeID string) (*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`
	return r.scanRoute(r.q.QueryRow(ctx, query, routeID))
}

func (r *routeRepository) FindByIDForUpdate(ctx context.Context, routeID string) (*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1 FOR UPDATE`
	return r.scanRoute(r.q.QueryRow(ctx, query, routeID))
}

func (r *routeRepository) FindAll(ctx context.Context, destination string) ([]*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes ORDER BY departure_time`
	args := []any{}
	if destination != "" {
		query = `SELECT ` + routeColumns + ` FROM routes WHERE destination ILIKE '%' || $1 || '%' ORDER BY departure_time`
		args = append(args, destination)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	var routes []*domain.Route
	for rows.Next() {
		route, err := r.scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (r *routeRepository) Delete(ctx context.Context, routeID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM routes WHERE id = $1`, routeID)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRouteNotFound
	}
	return nil
}

func (r *routeRepository) Stats(ctx context.Context) (*domain.RouteStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(distance_km) FILTER (WHERE distance_km > 0), 0),
		       COALESCE(AVG(available_seats), 0),
		       COALESCE((SELECT destination FROM routes
		                 GROUP BY destination
		                 ORDER BY COUNT(*) DESC, destination
		                 LIMIT 1), 'N/A')
		FROM routes`

	stats := &domain.RouteStats{}
	err := r.q.QueryRow(ctx, query).Scan(
		&stats.TotalRoutes,
		&stats.AvgDistanceKm,
		&stats.AvgAvailableSeats,
		&stats.PopularDestination,
	)
	if err != nil {
		return nil, fmt.Errorf("query route stats: %w", err)
	}
	return stats, nil
}

func (r *routeRepository) scanRoute(row pgx.Row) (*domain.Route, error) {
	var (
		id, driverID, startLocation, destination, status string
		departureTime, createdAt                         time.Time
		availableSeats                                   int
		costPerSeat, distanceKm, durationMin             float64
		actualDepartureTime, actualArrivalTime           *time.Time
	)

	err := row.Scan(
		&id, &driverID, &startLocation, &destination, &departureTime,
		&availableSeats, &costPerSeat, &status, &distanceKm, &durationMin,
		&actualDepartureTime, &actualArrivalTime, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRouteNotFound
		}
		return nil, fmt.Errorf("scan route: %w", err)
	}

	return domain.ReconstructRoute(
		id, driverID, startLocation, destination, departureTime,
		availableSeats, costPerSeat, domain.RouteStatus(status),
		distanceKm, durationMin, actualDepartureTime, actualArrivalTime, createdAt,
	), nil
}
