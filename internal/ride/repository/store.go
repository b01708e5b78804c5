package repository

import (
	"context"
	"fmt"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so
// every repository works both standalone and inside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements domain.Store on a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresStore creates a new store instance
func NewPostgresStore(pool *pgxpool.Pool, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: log,
	}
}

func (s *PostgresStore) Routes() domain.RouteRepository {
	return &routeRepository{q: s.pool}
}

func (s *PostgresStore) Bookings() domain.BookingRepository {
	return &bookingRepository{q: s.pool}
}

func (s *PostgresStore) Users() domain.UserRepository {
	return &userRepository{q: s.pool}
}

func (s *PostgresStore) Notifications() domain.NotificationRepository {
	return &notificationRepository{q: s.pool}
}

// InTx runs fn inside a single database transaction. Row locks taken via
// FindByIDForUpdate are held until commit or rollback.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx domain.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		s.logger.Error("transaction_begin_failed", err)
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error("transaction_commit_failed", err)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore exposes the repositories bound to one open transaction.
type txStore struct {
	tx pgx.Tx
}

func (t *txStore) Routes() domain.RouteRepository {
	return &routeRepository{q: t.tx}
}

func (t *txStore) Bookings() domain.BookingRepository {
	return &bookingRepository{q: t.tx}
}

func (t *txStore) Users() domain.UserRepository {
	return &userRepository{q: t.tx}
}

func (t *txStore) Notifications() domain.NotificationRepository {
	return &notificationRepository{q: t.tx}
}
