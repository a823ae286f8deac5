// Package postgres provides PostgreSQL implementation of the store interfaces.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db            *sql.DB
	logger        *slog.Logger
	users         *UserStore
	events        *EventStore
	tasks         *TaskStore
	rsvps         *RSVPStore
	invites       *InviteStore
	notifications *NotificationStore
}

// Config holds PostgreSQL connection configuration.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(dsn string) *Config {
	return &Config{
		DSN:             dsn,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// NewPostgresStore creates a new PostgreSQL store with the given configuration.
func NewPostgresStore(cfg *Config, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &PostgresStore{
		db:            db,
		logger:        logger,
		users:         &UserStore{db: db, logger: logger},
		events:        &EventStore{db: db, logger: logger},
		tasks:         &TaskStore{db: db, logger: logger},
		rsvps:         &RSVPStore{db: db, logger: logger},
		invites:       &InviteStore{db: db, logger: logger},
		notifications: &NotificationStore{db: db, logger: logger},
	}

	logger.Info("connected to PostgreSQL database")
	return s, nil
}

// Users returns the UserStore.
func (s *PostgresStore) Users() store.UserStore {
	return s.users
}

// Events returns the EventStore.
func (s *PostgresStore) Events() store.EventStore {
	return s.events
}

// Tasks returns the TaskStore.
func (s *PostgresStore) Tasks() store.TaskStore {
	return s.tasks
}

// RSVPs returns the RSVPStore.
func (s *PostgresStore) RSVPs() store.RSVPStore {
	return s.rsvps
}

// Invites returns the InviteStore.
func (s *PostgresStore) Invites() store.InviteStore {
	return s.invites
}

// Notifications returns the NotificationStore.
func (s *PostgresStore) Notifications() store.NotificationStore {
	return s.notifications
}

// WithTx executes the given function within a database transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	txStore := &txStore{
		tx:     tx,
		logger: s.logger,
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	s.logger.Info("closing PostgreSQL connection")
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// txStore wraps a transaction and implements the Store interface.
type txStore struct {
	tx            *sql.Tx
	logger        *slog.Logger
	users         *UserStore
	events        *EventStore
	tasks         *TaskStore
	rsvps         *RSVPStore
	invites       *InviteStore
	notifications *NotificationStore
}

func (s *txStore) Users() store.UserStore {
	if s.users == nil {
		s.users = &UserStore{tx: s.tx, logger: s.logger}
	}
	return s.users
}

func (s *txStore) Events() store.EventStore {
	if s.events == nil {
		s.events = &EventStore{tx: s.tx, logger: s.logger}
	}
	return s.events
}

func (s *txStore) Tasks() store.TaskStore {
	if s.tasks == nil {
		s.tasks = &TaskStore{tx: s.tx, logger: s.logger}
	}
	return s.tasks
}

func (s *txStore) RSVPs() store.RSVPStore {
	if s.rsvps == nil {
		s.rsvps = &RSVPStore{tx: s.tx, logger: s.logger}
	}
	return s.rsvps
}

func (s *txStore) Invites() store.InviteStore {
	if s.invites == nil {
		s.invites = &InviteStore{tx: s.tx, logger: s.logger}
	}
	return s.invites
}

func (s *txStore) Notifications() store.NotificationStore {
	if s.notifications == nil {
		s.notifications = &NotificationStore{tx: s.tx, logger: s.logger}
	}
	return s.notifications
}

func (s *txStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	// Already in a transaction, just execute the function
	return fn(s)
}

func (s *txStore) Ping(ctx context.Context) error {
	return s.tx.QueryRowContext(ctx, "SELECT 1").Err()
}

func (s *txStore) Close() error {
	// No-op for transaction store
	return nil
}

// queryable is an interface that both *sql.DB and *sql.Tx implement.
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// requireAffected maps a zero-row update or delete to store.ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected for %s: %w", what, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
