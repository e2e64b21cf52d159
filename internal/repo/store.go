// Package repo contains all persistence logic for the travel journal.
// Each aggregate has its own file with an interface and a Postgres implementation;
// memory.go holds an in-process implementation of the same interfaces.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/hanglog/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// conn is a db that can also open a transaction. Inside an existing pgx.Tx,
// Begin creates a savepoint, so WithinTx nests cleanly under a test transaction.
type conn interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store bundles the repos of one unit of work.
//
// Every structural edit (resize, insert, reorder, delete) runs through WithinTx
// so its ordinal and date changes commit together or not at all.
type Store interface {
	Trips() TripRepo
	DayLogs() DayLogRepo
	Items() ItemRepo
	Categories() CategoryRepo
	Cities() CityRepo

	// WithinTx runs fn against a Store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// pgStore is the Postgres implementation of Store.
type pgStore struct {
	conn conn
}

// NewStore constructs a Store backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStore(c conn) Store {
	return &pgStore{conn: c}
}

func (s *pgStore) Trips() TripRepo { return NewTripRepo(s.conn) }

func (s *pgStore) DayLogs() DayLogRepo { return NewDayLogRepo(s.conn) }

func (s *pgStore) Items() ItemRepo { return NewItemRepo(s.conn) }

func (s *pgStore) Categories() CategoryRepo { return NewCategoryRepo(s.conn) }

func (s *pgStore) Cities() CityRepo { return NewCityRepo(s.conn) }

func (s *pgStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	err := pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		return fn(&pgStore{conn: tx})
	})
	if err != nil {
		return fmt.Errorf("repo.Store.WithinTx: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// notFound converts pgx.ErrNoRows into domain.ErrNotFound and passes anything
// else through unchanged.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
