package postgres

import (
	"context"
	"database/sql"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

const bookingsDDL = `
CREATE TABLE IF NOT EXISTS bookings (
	id           UUID PRIMARY KEY,
	trip_id      UUID NOT NULL,
	position     INTEGER NOT NULL,
	bus_number   TEXT NOT NULL,
	source_city  TEXT NOT NULL,
	destination  TEXT NOT NULL,
	seats        INTEGER[] NOT NULL,
	ticket_price DOUBLE PRECISION NOT NULL,
	total_cost   DOUBLE PRECISION NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookings_trip_id ON bookings (trip_id, created_at);
`

// EnsureSchema creates the booking ledger table when it does not exist.
func EnsureSchema(ctx context.Context, q Querier) error {
	_, err := q.ExecContext(ctx, bookingsDDL)
	return err
}
