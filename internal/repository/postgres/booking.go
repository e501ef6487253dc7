package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"busreserve/internal/domain"
	"busreserve/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// uniqueViolation is the SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

const bookingColumns = `id, trip_id, position, bus_number, source_city, destination, seats, ticket_price, total_cost, created_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.TripID,
		booking.Position,
		booking.BusNumber,
		booking.SourceCity,
		booking.Destination,
		toInt64Array(booking.Seats),
		booking.TicketPrice,
		booking.TotalCost,
		booking.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

// ListByTripID retrieves the bookings made on a trip, oldest first.
func (r *BookingRepository) ListByTripID(ctx context.Context, tripID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = $1 ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []*domain.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var seats pq.Int64Array

	if err := row.Scan(
		&booking.ID,
		&booking.TripID,
		&booking.Position,
		&booking.BusNumber,
		&booking.SourceCity,
		&booking.Destination,
		&seats,
		&booking.TicketPrice,
		&booking.TotalCost,
		&booking.CreatedAt,
	); err != nil {
		return nil, err
	}

	booking.Seats = make([]int, len(seats))
	for i, s := range seats {
		booking.Seats[i] = int(s)
	}

	return &booking, nil
}

func toInt64Array(seats []int) pq.Int64Array {
	out := make(pq.Int64Array, len(seats))
	for i, s := range seats {
		out[i] = int64(s)
	}
	return out
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
