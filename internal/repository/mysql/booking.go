// Package mysql implements the booking ledger on MySQL.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"busreserve/internal/domain"
	"busreserve/internal/repository"
)

// duplicateEntry is the MySQL error number for a duplicate key.
const duplicateEntry = 1062

const bookingsDDL = `
CREATE TABLE IF NOT EXISTS bookings (
	id           CHAR(36) PRIMARY KEY,
	trip_id      CHAR(36) NOT NULL,
	position     INT NOT NULL,
	bus_number   VARCHAR(64) NOT NULL,
	source_city  VARCHAR(255) NOT NULL,
	destination  VARCHAR(255) NOT NULL,
	seats        JSON NOT NULL,
	ticket_price DOUBLE NOT NULL,
	total_cost   DOUBLE NOT NULL,
	created_at   DATETIME(6) NOT NULL,
	INDEX idx_bookings_trip_id (trip_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const bookingColumns = `id, trip_id, position, bus_number, source_city, destination, seats, ticket_price, total_cost, created_at`

// BookingRepository is a MySQL implementation of repository.BookingRepository.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new MySQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// EnsureSchema creates the bookings table when it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, bookingsDDL)
	return err
}

// Create persists a new booking. Seats are stored as a JSON array.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	seats, err := json.Marshal(booking.Seats)
	if err != nil {
		return fmt.Errorf("encode seats: %w", err)
	}

	query := `INSERT INTO bookings (` + bookingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		booking.ID,
		booking.TripID,
		booking.Position,
		booking.BusNumber,
		booking.SourceCity,
		booking.Destination,
		string(seats),
		booking.TicketPrice,
		booking.TotalCost,
		booking.CreatedAt,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == duplicateEntry {
			return repository.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
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
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = ? ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tripID)
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
	var seats []byte

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

	if err := json.Unmarshal(seats, &booking.Seats); err != nil {
		return nil, fmt.Errorf("decode seats of booking %s: %w", booking.ID, err)
	}

	return &booking, nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
