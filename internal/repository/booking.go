package repository

import (
	"context"

	"busreserve/internal/domain"
)

// BookingRepository defines the persistence operations for booking records.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// ListByTripID retrieves the bookings made on a trip, oldest first.
	ListByTripID(ctx context.Context, tripID string) ([]*domain.Booking, error)
}
