// Package memory provides process-local repository implementations.
package memory

import (
	"context"
	"sync"

	"busreserve/internal/domain"
	"busreserve/internal/repository"
)

// BookingRepository keeps booking records in memory for the life of the process.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	order    []string
}

// NewBookingRepository creates an empty in-memory booking repository.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// Create stores a copy of the booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return repository.ErrAlreadyExists
	}
	r.bookings[booking.ID] = cloneBooking(booking)
	r.order = append(r.order, booking.ID)
	return nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneBooking(booking), nil
}

// ListByTripID retrieves the bookings made on a trip in creation order.
func (r *BookingRepository) ListByTripID(ctx context.Context, tripID string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*domain.Booking{}
	for _, id := range r.order {
		if b := r.bookings[id]; b.TripID == tripID {
			result = append(result, cloneBooking(b))
		}
	}
	return result, nil
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.Seats = append([]int(nil), b.Seats...)
	return &c
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
