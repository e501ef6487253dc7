package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"busreserve/internal/catalog"
	"busreserve/internal/domain"
	"busreserve/internal/metrics"
	"busreserve/internal/repository"
)

// BookingService handles seat reservations.
type BookingService struct {
	catalog             *catalog.Catalog
	bookingRepo         repository.BookingRepository
	notificationService *NotificationService
	metrics             *metrics.Recorder
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	c *catalog.Catalog,
	bookingRepo repository.BookingRepository,
	notificationService *NotificationService,
	recorder *metrics.Recorder,
) *BookingService {
	return &BookingService{
		catalog:             c,
		bookingRepo:         bookingRepo,
		notificationService: notificationService,
		metrics:             recorder,
	}
}

// BookSeatsRequest contains the parameters for booking seats.
type BookSeatsRequest struct {
	Position int
	Seats    []int
}

// BookSeats reserves every requested seat on the trip at Position, or none.
func (s *BookingService) BookSeats(ctx context.Context, req BookSeatsRequest) (*domain.Booking, error) {
	trip, err := s.catalog.At(req.Position)
	if err != nil {
		s.metrics.Booking(ctx, metrics.OutcomeInvalidPosition, 0)
		return nil, err
	}

	cost, err := trip.BookSeats(req.Seats)
	if err != nil {
		s.recordFailure(ctx, err)
		return nil, err
	}

	booking := &domain.Booking{
		ID:          uuid.New().String(),
		TripID:      trip.ID,
		Position:    req.Position,
		BusNumber:   trip.BusNumber,
		SourceCity:  trip.SourceCity,
		Destination: trip.Destination,
		Seats:       append([]int(nil), req.Seats...),
		TicketPrice: trip.TicketPrice,
		TotalCost:   cost,
		CreatedAt:   time.Now(),
	}

	// The seats are already taken at this point; a ledger failure is logged
	// but does not undo the booking.
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		log.Printf("[BOOKING] action=record booking=%s trip=%s error=%v", booking.ID, trip.ID, err)
	}

	s.metrics.Booking(ctx, metrics.OutcomeBooked, len(booking.Seats))

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingConfirmed(ctx, booking)
	}

	return booking, nil
}

// ValidateSeatsRequest contains the parameters for validating a seat request.
type ValidateSeatsRequest struct {
	Position int
	Seats    []int
}

// ValidateSeats checks a seat request against the trip without booking it.
func (s *BookingService) ValidateSeats(ctx context.Context, req ValidateSeatsRequest) (domain.SeatValidation, error) {
	trip, err := s.catalog.At(req.Position)
	if err != nil {
		return domain.SeatValidation{}, err
	}

	if len(req.Seats) == 0 || len(req.Seats) > trip.TotalSeats() {
		return domain.SeatValidation{}, domain.ErrInvalidSeatCount
	}

	return trip.ValidateSeats(req.Seats), nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	// Booking IDs are UUIDs; anything else cannot be in any ledger.
	if _, err := uuid.Parse(bookingID); err != nil {
		return nil, repository.ErrNotFound
	}

	return s.bookingRepo.GetByID(ctx, bookingID)
}

// ListBookings retrieves the bookings made on the trip at a position.
func (s *BookingService) ListBookings(ctx context.Context, position int) ([]*domain.Booking, error) {
	trip, err := s.catalog.At(position)
	if err != nil {
		return nil, err
	}

	return s.bookingRepo.ListByTripID(ctx, trip.ID)
}

func (s *BookingService) recordFailure(ctx context.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSeatCount):
		s.metrics.Booking(ctx, metrics.OutcomeInvalidCount, 0)
	case errors.Is(err, domain.ErrInvalidOrTakenSeat):
		s.metrics.Booking(ctx, metrics.OutcomeSeatRejected, 0)
	}
}
