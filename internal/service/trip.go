package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"busreserve/internal/catalog"
	"busreserve/internal/domain"
	"busreserve/internal/metrics"
)

// TripService handles catalog operations.
type TripService struct {
	catalog *catalog.Catalog
	metrics *metrics.Recorder
}

// NewTripService creates a new TripService.
func NewTripService(c *catalog.Catalog, recorder *metrics.Recorder) *TripService {
	return &TripService{
		catalog: c,
		metrics: recorder,
	}
}

// AddTripRequest contains the parameters for adding a trip.
type AddTripRequest struct {
	BusNumber   string
	Destination string
	SourceCity  string
	TotalSeats  int
	TicketPrice float64
}

// AddTrip appends a new trip with every seat available.
func (s *TripService) AddTrip(ctx context.Context, req AddTripRequest) (domain.TripSnapshot, error) {
	switch {
	case strings.TrimSpace(req.BusNumber) == "":
		return domain.TripSnapshot{}, fmt.Errorf("%w: bus number is required", domain.ErrInvalidTrip)
	case strings.TrimSpace(req.SourceCity) == "":
		return domain.TripSnapshot{}, fmt.Errorf("%w: source city is required", domain.ErrInvalidTrip)
	case strings.TrimSpace(req.Destination) == "":
		return domain.TripSnapshot{}, fmt.Errorf("%w: destination is required", domain.ErrInvalidTrip)
	case req.TotalSeats <= 0:
		return domain.TripSnapshot{}, fmt.Errorf("%w: total seats must be positive", domain.ErrInvalidTrip)
	case req.TicketPrice < 0:
		return domain.TripSnapshot{}, fmt.Errorf("%w: ticket price must not be negative", domain.ErrInvalidTrip)
	}

	trip, err := domain.NewTrip(uuid.New().String(), req.BusNumber, req.Destination, req.SourceCity, req.TotalSeats, req.TicketPrice)
	if err != nil {
		return domain.TripSnapshot{}, err
	}

	position := s.catalog.Add(trip)
	s.metrics.TripAdded(ctx)

	log.Printf("[CATALOG] action=add position=%d bus=%s route=%q->%q seats=%d price=%.2f",
		position, trip.BusNumber, trip.SourceCity, trip.Destination, req.TotalSeats, trip.TicketPrice)

	return trip.Snapshot(position), nil
}

// LoadSeed appends every seed trip in order.
func (s *TripService) LoadSeed(ctx context.Context, seed []catalog.SeedTrip) error {
	for _, st := range seed {
		if _, err := s.AddTrip(ctx, AddTripRequest{
			BusNumber:   st.BusNumber,
			Destination: st.Destination,
			SourceCity:  st.SourceCity,
			TotalSeats:  st.TotalSeats,
			TicketPrice: st.TicketPrice,
		}); err != nil {
			return fmt.Errorf("seed trip %s: %w", st.BusNumber, err)
		}
	}
	return nil
}

// ListTrips returns every trip with its current position.
func (s *TripService) ListTrips(ctx context.Context) []domain.TripSnapshot {
	return s.catalog.List()
}

// SearchTrips returns trips on the given route. An empty result means no match.
func (s *TripService) SearchTrips(ctx context.Context, sourceCity, destination string) []domain.TripSnapshot {
	results := s.catalog.Search(sourceCity, destination)
	s.metrics.Search(ctx, len(results) > 0)
	return results
}

// ViewReservation returns the trip at a position together with its seat map.
func (s *TripService) ViewReservation(ctx context.Context, position int) (*domain.Reservation, error) {
	trip, err := s.catalog.At(position)
	if err != nil {
		return nil, err
	}

	reservation := trip.Reservation(position)
	return &reservation, nil
}
