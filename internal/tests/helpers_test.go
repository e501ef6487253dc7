package tests

import (
	"context"
	"testing"

	"busreserve/internal/catalog"
	"busreserve/internal/service"
)

// system is a fully wired reservation core over a mock ledger.
type system struct {
	catalog       *catalog.Catalog
	bookingRepo   *MockBookingRepository
	trips         *service.TripService
	bookings      *service.BookingService
	tickets       *service.TicketService
	notifications *service.NotificationService
}

func newSystem(t *testing.T, seed []catalog.SeedTrip) *system {
	t.Helper()

	c := catalog.New()
	repo := NewMockBookingRepository()
	notifications := service.NewNotificationService()
	trips := service.NewTripService(c, nil)
	bookings := service.NewBookingService(c, repo, notifications, nil)

	if err := trips.LoadSeed(context.Background(), seed); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	return &system{
		catalog:       c,
		bookingRepo:   repo,
		trips:         trips,
		bookings:      bookings,
		tickets:       service.NewTicketService(bookings, notifications),
		notifications: notifications,
	}
}

func singleTripSeed() []catalog.SeedTrip {
	return []catalog.SeedTrip{
		{BusNumber: "123A", Destination: "New York", SourceCity: "Boston", TotalSeats: 50, TicketPrice: 30.0},
	}
}
