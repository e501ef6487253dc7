package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"busreserve/internal/domain"
	"busreserve/internal/repository"
)

var bookingRowColumns = []string{
	"id", "trip_id", "position", "bus_number", "source_city", "destination",
	"seats", "ticket_price", "total_cost", "created_at",
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	booking := &domain.Booking{
		ID:          "6f1c7d1e-8a43-4b8f-9a52-0c1f2a3b4c5d",
		TripID:      "0b0e7f3a-1c2d-4e5f-8a9b-0c1d2e3f4a5b",
		Position:    1,
		BusNumber:   "123A",
		SourceCity:  "Boston",
		Destination: "New York",
		Seats:       []int{1, 2, 3},
		TicketPrice: 30,
		TotalCost:   90,
		CreatedAt:   time.Now(),
	}

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(booking.ID, booking.TripID, 1, "123A", "Boston", "New York", sqlmock.AnyArg(), 30.0, 90.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewBookingRepository(db)
	if err := repo.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	createdAt := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow("booking-1", "trip-1", 4, "012D", "Boston", "New York", "{7,8}", 28.0, 56.0, createdAt))

	repo := NewBookingRepository(db)
	booking, err := repo.GetByID(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Position != 4 || booking.BusNumber != "012D" {
		t.Errorf("unexpected booking: %+v", booking)
	}
	if len(booking.Seats) != 2 || booking.Seats[0] != 7 || booking.Seats[1] != 8 {
		t.Errorf("expected seats [7 8], got %v", booking.Seats)
	}
	if booking.TotalCost != 56 {
		t.Errorf("expected total 56, got %.2f", booking.TotalCost)
	}
	if !booking.CreatedAt.Equal(createdAt) {
		t.Errorf("expected created_at %v, got %v", createdAt, booking.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	_, err = NewBookingRepository(db).GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingRepository_ListByTripID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE trip_id (.+) ORDER BY created_at").
		WithArgs("trip-1").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow("b1", "trip-1", 1, "123A", "Boston", "New York", "{1}", 30.0, 30.0, now).
			AddRow("b2", "trip-1", 1, "123A", "Boston", "New York", "{2,3}", 30.0, 60.0, now.Add(time.Minute)))

	bookings, err := NewBookingRepository(db).ListByTripID(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[1].ID != "b2" || len(bookings[1].Seats) != 2 {
		t.Errorf("unexpected second booking: %+v", bookings[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_CreateWithinTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	booking := &domain.Booking{ID: "b1", TripID: "t1", Position: 2, Seats: []int{4}, CreatedAt: time.Now()}
	if err := NewBookingRepositoryWithTx(tx).Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_CreateDuplicateID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err = NewBookingRepository(db).Create(context.Background(), &domain.Booking{ID: "b1", Seats: []int{1}})
	if !errors.Is(err, repository.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}
