package domain

import "time"

// RejectReason explains why a seat number was refused.
type RejectReason string

const (
	RejectOutOfRange    RejectReason = "OUT_OF_RANGE"
	RejectAlreadyBooked RejectReason = "ALREADY_BOOKED"
	RejectDuplicate     RejectReason = "DUPLICATE"
)

// SeatRejection is a single refused seat number.
type SeatRejection struct {
	Seat   int
	Reason RejectReason
}

// SeatValidation splits a seat request into accepted and rejected numbers,
// preserving request order within each list.
type SeatValidation struct {
	Accepted []int
	Rejected []SeatRejection
}

// OK reports whether every requested seat was accepted.
func (v SeatValidation) OK() bool {
	return len(v.Rejected) == 0
}

// Booking records a successful seat reservation on a trip.
type Booking struct {
	ID          string
	TripID      string
	Position    int // catalog position at booking time
	BusNumber   string
	SourceCity  string
	Destination string
	Seats       []int
	TicketPrice float64
	TotalCost   float64
	CreatedAt   time.Time
}
