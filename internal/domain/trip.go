package domain

import "sync"

// Trip represents one scheduled bus service and owns its seat inventory.
type Trip struct {
	ID          string
	BusNumber   string
	SourceCity  string
	Destination string
	TicketPrice float64

	mu    sync.RWMutex
	seats []bool // seats[i] is seat number i+1; true if booked
}

// TripSnapshot is an immutable copy of a trip as seen at one point in time.
type TripSnapshot struct {
	Position    int
	ID          string
	BusNumber   string
	SourceCity  string
	Destination string
	TotalSeats  int
	BookedSeats int
	TicketPrice float64
}

// SeatStatus reports the occupancy of a single seat.
type SeatStatus struct {
	Number int
	Booked bool
}

// Reservation is a trip together with the status of every seat on it.
type Reservation struct {
	Trip  TripSnapshot
	Seats []SeatStatus
}

// NewTrip creates a trip with totalSeats unbooked seats.
func NewTrip(id, busNumber, destination, sourceCity string, totalSeats int, price float64) (*Trip, error) {
	if totalSeats <= 0 || price < 0 {
		return nil, ErrInvalidTrip
	}

	return &Trip{
		ID:          id,
		BusNumber:   busNumber,
		SourceCity:  sourceCity,
		Destination: destination,
		TicketPrice: price,
		seats:       make([]bool, totalSeats),
	}, nil
}

// TotalSeats returns the fixed seat count of the trip.
func (t *Trip) TotalSeats() int {
	return len(t.seats)
}

// CountBooked returns the number of booked seats.
func (t *Trip) CountBooked() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.countBookedLocked()
}

func (t *Trip) countBookedLocked() int {
	count := 0
	for _, booked := range t.seats {
		if booked {
			count++
		}
	}
	return count
}

// Snapshot returns a copy of the trip's catalog-facing fields.
func (t *Trip) Snapshot(position int) TripSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.snapshotLocked(position)
}

func (t *Trip) snapshotLocked(position int) TripSnapshot {
	return TripSnapshot{
		Position:    position,
		ID:          t.ID,
		BusNumber:   t.BusNumber,
		SourceCity:  t.SourceCity,
		Destination: t.Destination,
		TotalSeats:  len(t.seats),
		BookedSeats: t.countBookedLocked(),
		TicketPrice: t.TicketPrice,
	}
}

// SeatStatus lists every seat, numbered from 1.
func (t *Trip) SeatStatus() []SeatStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.seatStatusLocked()
}

// Reservation returns the snapshot and seat map read under one lock, so the
// booked count always agrees with the seat list.
func (t *Trip) Reservation(position int) Reservation {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return Reservation{
		Trip:  t.snapshotLocked(position),
		Seats: t.seatStatusLocked(),
	}
}

func (t *Trip) seatStatusLocked() []SeatStatus {
	statuses := make([]SeatStatus, len(t.seats))
	for i, booked := range t.seats {
		statuses[i] = SeatStatus{Number: i + 1, Booked: booked}
	}
	return statuses
}

// ValidateSeats checks seat numbers against the current inventory without
// changing it.
func (t *Trip) ValidateSeats(seatNumbers []int) SeatValidation {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.validateLocked(seatNumbers)
}

// BookSeats marks every requested seat as booked and returns the total cost.
// The batch is all-or-nothing: if any seat is out of range, already booked or
// repeated, no seat is changed and a *SeatRejectedError is returned.
func (t *Trip) BookSeats(seatNumbers []int) (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(seatNumbers) == 0 || len(seatNumbers) > len(t.seats) {
		return 0, ErrInvalidSeatCount
	}

	result := t.validateLocked(seatNumbers)
	if !result.OK() {
		return 0, &SeatRejectedError{Rejected: result.Rejected}
	}

	for _, n := range seatNumbers {
		t.seats[seatIndex(n)] = true
	}

	return float64(len(seatNumbers)) * t.TicketPrice, nil
}

func (t *Trip) validateLocked(seatNumbers []int) SeatValidation {
	var result SeatValidation
	seen := make(map[int]bool, len(seatNumbers))

	for _, n := range seatNumbers {
		switch {
		case n < 1 || n > len(t.seats):
			result.Rejected = append(result.Rejected, SeatRejection{Seat: n, Reason: RejectOutOfRange})
		case t.seats[seatIndex(n)]:
			result.Rejected = append(result.Rejected, SeatRejection{Seat: n, Reason: RejectAlreadyBooked})
		case seen[n]:
			result.Rejected = append(result.Rejected, SeatRejection{Seat: n, Reason: RejectDuplicate})
		default:
			seen[n] = true
			result.Accepted = append(result.Accepted, n)
		}
	}

	return result
}

// seatIndex maps a 1-based seat number to its slice index.
func seatIndex(seatNumber int) int {
	return seatNumber - 1
}
