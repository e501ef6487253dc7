package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPosition is returned when a position is outside the catalog.
	ErrInvalidPosition = errors.New("invalid bus index")

	// ErrInvalidSeatCount is returned when a booking asks for no seats or more
	// seats than the trip has.
	ErrInvalidSeatCount = errors.New("invalid number of seats")

	// ErrInvalidOrTakenSeat is returned when a seat number is out of range or
	// already booked.
	ErrInvalidOrTakenSeat = errors.New("seat number is invalid or already booked")

	// ErrInvalidTrip is returned when trip attributes are unusable.
	ErrInvalidTrip = errors.New("invalid trip")
)

// SeatRejectedError lists every seat that failed validation in a booking.
type SeatRejectedError struct {
	Rejected []SeatRejection
}

func (e *SeatRejectedError) Error() string {
	seats := make([]string, len(e.Rejected))
	for i, r := range e.Rejected {
		seats[i] = fmt.Sprintf("%d", r.Seat)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidOrTakenSeat, strings.Join(seats, ", "))
}

func (e *SeatRejectedError) Unwrap() error {
	return ErrInvalidOrTakenSeat
}
