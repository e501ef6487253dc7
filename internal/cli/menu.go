// Package cli implements the interactive reservation menu.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"busreserve/internal/domain"
	"busreserve/internal/service"
)

const tableWidth = 105

// Menu drives the numbered reservation menu over a line-oriented terminal.
type Menu struct {
	trips    *service.TripService
	bookings *service.BookingService
	tickets  *service.TicketService
	in       *bufio.Reader
	out      io.Writer
	pending  []string // unread tokens from the current input line
}

// NewMenu creates a new Menu.
func NewMenu(trips *service.TripService, bookings *service.BookingService, tickets *service.TicketService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		trips:    trips,
		bookings: bookings,
		tickets:  tickets,
		in:       bufio.NewReader(in),
		out:      out,
	}
}

// Run shows the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printf("\nBus Reservation System\n")
		m.printf("1. View Buses\n")
		m.printf("2. Search Buses\n")
		m.printf("3. Book Seats\n")
		m.printf("4. View Reservations\n")
		m.printf("5. Exit\n")
		m.printf("Enter your choice: ")

		choice, err := m.readInt()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			m.printf("Invalid choice! Please try again.\n")
			continue
		}

		switch choice {
		case 1:
			m.displayTrips(ctx)
		case 2:
			err = m.search(ctx)
		case 3:
			err = m.book(ctx)
		case 4:
			err = m.viewReservation(ctx)
		case 5:
			m.printf("Exiting...\n")
			return nil
		default:
			m.printf("Invalid choice! Please try again.\n")
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) displayTrips(ctx context.Context) {
	m.printf("Available Buses:\n")
	m.printLine('=', tableWidth)
	m.printTripHeader()
	m.printLine('-', tableWidth)
	for _, t := range m.trips.ListTrips(ctx) {
		m.printTripRow(t)
	}
	m.printLine('=', tableWidth)
}

func (m *Menu) search(ctx context.Context) error {
	m.pending = nil

	m.printf("Enter source city: ")
	source, err := m.readLine()
	if err != nil {
		return err
	}
	m.printf("Enter destination: ")
	destination, err := m.readLine()
	if err != nil {
		return err
	}

	m.printf("Searching for buses from %s to %s:\n", source, destination)
	m.printLine('=', tableWidth)
	m.printTripHeader()
	m.printLine('-', tableWidth)

	results := m.trips.SearchTrips(ctx, source, destination)
	for _, t := range results {
		m.printTripRow(t)
	}
	if len(results) == 0 {
		m.printf("No buses found for the given source and destination.\n")
	}
	m.printLine('=', tableWidth)
	return nil
}

func (m *Menu) book(ctx context.Context) error {
	m.displayTrips(ctx)

	m.printf("Enter the bus index to book seats (starting from 1): ")
	position, err := m.readInt()
	if errors.Is(err, io.EOF) {
		return err
	}

	reservation, err := m.trips.ViewReservation(ctx, position)
	if err != nil {
		m.printf("Invalid bus index!\n")
		return nil
	}
	m.printSeatStatus(reservation)

	m.printf("Enter the number of seats you want to book: ")
	count, err := m.readInt()
	if errors.Is(err, io.EOF) {
		return err
	}
	if err != nil || count <= 0 || count > reservation.Trip.TotalSeats {
		m.printf("Invalid number of seats!\n")
		return nil
	}

	m.printf("Enter the seat numbers (separated by spaces):\n")
	seats := make([]int, 0, count)
	for len(seats) < count {
		token, err := m.readToken()
		if err != nil {
			return err
		}

		seat, convErr := strconv.Atoi(token)
		if convErr != nil || !m.seatAccepted(ctx, position, seats, seat) {
			m.printf("Seat number %s is invalid or already booked!\n", token)
			continue
		}
		seats = append(seats, seat)
	}

	booking, err := m.bookings.BookSeats(ctx, service.BookSeatsRequest{Position: position, Seats: seats})
	if err != nil {
		m.printf("Booking failed: %v\n", err)
		return nil
	}

	m.printf("Booking successful! Total cost: $%.2f\n", booking.TotalCost)
	if m.tickets != nil {
		m.printf("%s", m.tickets.FormatTicket(booking))
	}
	return nil
}

// seatAccepted checks seat against the trip and the seats already chosen in
// this booking.
func (m *Menu) seatAccepted(ctx context.Context, position int, chosen []int, seat int) bool {
	candidate := append(append([]int(nil), chosen...), seat)
	result, err := m.bookings.ValidateSeats(ctx, service.ValidateSeatsRequest{Position: position, Seats: candidate})
	if err != nil {
		return false
	}
	for _, r := range result.Rejected {
		if r.Seat == seat {
			return false
		}
	}
	return true
}

func (m *Menu) viewReservation(ctx context.Context) error {
	m.displayTrips(ctx)

	m.printf("Enter the bus index to view reservations (starting from 1): ")
	position, err := m.readInt()
	if errors.Is(err, io.EOF) {
		return err
	}

	reservation, err := m.trips.ViewReservation(ctx, position)
	if err != nil {
		m.printf("Invalid bus index!\n")
		return nil
	}

	t := reservation.Trip
	m.printf("Bus Number: %s, Destination: %s, Source City: %s, Total Seats: %d, Booked Seats: %d, Ticket Price: $%.2f\n",
		t.BusNumber, t.Destination, t.SourceCity, t.TotalSeats, t.BookedSeats, t.TicketPrice)
	m.printSeatStatus(reservation)
	return nil
}

func (m *Menu) printTripHeader() {
	m.printf("%-10s%-15s%-20s%-20s%-15s%-15s%s\n",
		"Index", "Bus Number", "Source City", "Destination", "Total Seats", "Booked Seats", "Ticket Price")
}

func (m *Menu) printTripRow(t domain.TripSnapshot) {
	m.printf("%-10d%-15s%-20s%-20s%-15d%-15d$%.2f\n",
		t.Position, t.BusNumber, t.SourceCity, t.Destination, t.TotalSeats, t.BookedSeats, t.TicketPrice)
}

func (m *Menu) printSeatStatus(r *domain.Reservation) {
	m.printf("Seat Status for Bus %s:\n", r.Trip.BusNumber)
	m.printLine('-', 30)
	m.printf("%-10s%s\n", "Seat No.", "Status")
	m.printLine('-', 30)
	for _, s := range r.Seats {
		status := "Available"
		if s.Booked {
			status = "Booked"
		}
		m.printf("%-10d%s\n", s.Number, status)
	}
	m.printLine('-', 30)
}

func (m *Menu) printLine(ch byte, n int) {
	m.printf("%s\n", strings.Repeat(string(ch), n))
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

// readLine returns the next full input line without its line ending.
func (m *Menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readToken returns the next whitespace-separated token, reading more lines
// as needed.
func (m *Menu) readToken() (string, error) {
	for len(m.pending) == 0 {
		line, err := m.readLine()
		if err != nil {
			return "", err
		}
		m.pending = strings.Fields(line)
	}
	token := m.pending[0]
	m.pending = m.pending[1:]
	return token, nil
}

// readInt reads the next token as an integer. A malformed token discards the
// rest of its line.
func (m *Menu) readInt() (int, error) {
	token, err := m.readToken()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		m.pending = nil
		return 0, err
	}
	return n, nil
}
