package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"

	"busreserve/internal/domain"
)

// TicketService renders booking tickets.
type TicketService struct {
	bookingService      *BookingService
	notificationService *NotificationService
}

// NewTicketService creates a new TicketService.
func NewTicketService(bookingService *BookingService, notificationService *NotificationService) *TicketService {
	return &TicketService{
		bookingService:      bookingService,
		notificationService: notificationService,
	}
}

// RenderPDF renders the e-ticket for a booking as a PDF document.
func (s *TicketService) RenderPDF(ctx context.Context, bookingID string) ([]byte, error) {
	booking, err := s.bookingService.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range ticketLines(booking) {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this ticket when boarding. Seats are not transferable between buses.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTicketIssued(ctx, booking)
	}

	return buf.Bytes(), nil
}

// FormatTicket formats the booking as plain text (for terminals and email).
func (s *TicketService) FormatTicket(booking *domain.Booking) string {
	return `
=====================================
            BUS TICKET
=====================================
` + strings.Join(ticketLines(booking), "\n") + `
=====================================
`
}

func ticketLines(b *domain.Booking) []string {
	return []string{
		"Booking ID  : " + b.ID,
		"Date        : " + b.CreatedAt.Format("Jan 02, 2006 3:04 PM"),
		"Bus Number  : " + b.BusNumber,
		"Route       : " + b.SourceCity + " -> " + b.Destination,
		"Seats       : " + formatSeats(b.Seats),
		"Price/Seat  : $" + formatFloat(b.TicketPrice),
		"Total       : $" + formatFloat(b.TotalCost),
	}
}

func formatSeats(seats []int) string {
	parts := make([]string, len(seats))
	for i, s := range seats {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
