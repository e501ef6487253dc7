package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"busreserve/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationTicketIssued     NotificationType = "TICKET_ISSUED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	BookingID string
	Title     string
	Message   string
	Data      map[string]interface{}
	CreatedAt time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingConfirmed announces a successful booking.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:      NotificationBookingConfirmed,
		BookingID: booking.ID,
		Title:     "Booking Confirmed",
		Message:   fmt.Sprintf("Booking successful! Total cost: $%.2f", booking.TotalCost),
		Data: map[string]interface{}{
			"bus_number": booking.BusNumber,
			"position":   booking.Position,
			"seats":      booking.Seats,
			"total_cost": booking.TotalCost,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyTicketIssued announces that a ticket document was rendered.
func (s *NotificationService) NotifyTicketIssued(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:      NotificationTicketIssued,
		BookingID: booking.ID,
		Title:     "Ticket Ready",
		Message:   fmt.Sprintf("Your ticket for bus %s is ready", booking.BusNumber),
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification to the log.
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Booking=%s, Title=%s, Message=%s",
		notification.Type, notification.BookingID, notification.Title, notification.Message)

	return nil
}
