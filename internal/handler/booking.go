package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busreserve/internal/domain"
	"busreserve/internal/service"
)

// BookingHandler handles HTTP requests for seat bookings.
type BookingHandler struct {
	bookingService *service.BookingService
	ticketService  *service.TicketService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, ticketService *service.TicketService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		ticketService:  ticketService,
	}
}

// BookSeatsRequest is the HTTP request body for booking or validating seats.
type BookSeatsRequest struct {
	Seats []int `json:"seats"`
}

// BookingResponse is the HTTP response for a booking.
type BookingResponse struct {
	BookingID   string  `json:"booking_id"`
	TripID      string  `json:"trip_id"`
	Position    int     `json:"position"`
	BusNumber   string  `json:"bus_number"`
	SourceCity  string  `json:"source_city"`
	Destination string  `json:"destination"`
	Seats       []int   `json:"seats"`
	TicketPrice float64 `json:"ticket_price"`
	TotalCost   float64 `json:"total_cost"`
	CreatedAt   string  `json:"created_at"`
}

// ValidationResponse is the HTTP response for a seat validation.
type ValidationResponse struct {
	Valid    bool                `json:"valid"`
	Accepted []int               `json:"accepted"`
	Rejected []RejectionResponse `json:"rejected"`
}

// BookSeats handles POST /v1/trips/:position/bookings
func (h *BookingHandler) BookSeats(c *gin.Context) {
	position, err := positionParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req BookSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.BookSeats(c.Request.Context(), service.BookSeatsRequest{
		Position: position,
		Seats:    req.Seats,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// ValidateSeats handles POST /v1/trips/:position/bookings/validate
func (h *BookingHandler) ValidateSeats(c *gin.Context) {
	position, err := positionParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req BookSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.bookingService.ValidateSeats(c.Request.Context(), service.ValidateSeatsRequest{
		Position: position,
		Seats:    req.Seats,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	accepted := result.Accepted
	if accepted == nil {
		accepted = []int{}
	}
	respondJSON(c, http.StatusOK, ValidationResponse{
		Valid:    result.OK(),
		Accepted: accepted,
		Rejected: toRejectionResponses(result.Rejected),
	})
}

// ListForTrip handles GET /v1/trips/:position/bookings
func (h *BookingHandler) ListForTrip(c *gin.Context) {
	position, err := positionParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), position)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}
	respondJSON(c, http.StatusOK, response)
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetTicket handles GET /v1/bookings/:id/ticket
func (h *BookingHandler) GetTicket(c *gin.Context) {
	bookingID := c.Param("id")

	pdf, err := h.ticketService.RenderPDF(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="ticket-`+bookingID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:   b.ID,
		TripID:      b.TripID,
		Position:    b.Position,
		BusNumber:   b.BusNumber,
		SourceCity:  b.SourceCity,
		Destination: b.Destination,
		Seats:       b.Seats,
		TicketPrice: b.TicketPrice,
		TotalCost:   b.TotalCost,
		CreatedAt:   b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
