package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busreserve/internal/domain"
	"busreserve/internal/service"
)

// TripHandler handles HTTP requests for the trip catalog.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// AddTripRequest is the HTTP request body for adding a trip.
type AddTripRequest struct {
	BusNumber   string  `json:"bus_number" binding:"required"`
	SourceCity  string  `json:"source_city" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	TotalSeats  int     `json:"total_seats" binding:"required,gt=0"`
	TicketPrice float64 `json:"ticket_price" binding:"gte=0"`
}

// TripResponse is the HTTP response for a trip.
type TripResponse struct {
	Position    int     `json:"position"`
	TripID      string  `json:"trip_id"`
	BusNumber   string  `json:"bus_number"`
	SourceCity  string  `json:"source_city"`
	Destination string  `json:"destination"`
	TotalSeats  int     `json:"total_seats"`
	BookedSeats int     `json:"booked_seats"`
	TicketPrice float64 `json:"ticket_price"`
}

// SeatResponse is the HTTP response for one seat.
type SeatResponse struct {
	Number int    `json:"number"`
	Status string `json:"status"`
}

// ReservationResponse is the HTTP response for a trip's seat map.
type ReservationResponse struct {
	Trip  TripResponse   `json:"trip"`
	Seats []SeatResponse `json:"seats"`
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req AddTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.AddTrip(c.Request.Context(), service.AddTripRequest{
		BusNumber:   req.BusNumber,
		Destination: req.Destination,
		SourceCity:  req.SourceCity,
		TotalSeats:  req.TotalSeats,
		TicketPrice: req.TicketPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	trips := h.tripService.ListTrips(c.Request.Context())
	respondJSON(c, http.StatusOK, toTripResponses(trips))
}

// Search handles GET /v1/trips/search?source=&destination=
func (h *TripHandler) Search(c *gin.Context) {
	trips := h.tripService.SearchTrips(c.Request.Context(), c.Query("source"), c.Query("destination"))
	respondJSON(c, http.StatusOK, toTripResponses(trips))
}

// GetReservation handles GET /v1/trips/:position
func (h *TripHandler) GetReservation(c *gin.Context) {
	position, err := positionParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	reservation, err := h.tripService.ViewReservation(c.Request.Context(), position)
	if err != nil {
		respondError(c, err)
		return
	}

	seats := make([]SeatResponse, len(reservation.Seats))
	for i, s := range reservation.Seats {
		status := "Available"
		if s.Booked {
			status = "Booked"
		}
		seats[i] = SeatResponse{Number: s.Number, Status: status}
	}

	respondJSON(c, http.StatusOK, ReservationResponse{
		Trip:  toTripResponse(reservation.Trip),
		Seats: seats,
	})
}

func toTripResponse(t domain.TripSnapshot) TripResponse {
	return TripResponse{
		Position:    t.Position,
		TripID:      t.ID,
		BusNumber:   t.BusNumber,
		SourceCity:  t.SourceCity,
		Destination: t.Destination,
		TotalSeats:  t.TotalSeats,
		BookedSeats: t.BookedSeats,
		TicketPrice: t.TicketPrice,
	}
}

func toTripResponses(trips []domain.TripSnapshot) []TripResponse {
	response := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		response = append(response, toTripResponse(t))
	}
	return response
}
