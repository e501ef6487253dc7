package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"busreserve/internal/domain"
	"busreserve/internal/repository"
	"busreserve/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error    string              `json:"error"`
	Rejected []RejectionResponse `json:"rejected,omitempty"`
}

// RejectionResponse describes one refused seat.
type RejectionResponse struct {
	Seat   int    `json:"seat"`
	Reason string `json:"reason"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	_ = c.Error(err)

	resp := ErrorResponse{Error: err.Error()}
	var rejected *domain.SeatRejectedError
	if errors.As(err, &rejected) {
		resp.Rejected = toRejectionResponses(rejected.Rejected)
	}
	c.JSON(code, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, domain.ErrInvalidPosition):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, domain.ErrInvalidSeatCount),
		errors.Is(err, domain.ErrInvalidTrip),
		errors.Is(err, service.ErrInvalidBookingID):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, domain.ErrInvalidOrTakenSeat):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// positionParam parses the 1-based :position path parameter.
func positionParam(c *gin.Context) (int, error) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		return 0, domain.ErrInvalidPosition
	}
	return position, nil
}

func toRejectionResponses(rejected []domain.SeatRejection) []RejectionResponse {
	out := make([]RejectionResponse, len(rejected))
	for i, r := range rejected {
		out[i] = RejectionResponse{Seat: r.Seat, Reason: string(r.Reason)}
	}
	return out
}
