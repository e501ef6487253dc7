package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"busreserve/internal/catalog"
	"busreserve/internal/repository/memory"
	"busreserve/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the handlers against a catalog seeded with the default trips.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	c := catalog.New()
	tripService := service.NewTripService(c, nil)
	if err := tripService.LoadSeed(context.Background(), catalog.DefaultSeed()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	notificationService := service.NewNotificationService()
	bookingService := service.NewBookingService(c, memory.NewBookingRepository(), notificationService, nil)
	ticketService := service.NewTicketService(bookingService, notificationService)

	trips := NewTripHandler(tripService)
	bookings := NewBookingHandler(bookingService, ticketService)

	router := gin.New()
	router.GET("/v1/trips", trips.GetAll)
	router.POST("/v1/trips", trips.Create)
	router.GET("/v1/trips/search", trips.Search)
	router.GET("/v1/trips/:position", trips.GetReservation)
	router.POST("/v1/trips/:position/bookings", bookings.BookSeats)
	router.POST("/v1/trips/:position/bookings/validate", bookings.ValidateSeats)
	router.GET("/v1/trips/:position/bookings", bookings.ListForTrip)
	router.GET("/v1/bookings/:id", bookings.GetBooking)
	router.GET("/v1/bookings/:id/ticket", bookings.GetTicket)
	return router
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ────── TRIPS ──────

func TestTripHandler_GetAll(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/v1/trips", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var trips []TripResponse
	if err := json.Unmarshal(w.Body.Bytes(), &trips); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(trips) != 4 {
		t.Fatalf("expected 4 trips, got %d", len(trips))
	}
	if trips[3].Position != 4 || trips[3].BusNumber != "012D" {
		t.Errorf("unexpected fourth trip: %+v", trips[3])
	}
}

func TestTripHandler_Create(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/v1/trips", map[string]any{
		"bus_number":   "900X",
		"source_city":  "Dallas",
		"destination":  "Austin",
		"total_seats":  12,
		"ticket_price": 15.5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var trip TripResponse
	if err := json.Unmarshal(w.Body.Bytes(), &trip); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if trip.Position != 5 || trip.BookedSeats != 0 || trip.TotalSeats != 12 {
		t.Errorf("unexpected trip: %+v", trip)
	}
}

func TestTripHandler_CreateRejectsInvalidBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/v1/trips", map[string]any{
		"bus_number":  "900X",
		"source_city": "Dallas",
		"destination": "Austin",
		"total_seats": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTripHandler_CreateRejectsBlankCity(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/v1/trips", map[string]any{
		"bus_number":   "900X",
		"source_city":  "   ",
		"destination":  "Austin",
		"total_seats":  10,
		"ticket_price": 5,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTripHandler_Search(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/v1/trips/search?source=%20boston%20&destination=NEW%20YORK", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var trips []TripResponse
	if err := json.Unmarshal(w.Body.Bytes(), &trips); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(trips) != 2 || trips[0].Position != 1 || trips[1].Position != 4 {
		t.Errorf("unexpected search result: %+v", trips)
	}
}

func TestTripHandler_SearchNoMatch(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/v1/trips/search?source=Boston&destination=Chicago", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := bytes.TrimSpace(w.Body.Bytes()); string(body) != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}

func TestTripHandler_GetReservation(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	doRequest(router, http.MethodPost, "/v1/trips/3/bookings", BookSeatsRequest{Seats: []int{2}})

	w := doRequest(router, http.MethodGet, "/v1/trips/3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ReservationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Seats) != 30 {
		t.Fatalf("expected 30 seats, got %d", len(resp.Seats))
	}
	if resp.Seats[1].Status != "Booked" || resp.Seats[0].Status != "Available" {
		t.Errorf("unexpected seat statuses: %+v", resp.Seats[:2])
	}
	if resp.Trip.BookedSeats != 1 {
		t.Errorf("expected 1 booked seat, got %d", resp.Trip.BookedSeats)
	}
}

func TestTripHandler_GetReservationInvalidPosition(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	for _, path := range []string{"/v1/trips/0", "/v1/trips/5", "/v1/trips/abc"} {
		if w := doRequest(router, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}
	}
}

// ────── BOOKINGS ──────

func TestBookingHandler_BookSeats(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/v1/trips/1/bookings", BookSeatsRequest{Seats: []int{1, 2, 3}})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var booking BookingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &booking); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if booking.TotalCost != 90 {
		t.Errorf("expected total cost 90, got %.2f", booking.TotalCost)
	}
	if booking.BookingID == "" {
		t.Error("expected booking id")
	}
}

func TestBookingHandler_BookTakenSeatConflict(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	doRequest(router, http.MethodPost, "/v1/trips/1/bookings", BookSeatsRequest{Seats: []int{1, 2, 3}})

	w := doRequest(router, http.MethodPost, "/v1/trips/1/bookings", BookSeatsRequest{Seats: []int{4, 2}})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rejected) != 1 || resp.Rejected[0].Seat != 2 || resp.Rejected[0].Reason != "ALREADY_BOOKED" {
		t.Errorf("unexpected rejections: %+v", resp.Rejected)
	}

	// Seat 4 must not have been booked by the failed request.
	trips := doRequest(router, http.MethodGet, "/v1/trips/1", nil)
	var reservation ReservationResponse
	_ = json.Unmarshal(trips.Body.Bytes(), &reservation)
	if reservation.Trip.BookedSeats != 3 {
		t.Errorf("expected 3 booked seats, got %d", reservation.Trip.BookedSeats)
	}
}

func TestBookingHandler_BookErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		seats    []int
		wantCode int
	}{
		{"invalid position", "/v1/trips/9/bookings", []int{1}, http.StatusNotFound},
		{"no seats", "/v1/trips/1/bookings", []int{}, http.StatusBadRequest},
		{"out of range seat", "/v1/trips/3/bookings", []int{31}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)
			w := doRequest(router, http.MethodPost, tt.path, BookSeatsRequest{Seats: tt.seats})
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestBookingHandler_ValidateSeats(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	doRequest(router, http.MethodPost, "/v1/trips/1/bookings", BookSeatsRequest{Seats: []int{5}})

	w := doRequest(router, http.MethodPost, "/v1/trips/1/bookings/validate", BookSeatsRequest{Seats: []int{4, 5, 51}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ValidationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Valid {
		t.Error("expected validation to fail")
	}
	if len(resp.Accepted) != 1 || resp.Accepted[0] != 4 {
		t.Errorf("expected accepted [4], got %v", resp.Accepted)
	}
	if len(resp.Rejected) != 2 {
		t.Errorf("expected 2 rejections, got %+v", resp.Rejected)
	}
}

func TestBookingHandler_GetBookingAndTicket(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/v1/trips/4/bookings", BookSeatsRequest{Seats: []int{7, 8}})
	var booking BookingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &booking); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := doRequest(router, http.MethodGet, "/v1/bookings/"+booking.BookingID, nil)
	if got.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", got.Code)
	}

	list := doRequest(router, http.MethodGet, "/v1/trips/4/bookings", nil)
	var bookings []BookingResponse
	_ = json.Unmarshal(list.Body.Bytes(), &bookings)
	if len(bookings) != 1 || bookings[0].TotalCost != 56 {
		t.Errorf("unexpected bookings: %+v", bookings)
	}

	ticket := doRequest(router, http.MethodGet, "/v1/bookings/"+booking.BookingID+"/ticket", nil)
	if ticket.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", ticket.Code)
	}
	if ct := ticket.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", ct)
	}
	if !bytes.HasPrefix(ticket.Body.Bytes(), []byte("%PDF")) {
		t.Error("expected PDF body")
	}
}

func TestBookingHandler_GetBookingNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	if w := doRequest(router, http.MethodGet, "/v1/bookings/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestBookingHandler_TicketMalformedIDNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	if w := doRequest(router, http.MethodGet, "/v1/bookings/not-a-uuid/ticket", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
