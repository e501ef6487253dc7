package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Booking outcomes recorded on the bookings counter.
const (
	OutcomeBooked          = "booked"
	OutcomeInvalidPosition = "invalid_position"
	OutcomeInvalidCount    = "invalid_seat_count"
	OutcomeSeatRejected    = "seat_rejected"
)

// Recorder records catalog and booking activity. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	bookings    metric.Int64Counter
	seatsBooked metric.Int64Counter
	tripsAdded  metric.Int64Counter
	searches    metric.Int64Counter
}

// NewRecorder creates the instruments on the given provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(ServiceName)

	bookings, err := meter.Int64Counter("busreserve.bookings",
		metric.WithDescription("Booking requests by outcome"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	seatsBooked, err := meter.Int64Counter("busreserve.seats.booked",
		metric.WithDescription("Seats transitioned from available to booked"),
		metric.WithUnit("{seat}"))
	if err != nil {
		return nil, err
	}

	tripsAdded, err := meter.Int64Counter("busreserve.trips.added",
		metric.WithDescription("Trips appended to the catalog"),
		metric.WithUnit("{trip}"))
	if err != nil {
		return nil, err
	}

	searches, err := meter.Int64Counter("busreserve.searches",
		metric.WithDescription("Route searches by whether anything matched"),
		metric.WithUnit("{search}"))
	if err != nil {
		return nil, err
	}

	return &Recorder{
		bookings:    bookings,
		seatsBooked: seatsBooked,
		tripsAdded:  tripsAdded,
		searches:    searches,
	}, nil
}

// Booking records one booking request and, when it succeeded, its seats.
func (r *Recorder) Booking(ctx context.Context, outcome string, seats int) {
	if r == nil {
		return
	}
	r.bookings.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if outcome == OutcomeBooked && seats > 0 {
		r.seatsBooked.Add(ctx, int64(seats))
	}
}

// TripAdded records a catalog append.
func (r *Recorder) TripAdded(ctx context.Context) {
	if r == nil {
		return
	}
	r.tripsAdded.Add(ctx, 1)
}

// Search records a route search.
func (r *Recorder) Search(ctx context.Context, matched bool) {
	if r == nil {
		return
	}
	r.searches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("matched", matched)))
}
