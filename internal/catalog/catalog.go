// Package catalog holds the ordered, in-memory collection of bus trips.
package catalog

import (
	"strings"
	"sync"

	"busreserve/internal/domain"
)

// Catalog is an ordered list of trips. A trip's position is its 1-based index
// in insertion order; trips are never removed, so positions are stable for
// the life of the process.
type Catalog struct {
	mu    sync.RWMutex
	trips []*domain.Trip
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Add appends a trip and returns its position.
func (c *Catalog) Add(trip *domain.Trip) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.trips = append(c.trips, trip)
	return len(c.trips)
}

// Len returns the number of trips in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.trips)
}

// At returns the trip at the given 1-based position.
func (c *Catalog) At(position int) (*domain.Trip, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if position < 1 || position > len(c.trips) {
		return nil, domain.ErrInvalidPosition
	}
	return c.trips[position-1], nil
}

// List returns a snapshot of every trip in catalog order.
func (c *Catalog) List() []domain.TripSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshots := make([]domain.TripSnapshot, 0, len(c.trips))
	for i, trip := range c.trips {
		snapshots = append(snapshots, trip.Snapshot(i+1))
	}
	return snapshots
}

// Search returns trips whose source city and destination both equal the
// query after trimming and lowercasing. Matches keep their catalog positions.
func (c *Catalog) Search(sourceCity, destination string) []domain.TripSnapshot {
	source := normalize(sourceCity)
	dest := normalize(destination)

	c.mu.RLock()
	defer c.mu.RUnlock()

	matches := []domain.TripSnapshot{}
	for i, trip := range c.trips {
		if normalize(trip.SourceCity) == source && normalize(trip.Destination) == dest {
			matches = append(matches, trip.Snapshot(i+1))
		}
	}
	return matches
}

func normalize(s string) string {
	return strings.ToLower(strings.Trim(s, " \t\n\r"))
}
