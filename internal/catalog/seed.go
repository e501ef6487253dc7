package catalog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SeedTrip is one trip entry of a seed file.
type SeedTrip struct {
	BusNumber   string  `yaml:"bus_number" validate:"required"`
	Destination string  `yaml:"destination" validate:"required"`
	SourceCity  string  `yaml:"source_city" validate:"required"`
	TotalSeats  int     `yaml:"total_seats" validate:"gt=0"`
	TicketPrice float64 `yaml:"ticket_price" validate:"gte=0"`
}

// SeedFile is the on-disk layout of a catalog seed.
type SeedFile struct {
	Trips []SeedTrip `yaml:"trips" validate:"required,min=1,dive"`
}

// DefaultSeed is the catalog loaded when no seed file is configured.
func DefaultSeed() []SeedTrip {
	return []SeedTrip{
		{BusNumber: "123A", Destination: "New York", SourceCity: "Boston", TotalSeats: 50, TicketPrice: 30.0},
		{BusNumber: "456B", Destination: "Los Angeles", SourceCity: "San Francisco", TotalSeats: 40, TicketPrice: 25.0},
		{BusNumber: "789C", Destination: "Chicago", SourceCity: "Detroit", TotalSeats: 30, TicketPrice: 20.0},
		{BusNumber: "012D", Destination: "New York", SourceCity: "Boston", TotalSeats: 50, TicketPrice: 28.0},
	}
}

// LoadSeedFile reads and validates a YAML seed file.
func LoadSeedFile(path string) ([]SeedTrip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates YAML seed data.
func ParseSeed(data []byte) ([]SeedTrip, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	v := validator.New()
	if err := v.Struct(seed); err != nil {
		return nil, fmt.Errorf("validate seed: %w", err)
	}

	return seed.Trips, nil
}
