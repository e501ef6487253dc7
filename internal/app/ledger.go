package app

import (
	"context"
	"fmt"
	"log"

	"github.com/newrelic/go-agent/v3/newrelic"

	"busreserve/internal/config"
	"busreserve/internal/repository"
	"busreserve/internal/repository/memory"
	mysqlrepo "busreserve/internal/repository/mysql"
	"busreserve/internal/repository/postgres"
)

// NewLedger returns the booking repository selected by cfg.Ledger together
// with a function that releases it.
func NewLedger(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application) (repository.BookingRepository, func() error, error) {
	switch cfg.Ledger.Driver {
	case config.LedgerPostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Booking ledger: PostgreSQL")
		return postgres.NewBookingRepository(db), db.Close, nil

	case config.LedgerMySQL:
		db, err := NewMySQLDatabase(ctx, cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Booking ledger: MySQL")
		return mysqlrepo.NewBookingRepository(db), db.Close, nil

	case config.LedgerMemory, "":
		log.Println("Booking ledger: in-memory")
		return memory.NewBookingRepository(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown ledger driver %q", cfg.Ledger.Driver)
	}
}
