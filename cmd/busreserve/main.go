package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"busreserve/internal/app"
	"busreserve/internal/catalog"
	"busreserve/internal/cli"
	"busreserve/internal/config"
	"busreserve/internal/service"
)

// newLedger is swapped in tests.
var newLedger = app.NewLedger

func main() {
	seedFile := flag.String("seed", "", "YAML trip catalog (overrides CATALOG_SEED_FILE)")
	verbose := flag.Bool("v", false, "log service events to stderr")
	flag.Parse()

	// Menu output owns stdout; startup failures always reach stderr.
	fatal := log.New(os.Stderr, "", 0)
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg := config.Load()
	if *seedFile != "" {
		cfg.Catalog.SeedFile = *seedFile
	}

	if err := run(context.Background(), cfg, os.Stdin, os.Stdout); err != nil {
		fatal.Fatalf("%v", err)
	}
}

// run owns the ledger for the whole session, so it is closed on every exit
// path before main reports the error.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	bookingRepo, closeLedger, err := newLedger(ctx, cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to open booking ledger: %w", err)
	}
	defer closeLedger()

	tripCatalog := catalog.New()
	tripService := service.NewTripService(tripCatalog, nil)
	bookingService := service.NewBookingService(tripCatalog, bookingRepo, service.NewNotificationService(), nil)
	ticketService := service.NewTicketService(bookingService, nil)

	if err := app.LoadCatalog(ctx, cfg.Catalog, tripService); err != nil {
		return err
	}

	return cli.NewMenu(tripService, bookingService, ticketService, in, out).Run(ctx)
}
