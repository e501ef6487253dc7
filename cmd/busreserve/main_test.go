package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newrelic/go-agent/v3/newrelic"

	"busreserve/internal/config"
	"busreserve/internal/repository"
	"busreserve/internal/repository/memory"
)

func countingLedger(closed *int) func(context.Context, *config.Config, *newrelic.Application) (repository.BookingRepository, func() error, error) {
	return func(context.Context, *config.Config, *newrelic.Application) (repository.BookingRepository, func() error, error) {
		return memory.NewBookingRepository(), func() error {
			*closed++
			return nil
		}, nil
	}
}

func TestRun_ClosesLedgerWhenCatalogFails(t *testing.T) {
	closed := 0
	newLedger = countingLedger(&closed)

	cfg := config.Load()
	cfg.Ledger.Driver = config.LedgerMemory
	cfg.Catalog.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	if err := run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for missing seed file")
	}
	if closed != 1 {
		t.Errorf("expected ledger closed once, got %d", closed)
	}
}

func TestRun_ExitClosesLedger(t *testing.T) {
	closed := 0
	newLedger = countingLedger(&closed)

	cfg := config.Load()
	cfg.Ledger.Driver = config.LedgerMemory
	cfg.Catalog.SeedFile = ""

	var out bytes.Buffer
	if err := run(context.Background(), cfg, strings.NewReader("5\n"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Exiting...") {
		t.Errorf("expected menu exit, got:\n%s", out.String())
	}
	if closed != 1 {
		t.Errorf("expected ledger closed once, got %d", closed)
	}
}
