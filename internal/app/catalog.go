package app

import (
	"context"
	"fmt"
	"log"

	"busreserve/internal/catalog"
	"busreserve/internal/config"
	"busreserve/internal/service"
)

// LoadCatalog fills the catalog from the configured seed file, or from the
// built-in trips when none is set.
func LoadCatalog(ctx context.Context, cfg config.CatalogConfig, trips *service.TripService) error {
	seed := catalog.DefaultSeed()
	if cfg.SeedFile != "" {
		var err error
		seed, err = catalog.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to load catalog seed: %w", err)
		}
	}

	if err := trips.LoadSeed(ctx, seed); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	source := cfg.SeedFile
	if source == "" {
		source = "built-in"
	}
	log.Printf("Catalog loaded: trips=%d source=%s", len(seed), source)
	return nil
}
