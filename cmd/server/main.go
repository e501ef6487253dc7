package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"busreserve/internal/app"
	"busreserve/internal/catalog"
	"busreserve/internal/config"
	"busreserve/internal/handler"
	"busreserve/internal/metrics"
	internalRedis "busreserve/internal/redis"
	"busreserve/internal/repository"
	"busreserve/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize OpenTelemetry metrics.
	meterProvider, shutdownMetrics, err := metrics.Init(ctx, metrics.Config{
		Enabled:  cfg.Metrics.Enabled,
		Endpoint: cfg.Metrics.Endpoint,
		Insecure: cfg.Metrics.Insecure,
		Interval: cfg.Metrics.Interval,
	})
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	recorder, err := metrics.NewRecorder(meterProvider)
	if err != nil {
		log.Fatalf("failed to create metric instruments: %v", err)
	}

	// Initialize the booking ledger.
	bookingRepo, closeLedger, err := app.NewLedger(ctx, cfg, nrApp)
	if err != nil {
		log.Fatalf("failed to open booking ledger: %v", err)
	}
	defer closeLedger()

	// Initialize Redis for idempotent replay, if enabled.
	var responseStore internalRedis.ResponseStoreInterface
	if cfg.Redis.Enabled {
		redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		responseStore = internalRedis.NewResponseStore(redisClient)
		log.Println("Connected to Redis")
	}

	// Wire dependencies.
	server, err := wireServer(ctx, cfg, bookingRepo, responseStore, recorder, nrApp)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		log.Printf("failed to flush metrics: %v", err)
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	ctx context.Context,
	cfg *config.Config,
	bookingRepo repository.BookingRepository,
	responseStore internalRedis.ResponseStoreInterface,
	recorder *metrics.Recorder,
	nrApp *newrelic.Application,
) (*http.Server, error) {
	// Initialize the catalog.
	tripCatalog := catalog.New()

	// Initialize services.
	notificationService := service.NewNotificationService()
	tripService := service.NewTripService(tripCatalog, recorder)
	bookingService := service.NewBookingService(tripCatalog, bookingRepo, notificationService, recorder)
	ticketService := service.NewTicketService(bookingService, notificationService)

	if err := app.LoadCatalog(ctx, cfg.Catalog, tripService); err != nil {
		return nil, err
	}

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(tripService)
	bookingHandler := handler.NewBookingHandler(bookingService, ticketService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:    tripHandler,
		BookingHandler: bookingHandler,
		ResponseStore:  responseStore,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
