// Package metrics exports booking counters through OpenTelemetry.
package metrics

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ServiceName identifies this service in exported telemetry.
const ServiceName = "busreserve"

// Config controls the OTLP metric exporter.
type Config struct {
	Enabled  bool
	Endpoint string // e.g. http://localhost:4318/v1/metrics
	Insecure bool
	Interval time.Duration
}

// Init returns the meter provider to record into and a shutdown function.
// When metrics are disabled the global (no-op) provider is returned.
func Init(ctx context.Context, cfg Config) (metric.MeterProvider, func(context.Context) error, error) {
	if !cfg.Enabled {
		return otel.GetMeterProvider(), func(context.Context) error { return nil }, nil
	}

	exporter, err := newHTTPExporter(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create otlp metric exporter: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
		)),
	)
	otel.SetMeterProvider(provider)

	log.Printf("OpenTelemetry metrics enabled: endpoint=%s interval=%s", cfg.Endpoint, interval)

	return provider, provider.Shutdown, nil
}

func newHTTPExporter(ctx context.Context, cfg Config) (sdkmetric.Exporter, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(u.Host),
	}
	if u.Path != "" {
		opts = append(opts, otlpmetrichttp.WithURLPath(u.Path))
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	return otlpmetrichttp.New(ctx, opts...)
}
