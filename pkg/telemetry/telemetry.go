package telemetry

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"go.minekube.com/stampede/pkg/config"
	"go.minekube.com/stampede/pkg/version"
)

const serviceName = "stampede"

// Telemetry owns the meter provider of a run and the registry it exports to.
type Telemetry struct {
	cfg      config.Metrics
	log      logr.Logger
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
}

// New creates a meter provider backed by a prometheus registry.
func New(ctx context.Context, cfg config.Metrics, opts Options) (*Telemetry, error) {
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.FromContextOrDiscard(ctx)
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.String()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	if opts.Global {
		otel.SetMeterProvider(provider)
	}

	return &Telemetry{
		cfg:      cfg,
		log:      log.WithName("telemetry"),
		registry: reg,
		provider: provider,
	}, nil
}

// Meter returns a named meter of the provider.
func (t *Telemetry) Meter(name string) metric.Meter { return t.provider.Meter(name) }

// Registry returns the prometheus registry metrics are exported to.
func (t *Telemetry) Registry() *prometheus.Registry { return t.registry }

// Shutdown flushes and stops the meter provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}
