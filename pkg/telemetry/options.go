package telemetry

import (
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

// Options contains configuration options for telemetry initialization.
type Options struct {
	// Logger is the optional logger, defaults to the one in the context.
	Logger logr.Logger
	// Registry is the optional prometheus registry metrics are exported to.
	// A new one is created if nil.
	Registry *prometheus.Registry
	// Global installs the meter provider as the otel global.
	Global bool
}
