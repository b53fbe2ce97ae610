package telemetry

import (
	"context"
	"errors"
	"strings"

	"github.com/robinbraemer/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"go.minekube.com/stampede/pkg/bot"
)

const meterName = "go.minekube.com/stampede/pkg/telemetry"

// InstrumentSwarm records session lifecycle events fired on mgr.
func (t *Telemetry) InstrumentSwarm(mgr event.Manager) error {
	meter := t.Meter(meterName)
	disconnects, err1 := meter.Int64Counter(
		"stampede.bots.disconnects",
		metric.WithDescription("Bot disconnects by reason"),
	)
	errored, err2 := meter.Int64Counter(
		"stampede.bots.errors",
		metric.WithDescription("Bot disconnects caused by an error"),
	)
	latency, err3 := meter.Float64Histogram(
		"stampede.status.latency",
		metric.WithDescription("Status ping round trip time"),
		metric.WithUnit("ms"),
	)
	if err := errors.Join(err1, err2, err3); err != nil {
		return err
	}

	event.Subscribe(mgr, 0, func(e *bot.SessionDisconnectedEvent) {
		attrs := metric.WithAttributes(attribute.String("reason", ReasonClass(e.Reason)))
		disconnects.Add(context.Background(), 1, attrs)
		if e.Err != nil {
			errored.Add(context.Background(), 1, attrs)
		}
	})
	event.Subscribe(mgr, 0, func(e *bot.StatusPingEvent) {
		latency.Record(context.Background(), float64(e.Latency.Microseconds())/1000)
	})
	return nil
}

// ReasonClass strips the server provided detail from a disconnect reason,
// e.g. "kicked: {...}" becomes "kicked".
func ReasonClass(reason string) string {
	class, _, _ := strings.Cut(reason, ":")
	if class = strings.TrimSpace(class); class == "" {
		return "unknown"
	}
	return class
}
