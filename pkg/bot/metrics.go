package bot

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
)

const meterName = "go.minekube.com/stampede/pkg/bot"

// registerMetrics reports stats as observable instruments of meter.
func registerMetrics(meter metric.Meter, stats *Stats) (metric.Registration, error) {
	var (
		errs    []error
		gauges  = map[string]metric.Int64ObservableGauge{}
		counter = map[string]metric.Int64ObservableCounter{}
		obs     []metric.Observable
	)
	gauge := func(name, desc string) {
		g, err := meter.Int64ObservableGauge(name, metric.WithDescription(desc))
		errs = append(errs, err)
		gauges[name] = g
		obs = append(obs, g)
	}
	count := func(name, desc, unit string) {
		c, err := meter.Int64ObservableCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		errs = append(errs, err)
		counter[name] = c
		obs = append(obs, c)
	}

	gauge("stampede.bots.active", "Bots currently connected or connecting")
	count("stampede.bots.admitted", "Bots started", "{bot}")
	count("stampede.bots.connected", "Bots whose connection was established", "{bot}")
	count("stampede.bots.configured", "Bots that entered the config state", "{bot}")
	count("stampede.bots.playing", "Bots that entered the play state", "{bot}")
	count("stampede.bots.teleported", "Bots positioned by the server", "{bot}")
	count("stampede.bots.disconnected", "Bots removed from the swarm", "{bot}")
	count("stampede.packets.received", "Packets received", "{packet}")
	count("stampede.packets.sent", "Packets sent", "{packet}")
	count("stampede.bytes.received", "Bytes received", "By")
	count("stampede.bytes.sent", "Bytes sent", "By")
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats.Snapshot()
		o.ObserveInt64(gauges["stampede.bots.active"], s.Active)
		o.ObserveInt64(counter["stampede.bots.admitted"], s.Admitted)
		o.ObserveInt64(counter["stampede.bots.connected"], s.Connected)
		o.ObserveInt64(counter["stampede.bots.configured"], s.Configured)
		o.ObserveInt64(counter["stampede.bots.playing"], s.Playing)
		o.ObserveInt64(counter["stampede.bots.teleported"], s.Teleported)
		o.ObserveInt64(counter["stampede.bots.disconnected"], s.Disconnected)
		o.ObserveInt64(counter["stampede.packets.received"], int64(s.PacketsIn))
		o.ObserveInt64(counter["stampede.packets.sent"], int64(s.PacketsOut))
		o.ObserveInt64(counter["stampede.bytes.received"], int64(s.BytesIn))
		o.ObserveInt64(counter["stampede.bytes.sent"], int64(s.BytesOut))
		return nil
	}, obs...)
}
