// Package bot implements the bot swarm: sessions speaking the Minecraft
// Java protocol against a server under test, scheduled in shards.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/go-logr/logr"
	"github.com/robinbraemer/event"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"go.minekube.com/stampede/pkg/config"
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/util/netutil"
)

// Dialer opens the connection of a bot.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options are the options for a Swarm.
type Options struct {
	// Config is the validated config of the run. Required.
	Config *config.Config
	// Logger is the logger used by the swarm.
	// If not set, the logger from the context passed to Run is used.
	Logger logr.Logger
	// Event is the event manager bot lifecycle events are fired on.
	// Defaults to event.Nop.
	Event event.Manager
	// Dialer overrides the dialer of bot connections.
	Dialer Dialer
	// Meter receives the swarm metrics. Defaults to the global meter provider.
	Meter metric.Meter
	// Ping makes bots do a server list ping instead of joining.
	Ping bool
}

// Swarm runs Config.Count bots split across Config.Shards schedulers.
type Swarm struct {
	cfg        *config.Config
	target     *netutil.Target
	dispatcher *Dispatcher
	stats      *Stats
	event      event.Manager
	dialer     Dialer
	meter      metric.Meter
	ping       bool
	proxySrc   *netip.Prefix
	log        logr.Logger
}

// New returns a new Swarm.
func New(options Options) (*Swarm, error) {
	cfg := options.Config
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	target, err := netutil.ParseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}
	dispatcher, err := NewDispatcher(proto.Protocol(cfg.Protocol))
	if err != nil {
		return nil, err
	}
	sw := &Swarm{
		cfg:        cfg,
		target:     target,
		dispatcher: dispatcher,
		stats:      new(Stats),
		event:      options.Event,
		dialer:     options.Dialer,
		meter:      options.Meter,
		ping:       options.Ping,
		log:        options.Logger,
	}
	if sw.event == nil {
		sw.event = event.Nop
	}
	if sw.dialer == nil {
		sw.dialer = &net.Dialer{Timeout: cfg.DialTimeout}
	}
	if sw.meter == nil {
		sw.meter = otel.Meter(meterName)
	}
	if cfg.ProxyProtocol.Enabled {
		prefix, err := netip.ParsePrefix(cfg.ProxyProtocol.SourceCIDR)
		if err != nil {
			return nil, fmt.Errorf("invalid PROXY protocol source CIDR: %w", err)
		}
		sw.proxySrc = &prefix
	}
	return sw, nil
}

// Stats returns the live counters of the swarm.
func (sw *Swarm) Stats() *Stats { return sw.stats }

// Event returns the event manager lifecycle events are fired on.
func (sw *Swarm) Event() event.Manager { return sw.event }

// Run runs all shards and blocks until every bot left or ctx is canceled.
func (sw *Swarm) Run(ctx context.Context) error {
	if sw.log.GetSink() == nil {
		sw.log = logr.FromContextOrDiscard(ctx)
	}
	sw.log = sw.log.WithName("swarm")

	reg, err := registerMetrics(sw.meter, sw.stats)
	if err != nil {
		return fmt.Errorf("error registering metrics: %w", err)
	}
	defer func() { _ = reg.Unregister() }()

	parts := split(sw.cfg.Count, sw.cfg.Shards)
	perTick := sw.cfg.Admission.AvgJoinsPerTick / float64(len(parts))
	sw.log.Info("starting bots",
		"target", sw.target, "count", sw.cfg.Count, "shards", len(parts),
		"protocol", proto.Protocol(sw.cfg.Protocol))

	eg, ctx := errgroup.WithContext(ctx)
	firstID := sw.cfg.NameOffset
	for shard, count := range parts {
		sc := sw.newScheduler(schedulerOptions{
			shard:   shard,
			firstID: firstID,
			count:   count,
			perTick: perTick,
		})
		firstID += count
		eg.Go(func() error { return sc.run(ctx) })
	}
	err = eg.Wait()
	sw.log.Info("bots finished", sw.stats.Snapshot().KeysAndValues()...)
	return err
}

// split splits count bots into shards parts, the first
// count%shards parts get one extra bot.
func split(count, shards int) []int {
	if shards < 1 {
		shards = 1
	}
	parts := make([]int, shards)
	for i := range parts {
		parts[i] = count / shards
		if i < count%shards {
			parts[i]++
		}
	}
	return parts
}
