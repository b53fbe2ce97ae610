package bot

import (
	"go.uber.org/atomic"
)

// Stats are the counters of a swarm, shared by all of its shards.
type Stats struct {
	Admitted     atomic.Int64 // Bots started.
	Connected    atomic.Int64 // Bots whose connection was established.
	Configured   atomic.Int64 // Bots that entered the config state.
	Playing      atomic.Int64 // Bots that entered the play state.
	Teleported   atomic.Int64 // Bots that received their first position.
	Disconnected atomic.Int64 // Bots removed from the swarm.
	Active       atomic.Int64 // Bots currently in the swarm.

	PacketsIn  atomic.Uint64
	PacketsOut atomic.Uint64
	BytesIn    atomic.Uint64
	BytesOut   atomic.Uint64
}

// StatsSnapshot is a point in time copy of Stats.
type StatsSnapshot struct {
	Admitted, Connected, Configured, Playing, Teleported, Disconnected, Active int64

	PacketsIn, PacketsOut, BytesIn, BytesOut uint64
}

// Snapshot returns the current values of all counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Admitted:     s.Admitted.Load(),
		Connected:    s.Connected.Load(),
		Configured:   s.Configured.Load(),
		Playing:      s.Playing.Load(),
		Teleported:   s.Teleported.Load(),
		Disconnected: s.Disconnected.Load(),
		Active:       s.Active.Load(),
		PacketsIn:    s.PacketsIn.Load(),
		PacketsOut:   s.PacketsOut.Load(),
		BytesIn:      s.BytesIn.Load(),
		BytesOut:     s.BytesOut.Load(),
	}
}

// KeysAndValues returns the snapshot as logr key value pairs.
func (s StatsSnapshot) KeysAndValues() []any {
	return []any{
		"admitted", s.Admitted,
		"connected", s.Connected,
		"configured", s.Configured,
		"playing", s.Playing,
		"teleported", s.Teleported,
		"disconnected", s.Disconnected,
		"active", s.Active,
		"packetsIn", s.PacketsIn,
		"packetsOut", s.PacketsOut,
		"bytesIn", s.BytesIn,
		"bytesOut", s.BytesOut,
	}
}
