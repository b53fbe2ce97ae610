package stampede

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/robinbraemer/event"

	"go.minekube.com/stampede/pkg/bot"
	"go.minekube.com/stampede/pkg/telemetry"
)

// report logs the swarm counters every interval until ctx is canceled.
func report(ctx context.Context, log logr.Logger, stats *bot.Stats, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			log.Info("progress", stats.Snapshot().KeysAndValues()...)
		}
	}
}

// reasonSummary counts disconnects by reason class.
type reasonSummary struct {
	mu     sync.Mutex
	counts map[string]int
}

func newReasonSummary(mgr event.Manager) *reasonSummary {
	s := &reasonSummary{counts: map[string]int{}}
	event.Subscribe(mgr, 0, func(e *bot.SessionDisconnectedEvent) {
		s.mu.Lock()
		s.counts[telemetry.ReasonClass(e.Reason)]++
		s.mu.Unlock()
	})
	return s
}

// keysAndValues returns the counts, most frequent first.
func (s *reasonSummary) keysAndValues() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	reasons := make([]string, 0, len(s.counts))
	for r := range s.counts {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if s.counts[reasons[i]] != s.counts[reasons[j]] {
			return s.counts[reasons[i]] > s.counts[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})
	kv := make([]any, 0, 2*len(reasons))
	for _, r := range reasons {
		kv = append(kv, r, s.counts[r])
	}
	return kv
}
