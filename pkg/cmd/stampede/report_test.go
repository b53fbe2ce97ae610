package stampede

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/robinbraemer/event"
	"github.com/stretchr/testify/assert"

	"go.minekube.com/stampede/pkg/bot"
)

func TestReasonSummary(t *testing.T) {
	mgr := event.New()
	s := newReasonSummary(mgr)
	assert.Empty(t, s.keysAndValues())

	for _, reason := range []string{
		"stalled",
		`kicked: {"text":"full"}`,
		"connection lost",
		`kicked: {"text":"banned"}`,
		"stalled",
		`kicked: {"text":"full"}`,
	} {
		mgr.Fire(&bot.SessionDisconnectedEvent{Reason: reason})
	}
	assert.Equal(t, []any{"kicked", 3, "stalled", 2, "connection lost", 1}, s.keysAndValues())
}

func TestReport(t *testing.T) {
	lines := make(chan string, 16)
	log := funcr.New(func(prefix, args string) {
		select {
		case lines <- args:
		default:
		}
	}, funcr.Options{})

	stats := new(bot.Stats)
	stats.Playing.Store(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); report(ctx, log, stats, 10*time.Millisecond) }()

	select {
	case line := <-lines:
		assert.Contains(t, line, `"playing"=4`)
	case <-time.After(5 * time.Second):
		t.Fatal("no progress logged")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("report did not stop")
	}

	// a zero interval returns right away
	report(context.Background(), log, stats, 0)
}
