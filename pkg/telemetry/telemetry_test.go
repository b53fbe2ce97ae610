package telemetry

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robinbraemer/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"

	"go.minekube.com/stampede/pkg/bot"
	"go.minekube.com/stampede/pkg/config"
)

func newTestTelemetry(t *testing.T) *Telemetry {
	t.Helper()
	tel, err := New(context.Background(), config.DefaultConfig.Metrics, Options{
		Logger:   testr.New(t),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })
	return tel
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestHandler(t *testing.T) {
	tel := newTestTelemetry(t)
	gauge, err := tel.Meter("test").Int64ObservableGauge("stampede.bots.active")
	require.NoError(t, err)
	_, err = tel.Meter("test").RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, 7)
		return nil
	}, gauge)
	require.NoError(t, err)

	srv := httptest.NewServer(tel.Handler())
	defer srv.Close()

	code, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Regexp(t, `stampede_bots_active\{[^}]*\} 7`, body)
	assert.Contains(t, body, `service_name="stampede"`)

	code, _ = get(t, srv.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHandler_customPath(t *testing.T) {
	tel, err := New(context.Background(), config.Metrics{Path: "/stats"}, Options{Registry: prometheus.NewRegistry()})
	require.NoError(t, err)
	srv := httptest.NewServer(tel.Handler())
	defer srv.Close()

	code, _ := get(t, srv.URL+"/stats")
	assert.Equal(t, http.StatusOK, code)
	code, _ = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServe(t *testing.T) {
	tel := newTestTelemetry(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tel.serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestInstrumentSwarm(t *testing.T) {
	tel := newTestTelemetry(t)
	mgr := event.New()
	require.NoError(t, tel.InstrumentSwarm(mgr))

	mgr.Fire(&bot.SessionDisconnectedEvent{Reason: `kicked: {"text":"bye"}`})
	mgr.Fire(&bot.SessionDisconnectedEvent{Reason: `kicked: {"text":"again"}`})
	mgr.Fire(&bot.SessionDisconnectedEvent{Reason: "connection lost", Err: errors.New("reset")})
	mgr.Fire(&bot.StatusPingEvent{Latency: 3 * time.Millisecond})

	srv := httptest.NewServer(tel.Handler())
	defer srv.Close()
	_, body := get(t, srv.URL+"/metrics")
	assert.Regexp(t, `stampede_bots_disconnects_total\{[^}]*reason="kicked"[^}]*\} 2`, body)
	assert.Regexp(t, `stampede_bots_errors_total\{[^}]*reason="connection lost"[^}]*\} 1`, body)
	assert.Contains(t, body, "stampede_status_latency_milliseconds_count")
}

func TestReasonClass(t *testing.T) {
	tests := map[string]string{
		`kicked: {"text":"x"}`:             "kicked",
		"transfer unsupported: host:25565": "transfer unsupported",
		"stalled":                          "stalled",
		"":                                 "unknown",
		": odd":                            "unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, ReasonClass(in), in)
	}
}
