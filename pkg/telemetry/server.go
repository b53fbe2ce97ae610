package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the http handler serving the metrics endpoint and a health check.
func (t *Telemetry) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, t.path(), promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{
		ErrorLog: promLogger{t},
	}))
	return r
}

func (t *Telemetry) path() string {
	if t.cfg.Path == "" {
		return "/metrics"
	}
	return t.cfg.Path
}

// Serve listens on the configured bind address and serves Handler until ctx is canceled.
func (t *Telemetry) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", t.cfg.Bind)
	if err != nil {
		return err
	}
	return t.serve(ctx, ln)
}

func (t *Telemetry) serve(ctx context.Context, ln net.Listener) error {
	svr := http.Server{Handler: t.Handler()}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { <-ctx.Done(); _ = svr.Close() }()

	t.log.Info("metrics endpoint started", "addr", ln.Addr().String(), "path", t.path())
	defer t.log.Info("stopped metrics endpoint")

	err := svr.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}

// promLogger adapts the logger for promhttp errors.
type promLogger struct{ t *Telemetry }

func (l promLogger) Println(v ...any) {
	l.t.log.Info("metrics endpoint error", "error", v)
}
