// Package pprofserver runs the loopback admin listener carrying the pprof
// handlers and the Prometheus metrics endpoint. It is never exposed on the
// public address.
package pprofserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/myrjola/hotseat/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Handle registers the pprof and Prometheus handlers on mux. The gatherer is
// the same registry the process records its metrics into.
func Handle(mux *http.ServeMux, gatherer prometheus.Gatherer) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

func newServeMux(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	Handle(mux, gatherer)
	return mux
}

func newServer(addr string, gatherer prometheus.Gatherer) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: newServeMux(gatherer),
	}
}

// Launch starts the admin server at ipv6 loopback address ::1 and the given
// port. It stops listening when ctx is cancelled.
func Launch(ctx context.Context, port string, logger *slog.Logger, gatherer prometheus.Gatherer) {
	addr := fmt.Sprintf("[::1]%s", port)
	server := newServer(addr, gatherer)

	go func() {
		// The e2e harness takes the first logged addr attribute as the public
		// listener, so the admin listener logs under a different key.
		logger.LogAttrs(ctx, slog.LevelInfo, "starting admin server", slog.String("admin_addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "admin server failed", errors.SlogError(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.LogAttrs(shutdownCtx, slog.LevelWarn, "admin server shutdown failed", errors.SlogError(err))
		}
	}()
}
