package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Eyevinn/moqabr/internal/abr"
	"github.com/Eyevinn/moqabr/internal/metrics"
)

// recorderSet holds the recorders of one command run.
type recorderSet struct {
	recorder abr.MetricsRecorder
	sqlite   *metrics.SQLiteRecorder
	registry *prometheus.Registry
}

func (r *recorderSet) Close() error {
	if r.sqlite != nil {
		return r.sqlite.Close()
	}
	return nil
}

// buildRecorders combines the in-memory store with the optional SQLite and
// Prometheus recorders.
func buildRecorders(ctx context.Context, store *metrics.Store, sqlitePath string, prom bool, logger *slog.Logger) (*recorderSet, error) {
	set := &recorderSet{}
	recorders := []abr.MetricsRecorder{store}
	if sqlitePath != "" {
		rec, err := metrics.OpenSQLiteRecorder(ctx, sqlitePath, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("recording to sqlite", "path", sqlitePath, "session", rec.SessionID())
		set.sqlite = rec
		recorders = append(recorders, rec)
	}
	if prom {
		set.registry = prometheus.NewRegistry()
		recorders = append(recorders, metrics.NewPromRecorder(set.registry))
	}
	if len(recorders) == 1 {
		set.recorder = store
	} else {
		set.recorder = metrics.NewMultiRecorder(recorders...)
	}
	return set, nil
}

// serveMetrics exposes reg on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Warn("failed to write health response", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown error", "error", err)
		}
	}()

	logger.Info("metrics server started", "addr", addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
