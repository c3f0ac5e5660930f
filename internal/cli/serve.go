package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/sluice"
	httpAdapter "github.com/aretw0/sluice/internal/adapters/http"
	"github.com/aretw0/sluice/internal/logging"
	"github.com/aretw0/sluice/pkg/observability"
)

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	Addr         string
	ScenarioPath string
	TickInterval time.Duration
	Seed         int64
	HasSeed      bool
	Debug        bool
}

// Serve starts the HTTP control surface, exposing the simulation API and a
// Prometheus /metrics endpoint. It blocks until the process is interrupted,
// then shuts down gracefully.
func Serve(opts ServeOptions) error {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	registry := prometheus.NewRegistry()
	metrics := observability.New(registry)

	engineOpts := []sluice.Option{
		sluice.WithLogger(logger),
		sluice.WithLifecycleHooks(metrics.Hooks()),
		sluice.WithTickInterval(opts.TickInterval),
	}
	if opts.HasSeed {
		engineOpts = append(engineOpts, sluice.WithSeed(opts.Seed))
	}
	engine := sluice.New(engineOpts...)

	if opts.ScenarioPath != "" {
		doc, err := os.ReadFile(opts.ScenarioPath)
		if err != nil {
			return fmt.Errorf("reading scenario: %w", err)
		}
		if err := engine.LoadScenario(doc); err != nil {
			return fmt.Errorf("loading scenario: %w", err)
		}
		logger.Info("scenario loaded", "path", opts.ScenarioPath)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", httpAdapter.NewHandler(engine, logger))

	srv := &http.Server{
		Addr:    opts.Addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	sc := NewSignalContext(context.Background())
	defer sc.Release()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-sc.Done():
		logger.Info("shutting down", "signal", fmt.Sprint(sc.Signal()))
		engine.Pause()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
		logger.Info("server stopped")
	}
	return nil
}
