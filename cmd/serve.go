package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/valuescore/internal/adapters/http/api"
	"github.com/okian/valuescore/internal/app"
	"github.com/okian/valuescore/internal/config"
	"github.com/okian/valuescore/internal/domain/dedupe"
	"github.com/okian/valuescore/pkg/logger"
	"github.com/okian/valuescore/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 15 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
	idempotencyKeys       = 4096
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the questionnaire page and JSON API",
	RunE:  runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	session, closeStore, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	server := api.NewServer(session,
		api.WithUnitLabel(cfg.UnitLabel),
		api.WithAllowedOrigins(cfg.AllowedOrigins),
		api.WithLogger(log.Named("http")),
		api.WithSubmitDeduper(dedupe.New[app.Receipt](dedupe.WithMaxSize(idempotencyKeys))),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Routes(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("storage_driver", cfg.StorageDriver),
			logger.String("session_id", session.ID()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "server shutdown failed", logger.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})

	g.Go(func() error {
		err := config.Watch(gctx, configFile, func(next *config.Config, err error) {
			if err != nil {
				log.Warn(gctx, "config reload failed", logger.Error(err))
				return
			}
			if err := logger.SetLevelString(next.LogLevel); err != nil {
				log.Warn(gctx, "invalid log_level on reload", logger.String("log_level", next.LogLevel))
				return
			}
			log.Info(gctx, "config reloaded", logger.String("log_level", next.LogLevel))
		})
		if errors.Is(err, config.ErrNoConfigFile) {
			return nil
		}
		if err != nil {
			log.Warn(gctx, "config watch stopped", logger.Error(err))
		}
		return nil
	})

	err = g.Wait()
	log.Info(ctx, "server stopped")
	return err
}

// startSystemMetricsUpdater refreshes the system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
