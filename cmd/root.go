package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/valuescore/internal/adapters/repository"
	"github.com/okian/valuescore/internal/app"
	"github.com/okian/valuescore/internal/config"
	"github.com/okian/valuescore/pkg/logger"
)

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var jsonLogs bool

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "valuescore",
	Short: "Rate life categories on importance and match and track the score over time",
	Long: `valuescore presents twelve life categories, each rated 1-10 on how important
it is and how well life currently matches it. Submitting stores a dated
snapshot with its total score, ceil(sum(importance*match) / categories),
in the history log.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (default $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
}

// bootstrap initializes logging to w and loads configuration.
func bootstrap(ctx context.Context, w io.Writer) (*config.Config, logger.Logger, error) {
	if err := logger.Init(logger.WithOutput(w), logger.WithJSON(jsonLogs)); err != nil {
		return nil, nil, fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}

// openSession opens the configured storage and builds a session over it.
// The returned close func releases the storage.
func openSession(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Session, func(), error) {
	kv, err := repository.Open(ctx, cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	closeFn := func() {
		if c, ok := kv.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Error(ctx, "storage close failed", logger.Error(err))
			}
		}
	}

	store := repository.NewHistoryRepository(kv, repository.WithLogger(log.Named("repository")))
	if !store.Available() {
		log.Warn(ctx, "no storage configured; history is kept in memory only", logger.String("storage_driver", cfg.StorageDriver))
	}

	session, err := app.New(
		app.WithCategories(cfg.CategoryLabels()),
		app.WithStore(store),
		app.WithLogger(log.Named("session")),
	)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return session, closeFn, nil
}
