// Package config defines service configuration and its layered loading.
package config

import (
	"github.com/okian/valuescore/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorageDriver selects the history store: file, sqlite, postgres, memory or none.
	StorageDriver string `koanf:"storage_driver"`

	// StoragePath is the directory for the file driver or the DSN for SQL
	// drivers. Empty selects the driver default (./data for file).
	StoragePath string `koanf:"storage_path"`

	// Categories lists the questionnaire labels in display order. Its length
	// is the total score divisor.
	Categories []string `koanf:"categories"`

	// UnitLabel suffixes per-category deltas in history views.
	UnitLabel string `koanf:"unit_label"`

	// AllowedOrigins lists CORS origins for the HTTP API.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	defaults := model.DefaultCategories()
	categories := make([]string, len(defaults))
	for i, c := range defaults {
		categories[i] = string(c)
	}
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		StorageDriver:  "file",
		StoragePath:    "",
		Categories:     categories,
		UnitLabel:      "分",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// CategoryLabels converts the configured labels to domain categories.
func (c *Config) CategoryLabels() []model.Category {
	out := make([]model.Category, len(c.Categories))
	for i, l := range c.Categories {
		out[i] = model.Category(l)
	}
	return out
}
