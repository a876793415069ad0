package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/valuescore/internal/domain/model"
)

// Environment variables read by Load.
const (
	EnvPrefix     = "VALUESCORE_"
	EnvConfigPath = EnvPrefix + "CONFIG"
)

var validDrivers = map[string]bool{
	"file":     true,
	"sqlite":   true,
	"postgres": true,
	"memory":   true,
	"none":     true,
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file at path, or at $VALUESCORE_CONFIG when path is empty
//  3. env (prefix VALUESCORE_)
//
// List values from env are comma separated.
func Load(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// VALUESCORE_STORAGE_DRIVER -> storage_driver (flat keys).
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		switch key {
		case "config":
			return "", nil
		case "categories", "allowed_origins":
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	// Lists given by file or env replace the defaults instead of merging into them.
	for key, target := range map[string]*[]string{"categories": &cfg.Categories, "allowed_origins": &cfg.AllowedOrigins} {
		if k.Exists(key) {
			*target = nil
		}
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks fields that the rest of the service relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !validDrivers[c.StorageDriver] {
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	if _, err := model.NewCategorySet(c.CategoryLabels()); err != nil {
		return fmt.Errorf("%w: categories: %w", ErrInvalidConfig, err)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Watch reloads the YAML file at path (or $VALUESCORE_CONFIG) on every
// change and hands the result to onChange until ctx is done. Without a
// file there is nothing to watch and Watch returns ErrNoConfigFile.
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return ErrNoConfigFile
	}

	fp := file.Provider(path)
	if err := fp.Watch(func(_ any, err error) {
		if err != nil {
			onChange(nil, fmt.Errorf("%w: watch %s: %w", ErrLoadConfig, path, err))
			return
		}
		onChange(Load(ctx, path))
	}); err != nil {
		return fmt.Errorf("%w: watch %s: %w", ErrLoadConfig, path, err)
	}

	<-ctx.Done()
	return fp.Unwatch()
}
