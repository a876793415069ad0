package repository

import "github.com/okian/valuescore/pkg/logger"

// Option applies a configuration option to the HistoryRepository.
type Option func(*HistoryRepository)

// WithKey stores the log under key instead of HistoryKey.
func WithKey(key string) Option {
	return func(r *HistoryRepository) {
		if key != "" {
			r.key = key
		}
	}
}

// WithLogger sets the logger used to report malformed data.
func WithLogger(l logger.Logger) Option {
	return func(r *HistoryRepository) {
		if l != nil {
			r.logger = l
		}
	}
}
