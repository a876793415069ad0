package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/valuescore/internal/domain/model"
	"github.com/okian/valuescore/pkg/logger"
	"github.com/okian/valuescore/pkg/metrics"
)

// Load results recorded in metrics.
const (
	loadOK          = "ok"
	loadAbsent      = "absent"
	loadMalformed   = "malformed"
	loadUnavailable = "unavailable"
	loadError       = "error"
)

// HistoryRepository encodes the history log as one JSON array stored in a
// single KV slot. A nil KV models an environment without storage: every
// operation reports ErrUnavailable and callers keep working in memory.
type HistoryRepository struct {
	kv     KV
	key    string
	logger logger.Logger
}

// NewHistoryRepository builds a repository over kv, which may be nil.
func NewHistoryRepository(kv KV, opts ...Option) *HistoryRepository {
	r := &HistoryRepository{
		kv:     kv,
		key:    HistoryKey,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether a storage facility is configured.
func (r *HistoryRepository) Available() bool { return r.kv != nil }

// Load implements HistoryStore.
func (r *HistoryRepository) Load(ctx context.Context) ([]model.HistoryEntry, error) {
	if r.kv == nil {
		metrics.RecordHistoryLoad(loadUnavailable)
		return nil, ErrUnavailable
	}
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		metrics.RecordHistoryLoad(loadError)
		metrics.RecordStorageError("load")
		return nil, fmt.Errorf("load %s: %w", r.key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		metrics.RecordHistoryLoad(loadAbsent)
		return []model.HistoryEntry{}, nil
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		r.logger.Warn(ctx, "discarding malformed history", logger.String("key", r.key), logger.Error(err))
		metrics.RecordHistoryLoad(loadMalformed)
		return []model.HistoryEntry{}, nil
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	metrics.RecordHistoryLoad(loadOK)
	return entries, nil
}

// Save implements HistoryStore. The slot is overwritten wholesale.
func (r *HistoryRepository) Save(ctx context.Context, entries []model.HistoryEntry) error {
	if r.kv == nil {
		return ErrUnavailable
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(b)); err != nil {
		metrics.RecordStorageError("save")
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}
