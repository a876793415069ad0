// Package repository persists the questionnaire history log in a single
// key-value storage slot.
package repository

import (
	"context"

	"github.com/okian/valuescore/internal/domain/model"
)

// HistoryKey is the storage slot holding the JSON-encoded history log.
const HistoryKey = "history"

// KV is a synchronous string key-value facility. Writes replace the whole
// value of a key; there is no versioning and the last writer wins.
type KV interface {
	// Get returns the value stored at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value stored at key.
	Set(ctx context.Context, key, value string) error
}

// HistoryStore loads and saves the full history log.
type HistoryStore interface {
	// Load returns the persisted log. Absent or malformed data yields an
	// empty log. ErrUnavailable reports that no storage is configured.
	Load(ctx context.Context) ([]model.HistoryEntry, error)
	// Save overwrites the persisted log with entries.
	Save(ctx context.Context, entries []model.HistoryEntry) error
}
