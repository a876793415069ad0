package repository

import (
	"context"
	"fmt"
)

// Storage drivers accepted by Open besides the SQL ones.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// Open returns the KV facility for driver. DriverNone yields a nil KV, which
// NewHistoryRepository treats as unavailable storage. For file the location
// is a directory; for SQL drivers it is a DSN. Callers should Close the
// result when it implements interface{ Close() error }.
func Open(ctx context.Context, driver, location string) (KV, error) {
	switch driver {
	case DriverNone:
		return nil, nil
	case DriverMemory:
		return NewMemoryKV(), nil
	case "", DriverFile:
		kv, err := NewFileKV(location)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case DriverSQLite, DriverPostgres:
		kv, err := OpenSQL(ctx, driver, location)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}
