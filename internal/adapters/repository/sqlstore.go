package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

// SQL drivers accepted by OpenSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultSQLiteDSN   = "file:valuescore.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	defaultPostgresDSN = "postgres://localhost:5432/valuescore?sslmode=disable"
)

// Both SQLite and Postgres accept this DDL and the $n placeholders below.
const schemaKV = `
CREATE TABLE IF NOT EXISTS kv_slots (
  slot_key   TEXT PRIMARY KEY,
  slot_value TEXT NOT NULL,
  updated_at BIGINT NOT NULL
);`

// SQLKV stores slots as rows of a single table.
type SQLKV struct {
	db     *sql.DB
	driver string
}

// OpenSQL opens a database, checks connectivity and ensures the schema.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLKV, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	kv, err := NewSQLKV(ctx, db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return kv, nil
}

// NewSQLKV wraps an already-open database and ensures the slot table exists.
// Close on the result closes db.
func NewSQLKV(ctx context.Context, db *sql.DB, driver string) (*SQLKV, error) {
	if _, err := db.ExecContext(ctx, schemaKV); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLKV{db: db, driver: driver}, nil
}

// Get implements KV.
func (s *SQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT slot_value FROM kv_slots WHERE slot_key=$1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return v, true, nil
}

// Set implements KV.
func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_slots (slot_key, slot_value, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (slot_key) DO UPDATE SET slot_value=EXCLUDED.slot_value, updated_at=EXCLUDED.updated_at`,
		key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLKV) Close() error {
	return s.db.Close()
}

// Driver returns the configured driver name.
func (s *SQLKV) Driver() string { return s.driver }
