package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"webdesk/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_snapshots (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at BIGINT NOT NULL
)`

// SQLStore keeps values in a kv_snapshots table.
type SQLStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// OpenSQL opens a store with database/sql. driver is "sqlite" (modernc) or
// "postgres" (lib/pq).
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	if driver != "sqlite" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported kv driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == "sqlite" {
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLStore{db: db, driver: driver, now: time.Now}, nil
}

// rebind rewrites "?" placeholders for drivers that number them.
func (s *SQLStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	var value string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT value FROM kv_snapshots WHERE key = ?`), key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		metrics.RecordKVOperation("get", true)
		return nil, false, nil
	case err != nil:
		metrics.RecordKVOperation("get", false)
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	metrics.RecordKVOperation("get", true)
	return []byte(value), true, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	if err := validate(key, value); err != nil {
		metrics.RecordKVOperation("put", false)
		return err
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO kv_snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at`),
		key, string(value), s.now().UnixMilli(),
	)
	metrics.RecordKVOperation("put", err == nil)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM kv_snapshots WHERE key = ?`), key)
	metrics.RecordKVOperation("delete", err == nil)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
