// Package kv persists the small JSON snapshots a client keeps between
// visits. An absent key is not an error: it means there is no prior state.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"webdesk/pkg/metrics"
)

var (
	ErrInvalidKey   = errors.New("invalid key")
	ErrInvalidValue = errors.New("value is not valid JSON")
)

// MaxKeyLength bounds key length.
const MaxKeyLength = 128

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Store is a key-value store for JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ValidateKey checks a key against the allowed alphabet and length.
func ValidateKey(key string) error {
	if len(key) > MaxKeyLength || !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func validate(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if !json.Valid(value) {
		return ErrInvalidValue
	}
	return nil
}

// MemStore keeps values in memory.
type MemStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: map[string][]byte{}}
}

func (m *MemStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	metrics.RecordKVOperation("get", true)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemStore) Put(_ context.Context, key string, value []byte) error {
	if err := validate(key, value); err != nil {
		metrics.RecordKVOperation("put", false)
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	metrics.RecordKVOperation("put", true)
	return nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	metrics.RecordKVOperation("delete", true)
	return nil
}

func (m *MemStore) Close() error { return nil }

// Open returns the store named by driver: "memory", "sqlite" or "postgres".
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemStore(), nil
	case "sqlite", "postgres":
		return OpenSQL(driver, dsn)
	default:
		return nil, fmt.Errorf("unknown kv driver %q", driver)
	}
}
