// Package store provides the durable key-value mapping the scheduling
// core persists to.  A Store holds opaque JSON documents under string
// keys; Set is visible to the next Get in the same process and absent
// keys are reported, never turned into errors.  Backends: in-memory,
// SQLite file, MySQL table and Redis.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is a synchronous key → document mapping.
type Store interface {
	// Get returns the document under key.  ok is false when the key is
	// absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set writes one document.
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all entries atomically: either every key is updated
	// or none is.
	SetMany(ctx context.Context, entries map[string][]byte) error
	// Close releases the backend's resources.
	Close() error
}

// GetJSON decodes the document under key into dst.  When the key is
// absent dst is left untouched, so callers pre-fill it with their default.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and writes it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
