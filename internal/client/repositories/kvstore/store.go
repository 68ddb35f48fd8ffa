package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is an asynchronous-by-contract key-value substrate: string keys,
// opaque (usually JSON) values, no multi-key atomicity guarantees.
type Store interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every pair whose key starts with prefix ("" for all).
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	// Clear removes every key.
	Clear(ctx context.Context) error
}

// BatchSetter is implemented by stores that can write several keys at once
// atomically.
type BatchSetter interface {
	SetMany(ctx context.Context, values map[string][]byte) error
}

// SetAll writes values through BatchSetter when s supports it and key by key
// otherwise.
func SetAll(ctx context.Context, s Store, values map[string][]byte) error {
	if b, ok := s.(BatchSetter); ok {
		return b.SetMany(ctx, values)
	}
	for k, v := range values {
		if err := s.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

// GetJSON decodes the value of key into v and reports whether it was present.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	b, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("failed to decode kv[%s]: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode kv[%s]: %w", key, err)
	}
	return s.Set(ctx, key, b)
}
