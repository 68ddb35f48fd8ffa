// Package securestore keeps encrypted values on top of a kvstore.Store.
// Every value is sealed with AES-GCM under the session's master key and kept
// under the "secure/" key prefix.
package securestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/babelx/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/babelx/internal/common"
	"github.com/dmitrijs2005/babelx/internal/cryptox"
)

const Prefix = "secure/"

type Store struct {
	kv  kvstore.Store
	key []byte
}

// New binds kv to a 32-byte AES key. The key slice is used as is; callers
// that wipe it afterwards must not use the Store anymore.
func New(kv kvstore.Store, key []byte) *Store {
	return &Store{kv: kv, key: key}
}

// Get returns the decrypted value of name, or (nil, nil) when absent.
// A value that does not open under the store key yields
// common.ErrorUnauthorized.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	sealed, err := s.kv.Get(ctx, Prefix+name)
	if err != nil {
		return nil, err
	}
	if sealed == nil {
		return nil, nil
	}
	plain, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("open secure[%s]: %w", name, common.ErrorUnauthorized)
	}
	return plain, nil
}

func (s *Store) Set(ctx context.Context, name string, value []byte) error {
	sealed, err := cryptox.Seal(value, s.key)
	if err != nil {
		return fmt.Errorf("seal secure[%s]: %w", name, err)
	}
	return s.kv.Set(ctx, Prefix+name, sealed)
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return s.kv.Delete(ctx, Prefix+name)
}

// GetJSON decodes the value of name into v. It reports false when the
// value is absent.
func (s *Store) GetJSON(ctx context.Context, name string, v any) (bool, error) {
	b, err := s.Get(ctx, name)
	if err != nil || b == nil {
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode secure[%s]: %w", name, err)
	}
	return true, nil
}

func (s *Store) SetJSON(ctx context.Context, name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode secure[%s]: %w", name, err)
	}
	return s.Set(ctx, name, b)
}

// Reseal opens every value under scope and seals it again with newKey. It
// returns the new ciphertexts keyed by their full storage key without writing
// them, so callers can batch them with other changes.
func (s *Store) Reseal(ctx context.Context, scope string, newKey []byte) (map[string][]byte, error) {
	m, err := s.kv.List(ctx, Prefix+scope)
	if err != nil {
		return nil, err
	}

	resealed := make(map[string][]byte, len(m))
	for k, sealed := range m {
		plain, err := cryptox.Open(sealed, s.key)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", k, common.ErrorUnauthorized)
		}
		out, err := cryptox.Seal(plain, newKey)
		common.WipeByteArray(plain)
		if err != nil {
			return nil, fmt.Errorf("seal %s: %w", k, err)
		}
		resealed[k] = out
	}
	return resealed, nil
}
