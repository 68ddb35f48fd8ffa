package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/babelx/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/history"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/babelx/internal/logging"
)

// flakyKV wraps the in-memory store and fails Get or Set for chosen keys.
type flakyKV struct {
	*kvstore.Memory

	mu     sync.Mutex
	getErr map[string]error
	setErr map[string]error
	gets   map[string]int
}

func newFlakyKV() *flakyKV {
	return &flakyKV{
		Memory: kvstore.NewMemory(),
		getErr: map[string]error{},
		setErr: map[string]error{},
		gets:   map[string]int{},
	}
}

func (f *flakyKV) failGet(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.getErr, key)
		return
	}
	f.getErr[key] = err
}

func (f *flakyKV) failSet(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.setErr, key)
		return
	}
	f.setErr[key] = err
}

func (f *flakyKV) getCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[key]
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	f.gets[key]++
	err := f.getErr[key]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	err := f.setErr[key]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Memory.Set(ctx, key, value)
}

func newTestLibrary(t *testing.T, kv kvstore.Store) *Library {
	t.Helper()
	log := logging.Nop()
	return NewLibrary(history.New(kv, log), favorites.New(kv, log), log)
}
