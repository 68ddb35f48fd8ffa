// Package kvstore provides the on-device key-value persistence layer that the
// history, favorites, account and secure stores are built on.
//
// # Implementations
//
//   - SQLiteStore: table kv_store in the local SQLite file (default driver).
//   - BoltStore: a single "kv" bucket in a bbolt file.
//   - Memory: map-backed, for tests and throwaway sessions.
//
// All implementations follow the same contract: Get on a missing key returns
// (nil, nil), Delete is idempotent, and List filters by key prefix.
//
// Typical Usage
//
//	s := kvstore.NewSQLiteStore(db)
//	_ = s.Set(ctx, "alice_history", []byte("[]"))
//	v, _ := s.Get(ctx, "alice_history")
package kvstore
