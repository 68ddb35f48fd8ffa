package history

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/babelx/internal/logging"
)

func Key(user string) string          { return user + "_history" }
func TombstoneKey(user string) string { return user + "_deletedHistory" }

var _ Repository = (*Store)(nil)

type Store struct {
	kv  kvstore.Store
	log logging.Logger
}

func New(kv kvstore.Store, log logging.Logger) *Store {
	return &Store{kv: kv, log: log.With("component", "history")}
}

func (s *Store) Read(ctx context.Context, user string) ([]models.Record, error) {
	var records []models.Record
	if _, err := kvstore.GetJSON(ctx, s.kv, Key(user), &records); err != nil {
		return nil, err
	}
	for i := range records {
		records[i] = records[i].Normalized()
	}
	return records, nil
}

func (s *Store) ReadTombstones(ctx context.Context, user string) ([]string, error) {
	var ids []string
	if _, err := kvstore.GetJSON(ctx, s.kv, TombstoneKey(user), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) Write(ctx context.Context, user string, records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	if err := kvstore.SetJSON(ctx, s.kv, Key(user), records); err != nil {
		s.log.Error(ctx, "history write failed", "user", user, "err", err)
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

func (s *Store) WriteTombstones(ctx context.Context, user string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	if err := kvstore.SetJSON(ctx, s.kv, TombstoneKey(user), ids); err != nil {
		s.log.Error(ctx, "tombstone write failed", "user", user, "err", err)
		return fmt.Errorf("write tombstones: %w", err)
	}
	return nil
}

// Fetch returns the user's history without tombstoned records and surfaces
// storage errors.
func (s *Store) Fetch(ctx context.Context, user string) ([]models.Record, error) {
	records, tombstones, err := s.readBoth(ctx, user)
	if err != nil {
		return nil, err
	}
	return Filter(records, tombstones), nil
}

// Load is Fetch for screens: a read error is logged and yields an empty
// history.
func (s *Store) Load(ctx context.Context, user string) []models.Record {
	records, err := s.Fetch(ctx, user)
	if err != nil {
		s.log.Warn(ctx, "history read failed", "user", user, "err", err)
		return []models.Record{}
	}
	return records
}

// Tombstones returns the ids deleted so far, or nil when they cannot be read.
func (s *Store) Tombstones(ctx context.Context, user string) []string {
	ids, err := s.ReadTombstones(ctx, user)
	if err != nil {
		s.log.Warn(ctx, "tombstone read failed", "user", user, "err", err)
		return nil
	}
	return ids
}

func (s *Store) readBoth(ctx context.Context, user string) ([]models.Record, []string, error) {
	records, err := s.Read(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("read history: %w", err)
	}
	tombstones, err := s.ReadTombstones(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("read tombstones: %w", err)
	}
	return records, tombstones, nil
}

// Append prepends rec unless its id is tombstoned.
func (s *Store) Append(ctx context.Context, user string, rec models.Record) error {
	records, tombstones, err := s.readBoth(ctx, user)
	if err != nil {
		return err
	}
	next, ok := Prepend(Filter(records, tombstones), tombstones, rec.Normalized())
	if !ok {
		s.log.Debug(ctx, "append of deleted record ignored", "user", user, "id", rec.ID)
		return nil
	}
	return s.Write(ctx, user, next)
}

// UpdateFavoriteFlag sets isFavorite on the record with id. A missing id is
// not an error.
func (s *Store) UpdateFavoriteFlag(ctx context.Context, user, id string, value bool) error {
	records, err := s.Read(ctx, user)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	next, ok := SetFavorite(records, id, value)
	if !ok {
		return nil
	}
	return s.Write(ctx, user, next)
}

// Delete records id as a tombstone and then removes it from history.
// Deleting an absent or already deleted id succeeds. The tombstone goes
// first: if it cannot be written history is left alone, and a tombstone
// whose record is still stored is filtered out on read.
func (s *Store) Delete(ctx context.Context, user, id string) error {
	records, tombstones, err := s.readBoth(ctx, user)
	if err != nil {
		return err
	}
	if next, ok := Tombstone(tombstones, id); ok {
		if err := s.WriteTombstones(ctx, user, next); err != nil {
			return err
		}
	}
	if next, ok := Remove(records, id); ok {
		return s.Write(ctx, user, next)
	}
	return nil
}
