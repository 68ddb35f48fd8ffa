package favorites

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/babelx/internal/logging"
)

func Key(user string) string { return user + "_favorites" }

// Prepend adds rec at the front unless an entry with the same id exists.
func Prepend(records []models.Record, rec models.Record) ([]models.Record, bool) {
	if models.IndexOf(records, rec.ID) >= 0 {
		return records, false
	}
	out := make([]models.Record, 0, len(records)+1)
	out = append(out, rec)
	return append(out, records...), true
}

// Without drops every entry with id.
func Without(records []models.Record, id string) ([]models.Record, bool) {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	if len(out) == len(records) {
		return records, false
	}
	return out, true
}

var _ Repository = (*Store)(nil)

type Store struct {
	kv  kvstore.Store
	log logging.Logger
}

func New(kv kvstore.Store, log logging.Logger) *Store {
	return &Store{kv: kv, log: log.With("component", "favorites")}
}

func (s *Store) Read(ctx context.Context, user string) ([]models.Record, error) {
	var records []models.Record
	if _, err := kvstore.GetJSON(ctx, s.kv, Key(user), &records); err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	for i := range records {
		records[i] = records[i].Normalized()
	}
	return records, nil
}

func (s *Store) Write(ctx context.Context, user string, records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	if err := kvstore.SetJSON(ctx, s.kv, Key(user), records); err != nil {
		s.log.Error(ctx, "favorites write failed", "user", user, "err", err)
		return fmt.Errorf("write favorites: %w", err)
	}
	return nil
}

// Load never fails; a read error is logged and yields an empty slice.
func (s *Store) Load(ctx context.Context, user string) []models.Record {
	records, err := s.Read(ctx, user)
	if err != nil {
		s.log.Warn(ctx, "favorites read failed", "user", user, "err", err)
		return []models.Record{}
	}
	if records == nil {
		return []models.Record{}
	}
	return records
}

// Add stores rec as a favorite. A second Add with the same id is a no-op.
func (s *Store) Add(ctx context.Context, user string, rec models.Record) error {
	records, err := s.Read(ctx, user)
	if err != nil {
		return err
	}
	rec = rec.Normalized()
	rec.IsFavorite = true
	next, ok := Prepend(records, rec)
	if !ok {
		return nil
	}
	return s.Write(ctx, user, next)
}

// Remove drops id from favorites; an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, user, id string) error {
	records, err := s.Read(ctx, user)
	if err != nil {
		return err
	}
	next, ok := Without(records, id)
	if !ok {
		return nil
	}
	return s.Write(ctx, user, next)
}
