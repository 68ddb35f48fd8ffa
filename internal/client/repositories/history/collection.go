package history

import (
	"slices"

	"github.com/dmitrijs2005/babelx/internal/client/models"
)

// Filter returns records whose id is not in tombstones, preserving order.
func Filter(records []models.Record, tombstones []string) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !slices.Contains(tombstones, r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// Prepend puts rec in front of records. It reports false and returns records
// unchanged when rec.ID is tombstoned.
func Prepend(records []models.Record, tombstones []string, rec models.Record) ([]models.Record, bool) {
	if slices.Contains(tombstones, rec.ID) {
		return records, false
	}
	out := make([]models.Record, 0, len(records)+1)
	out = append(out, rec)
	return append(out, records...), true
}

// SetFavorite returns a copy of records with the flag of id replaced. It
// reports false when no record has that id.
func SetFavorite(records []models.Record, id string, value bool) ([]models.Record, bool) {
	i := models.IndexOf(records, id)
	if i < 0 {
		return records, false
	}
	out := slices.Clone(records)
	out[i].IsFavorite = value
	return out, true
}

// Remove returns records without id.
func Remove(records []models.Record, id string) ([]models.Record, bool) {
	i := models.IndexOf(records, id)
	if i < 0 {
		return records, false
	}
	out := make([]models.Record, 0, len(records)-1)
	out = append(out, records[:i]...)
	return append(out, records[i+1:]...), true
}

// Tombstone adds id to the set. It reports false when id was already there.
func Tombstone(ids []string, id string) ([]string, bool) {
	if slices.Contains(ids, id) {
		return ids, false
	}
	return append(slices.Clone(ids), id), true
}
