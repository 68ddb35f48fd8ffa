package history

import (
	"context"

	"github.com/dmitrijs2005/babelx/internal/client/models"
)

type Repository interface {
	Load(ctx context.Context, user string) []models.Record
	Fetch(ctx context.Context, user string) ([]models.Record, error)
	Append(ctx context.Context, user string, rec models.Record) error
	UpdateFavoriteFlag(ctx context.Context, user, id string, value bool) error
	Delete(ctx context.Context, user, id string) error
	Tombstones(ctx context.Context, user string) []string

	// Read and ReadTombstones return the stored collections as they are,
	// for backups. Read normalizes languages but does not filter.
	Read(ctx context.Context, user string) ([]models.Record, error)
	ReadTombstones(ctx context.Context, user string) ([]string, error)
}
