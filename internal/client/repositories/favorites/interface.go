package favorites

import (
	"context"

	"github.com/dmitrijs2005/babelx/internal/client/models"
)

type Repository interface {
	Load(ctx context.Context, user string) []models.Record
	Add(ctx context.Context, user string, rec models.Record) error
	Remove(ctx context.Context, user, id string) error

	Read(ctx context.Context, user string) ([]models.Record, error)
}
