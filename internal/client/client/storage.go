package client

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/dmitrijs2005/babelx/internal/client/migrations"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/babelx/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Storage is an opened key-value backend together with its cleanup.
type Storage struct {
	KV    kvstore.Store
	close func() error
}

func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(log.New(io.Discard, "", 0))

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenStorage opens the backend named by driver at path, creating parent
// directories and applying migrations as needed.
func OpenStorage(ctx context.Context, driver, path string) (*Storage, error) {
	switch driver {
	case DriverMemory:
		return &Storage{KV: kvstore.NewMemory()}, nil

	case DriverBolt:
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
		b, err := kvstore.OpenBolt(path)
		if err != nil {
			return nil, err
		}
		return &Storage{KV: b, close: b.Close}, nil

	case DriverSQLite, "":
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)

		if err := RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate %s: %w", path, err)
		}
		return &Storage{KV: kvstore.NewSQLiteStore(db), close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
