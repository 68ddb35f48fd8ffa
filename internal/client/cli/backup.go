package cli

import (
	"context"
	"fmt"
)

func (a *App) Backup(ctx context.Context) error {
	key, err := a.backup.Export(ctx, a.user(), a.session.Key)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Backup saved to s3://%s/%s\n", a.config.S3Bucket, key)
	return nil
}

func (a *App) Restore(ctx context.Context) error {
	if !confirm(a.reader, "Replace local history and favorites with the backup?", a.out) {
		return nil
	}
	snap, err := a.backup.Import(ctx, a.user(), a.session.Key)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Restored %d translations and %d favorites.\n", len(snap.History), len(snap.Favorites))
	return nil
}
