package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/common"
)

func (a *App) printRecords(records []models.Record, empty string) {
	if len(records) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	for _, r := range records {
		fmt.Fprintln(a.out, r)
	}
}

func (a *App) History(ctx context.Context) error {
	a.printRecords(a.library.History(ctx, a.user()), "No translation history yet.")
	return nil
}

func (a *App) Favorites(ctx context.Context) error {
	a.printRecords(a.library.Favorites(ctx, a.user()), "No favorites yet.")
	return nil
}

// Favorite toggles the star of a history record.
func (a *App) Favorite(ctx context.Context, id string) error {
	h := a.library.History(ctx, a.user())
	i := models.IndexOf(h, id)
	if i < 0 {
		return fmt.Errorf("history record %s: %w", id, common.ErrorNotFound)
	}
	_, err := a.library.ToggleFavorite(ctx, a.user(), h[i])
	return err
}

// Unfavorite removes id from favorites and clears its history star.
func (a *App) Unfavorite(ctx context.Context, id string) error {
	return a.library.SetFavorite(ctx, a.user(), id, false)
}

func (a *App) Delete(ctx context.Context, id string) error {
	if !confirm(a.reader, "Are you sure you want to delete this item?", a.out) {
		return nil
	}
	return a.library.Delete(ctx, a.user(), id)
}

func (a *App) Stats(ctx context.Context) error {
	s := a.library.Stats(ctx, a.user())
	top := "-"
	if s.TopTarget != "" {
		top = models.LanguageName(s.TopTarget)
	}
	fmt.Fprintf(a.out, "Translations: %d\nFavorites:    %d\nDeleted:      %d\nTop language: %s\n",
		s.Translations, s.Favorites, s.Deleted, top)
	return nil
}
