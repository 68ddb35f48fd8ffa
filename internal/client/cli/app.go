package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/babelx/internal/client/client"
	"github.com/dmitrijs2005/babelx/internal/client/config"
	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/history"
	"github.com/dmitrijs2005/babelx/internal/client/services"
	"github.com/dmitrijs2005/babelx/internal/common"
	"github.com/dmitrijs2005/babelx/internal/logging"
)

type App struct {
	config     *config.Config
	auth       services.AuthService
	library    services.LibraryService
	translator services.TranslateService
	backup     services.BackupService
	log        logging.Logger

	session     *services.Session
	source      string
	target      string
	unsubscribe func()

	reader  *bufio.Reader
	out     io.Writer
	closeFn func() error
}

// NewApp opens local storage and wires the services described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	storage, err := client.OpenStorage(ctx, c.StorageDriver, c.StoragePath)
	if err != nil {
		log.Error(ctx, "error initializing storage", "driver", c.StorageDriver, "path", c.StoragePath, "err", err)
		return nil, err
	}

	h := history.New(storage.KV, log)
	f := favorites.New(storage.KV, log)
	lib := services.NewLibrary(h, f, log)
	remote := client.NewHTTPClient(c.TranslateURL, c.TranscribeURL, c.RequestTimeout)

	return &App{
		config:     c,
		auth:       services.NewAuthService(storage.KV),
		library:    lib,
		translator: services.NewTranslateService(remote, lib, log),
		backup:     services.NewBackupService(c, storage.KV, h, f, lib, log),
		log:        log,
		source:     models.NormalizeLanguage(c.SourceLanguage),
		target:     models.NormalizeLanguage(c.TargetLanguage),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		closeFn:    storage.Close,
	}, nil
}

// Run resumes the remembered user, if any, and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to BabelX (type 'help' for commands)")
	a.resume(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

// Close ends the session and releases storage.
func (a *App) Close() error {
	a.endSession()
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) user() string {
	if a.session == nil {
		return ""
	}
	return a.session.User
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s %s→%s)", a.user(), a.source, a.target)
}

// resume offers to continue the remembered user's session. The password is
// still required to unlock the master key.
func (a *App) resume(ctx context.Context) {
	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNoSession) {
			a.log.Warn(ctx, "session lookup failed", "err", err)
		}
		return
	}
	fmt.Fprintf(a.out, "Welcome back, %s\n", user)
	if err := a.loginAs(ctx, user); err != nil {
		fmt.Fprintln(a.out, "Login failed:", err)
	}
}

func (a *App) startSession(s *services.Session) {
	a.endSession()
	a.session = s
	a.unsubscribe = a.library.Subscribe(a.onEvent)
}

func (a *App) endSession() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
}

func (a *App) onEvent(e services.Event) {
	if e.User != a.user() {
		return
	}
	switch e.Kind {
	case services.EventFavoriteChanged:
		if e.Favorite {
			fmt.Fprintf(a.out, "~ %s added to favorites\n", e.ID)
		} else {
			fmt.Fprintf(a.out, "~ %s removed from favorites\n", e.ID)
		}
	case services.EventReloaded:
		fmt.Fprintln(a.out, "~ library reloaded")
	default:
		fmt.Fprintf(a.out, "~ %s %s\n", e.ID, e.Kind)
	}
}
