package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	SignUp(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Translate(ctx context.Context, text string) error
	Transcribe(ctx context.Context, path string) error
	History(ctx context.Context) error
	Favorites(ctx context.Context) error
	Favorite(ctx context.Context, id string) error
	Unfavorite(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) error

	Languages(ctx context.Context) error
	SetLanguage(ctx context.Context, which, code string) error
	Swap(ctx context.Context) error

	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ChangePassword(ctx context.Context) error

	Backup(ctx context.Context) error
	Restore(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: signup, login, exit"
	helpLoggedIn  = "Available commands: (t)ranslate [text], transcribe <file>, (h)istory, (f)avorites, " +
		"fav <id>, unfav <id>, delete <id>, stats, languages, lang <code>, from <code>, swap, " +
		"profile, editprofile, passwd, backup, restore, logout, exit"
)

var errNeedID = errors.New("an id is required")

// runREPL starts the read–eval–print loop of the BabelX CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to a. Unknown commands are reported back to the user, errors
// returned by handlers are printed. The loop exits on EOF, on "exit" or
// "quit", or when ctx is cancelled.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("babelx %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "signup", "register":
		return a.SignUp(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		printlnFn("Unknown command:", cmd, "(log in first, or type 'help')")
		return nil
	}

	switch cmd {
	case "t", "translate":
		return a.Translate(ctx, strings.Join(args, " "))
	case "transcribe":
		return a.Transcribe(ctx, strings.Join(args, " "))
	case "h", "history":
		return a.History(ctx)
	case "f", "favorites":
		return a.Favorites(ctx)
	case "fav":
		if len(args) == 0 {
			return errNeedID
		}
		return a.Favorite(ctx, args[0])
	case "unfav":
		if len(args) == 0 {
			return errNeedID
		}
		return a.Unfavorite(ctx, args[0])
	case "delete", "rm":
		if len(args) == 0 {
			return errNeedID
		}
		return a.Delete(ctx, args[0])
	case "stats":
		return a.Stats(ctx)
	case "languages":
		return a.Languages(ctx)
	case "lang", "from":
		if len(args) == 0 {
			return a.Languages(ctx)
		}
		which := "target"
		if cmd == "from" {
			which = "source"
		}
		return a.SetLanguage(ctx, which, args[0])
	case "swap":
		return a.Swap(ctx)
	case "profile":
		return a.Profile(ctx)
	case "editprofile":
		return a.EditProfile(ctx)
	case "passwd":
		return a.ChangePassword(ctx)
	case "backup":
		return a.Backup(ctx)
	case "restore":
		return a.Restore(ctx)
	case "logout":
		return a.Logout(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}
