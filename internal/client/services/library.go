package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/history"
	"github.com/dmitrijs2005/babelx/internal/logging"
)

type EventKind int

const (
	EventAppended EventKind = iota + 1
	EventFavoriteChanged
	EventDeleted
	EventReloaded
)

func (k EventKind) String() string {
	switch k {
	case EventAppended:
		return "appended"
	case EventFavoriteChanged:
		return "favorite"
	case EventDeleted:
		return "deleted"
	case EventReloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// Event describes a change to one user's library. Favorite is meaningful
// for EventFavoriteChanged only.
type Event struct {
	Kind     EventKind
	User     string
	ID       string
	Favorite bool
}

// RecordInput is a finished translation waiting to be stored.
type RecordInput struct {
	Source     string
	Target     string
	Input      string
	Translated string
}

// Stats summarises a user's activity.
type Stats struct {
	Translations int
	Favorites    int
	Deleted      int
	// TopTarget is the most used target language code, "" when history is empty.
	TopTarget string
}

// LibraryService is the single owner of a user's history, favorites and
// tombstones. Screens read through it and subscribe to changes instead of
// loading and saving the collections themselves.
type LibraryService interface {
	History(ctx context.Context, user string) []models.Record
	Favorites(ctx context.Context, user string) []models.Record
	Record(ctx context.Context, user string, in RecordInput) (models.Record, error)
	Append(ctx context.Context, user string, rec models.Record) error
	ToggleFavorite(ctx context.Context, user string, rec models.Record) (models.Record, error)
	SetFavorite(ctx context.Context, user, id string, value bool) error
	Delete(ctx context.Context, user, id string) error
	Reload(ctx context.Context, user string, fn func(ctx context.Context) error) error
	Stats(ctx context.Context, user string) Stats
	Subscribe(fn func(Event)) (unsubscribe func())
}

type userState struct {
	mu        sync.Mutex
	loaded    bool
	history   []models.Record
	favorites []models.Record
}

// Library caches each user's collections in memory. Every mutation runs the
// matching store operation and then refreshes the cache from storage, so the
// tombstone and duplicate rules live in the stores only. Mutations for one
// user are serialized.
type Library struct {
	history   history.Repository
	favorites favorites.Repository
	log       logging.Logger

	mu    sync.Mutex
	users map[string]*userState

	subMu   sync.RWMutex
	subs    map[int]func(Event)
	nextSub int
}

var _ LibraryService = (*Library)(nil)

func NewLibrary(h history.Repository, f favorites.Repository, log logging.Logger) *Library {
	return &Library{
		history:   h,
		favorites: f,
		log:       log.With("component", "library"),
		users:     make(map[string]*userState),
		subs:      make(map[int]func(Event)),
	}
}

func (l *Library) state(user string) *userState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.users[user]
	if !ok {
		st = &userState{}
		l.users[user] = st
	}
	return st
}

// load fills st from storage. A failed read leaves st unloaded so the next
// call retries instead of working from an empty collection.
func (l *Library) load(ctx context.Context, user string, st *userState) error {
	if st.loaded {
		return nil
	}
	h, err := l.history.Fetch(ctx, user)
	if err != nil {
		return err
	}
	f, err := l.favorites.Read(ctx, user)
	if err != nil {
		return err
	}
	st.history = h
	st.favorites = f
	st.loaded = true
	return nil
}

func (l *Library) read(ctx context.Context, user string, fn func(st *userState)) bool {
	st := l.state(user)
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := l.load(ctx, user, st); err != nil {
		l.log.Warn(ctx, "library read failed", "user", user, "err", err)
		return false
	}
	fn(st)
	return true
}

// mutate runs op with the user's state locked and loaded, then reloads the
// cache from storage whatever op returned, since op may have written part of
// its changes. ev is published when the cached collections changed.
// Subscribers are notified after the lock is released, so they may call back
// into Library.
func (l *Library) mutate(ctx context.Context, user string, ev Event, op func(st *userState) error) error {
	st := l.state(user)
	st.mu.Lock()
	if err := l.load(ctx, user, st); err != nil {
		st.mu.Unlock()
		return fmt.Errorf("load library of %s: %w", user, err)
	}

	h, f := st.history, st.favorites
	err := op(st)

	var publish *Event
	st.loaded = false
	if rerr := l.load(ctx, user, st); rerr != nil {
		l.log.Warn(ctx, "library refresh failed", "user", user, "err", rerr)
		publish = &Event{Kind: EventReloaded, User: user}
	} else if !slices.Equal(h, st.history) || !slices.Equal(f, st.favorites) {
		publish = &ev
	}
	st.mu.Unlock()

	if publish != nil {
		l.notify(*publish)
	}
	return err
}

// History returns the user's history, newest first, without deleted records.
// A storage failure yields an empty slice.
func (l *Library) History(ctx context.Context, user string) []models.Record {
	out := []models.Record{}
	l.read(ctx, user, func(st *userState) { out = slices.Clone(st.history) })
	if out == nil {
		out = []models.Record{}
	}
	return out
}

func (l *Library) Favorites(ctx context.Context, user string) []models.Record {
	out := []models.Record{}
	l.read(ctx, user, func(st *userState) { out = slices.Clone(st.favorites) })
	if out == nil {
		out = []models.Record{}
	}
	return out
}

// Record creates a record with a fresh id and appends it.
func (l *Library) Record(ctx context.Context, user string, in RecordInput) (models.Record, error) {
	rec := models.Record{
		ID:             models.NewRecordID(),
		SourceLanguage: models.NormalizeLanguage(in.Source),
		TargetLanguage: models.NormalizeLanguage(in.Target),
		InputText:      in.Input,
		TranslatedText: in.Translated,
	}
	if err := l.Append(ctx, user, rec); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

// Append puts rec at the front of the history. Records whose id was deleted
// are ignored.
func (l *Library) Append(ctx context.Context, user string, rec models.Record) error {
	ev := Event{Kind: EventAppended, User: user, ID: rec.ID}
	return l.mutate(ctx, user, ev, func(*userState) error {
		return l.history.Append(ctx, user, rec)
	})
}

// ToggleFavorite flips rec.IsFavorite, mirrors the new value into the history
// flag and then into favorites membership. The two writes are independent:
// when the second fails the first stays applied and the error is returned.
func (l *Library) ToggleFavorite(ctx context.Context, user string, rec models.Record) (models.Record, error) {
	rec = rec.Normalized()
	rec.IsFavorite = !rec.IsFavorite
	ev := Event{Kind: EventFavoriteChanged, User: user, ID: rec.ID, Favorite: rec.IsFavorite}
	err := l.mutate(ctx, user, ev, func(*userState) error {
		return l.applyFavorite(ctx, user, rec)
	})
	return rec, err
}

// SetFavorite sets the favorite state of id, looking the record up in history
// first and favorites second. An unknown id is a no-op.
func (l *Library) SetFavorite(ctx context.Context, user, id string, value bool) error {
	ev := Event{Kind: EventFavoriteChanged, User: user, ID: id, Favorite: value}
	return l.mutate(ctx, user, ev, func(st *userState) error {
		var rec models.Record
		if i := models.IndexOf(st.history, id); i >= 0 {
			rec = st.history[i]
		} else if i := models.IndexOf(st.favorites, id); i >= 0 {
			rec = st.favorites[i]
		} else {
			return nil
		}
		rec.IsFavorite = value
		return l.applyFavorite(ctx, user, rec)
	})
}

func (l *Library) applyFavorite(ctx context.Context, user string, rec models.Record) error {
	if err := l.history.UpdateFavoriteFlag(ctx, user, rec.ID, rec.IsFavorite); err != nil {
		return err
	}
	l.log.Debug(ctx, "history flag updated", "user", user, "id", rec.ID, "favorite", rec.IsFavorite)

	var err error
	if rec.IsFavorite {
		err = l.favorites.Add(ctx, user, rec)
	} else {
		err = l.favorites.Remove(ctx, user, rec.ID)
	}
	if err != nil {
		return err
	}
	l.log.Debug(ctx, "favorites updated", "user", user, "id", rec.ID, "favorite", rec.IsFavorite)
	return nil
}

// Delete removes id from history and tombstones it. Favorites keep their
// copy. Deleting twice is the same as deleting once.
func (l *Library) Delete(ctx context.Context, user, id string) error {
	ev := Event{Kind: EventDeleted, User: user, ID: id}
	return l.mutate(ctx, user, ev, func(*userState) error {
		return l.history.Delete(ctx, user, id)
	})
}

// Reload runs fn with the user's library locked and then drops the cache,
// so the next read sees whatever fn wrote. It is meant for writes that go
// around the stores, such as restoring a backup. fn may be nil.
func (l *Library) Reload(ctx context.Context, user string, fn func(ctx context.Context) error) error {
	st := l.state(user)
	st.mu.Lock()
	var err error
	if fn != nil {
		err = fn(ctx)
	}
	st.loaded = false
	st.history, st.favorites = nil, nil
	st.mu.Unlock()

	l.notify(Event{Kind: EventReloaded, User: user})
	return err
}

// Stats reports what is stored for user. Unreadable collections count as
// empty.
func (l *Library) Stats(ctx context.Context, user string) Stats {
	st := l.state(user)
	st.mu.Lock()
	defer st.mu.Unlock()

	h := l.history.Load(ctx, user)
	return Stats{
		Translations: len(h),
		Favorites:    len(l.favorites.Load(ctx, user)),
		Deleted:      len(l.history.Tombstones(ctx, user)),
		TopTarget:    topTarget(h),
	}
}

// topTarget picks the most frequent target language. Ties go to the language
// used most recently.
func topTarget(records []models.Record) string {
	counts := make(map[string]int)
	best, bestN := "", 0
	for _, r := range records {
		counts[r.TargetLanguage]++
	}
	for _, r := range records {
		if n := counts[r.TargetLanguage]; n > bestN {
			best, bestN = r.TargetLanguage, n
		}
	}
	return best
}

// Subscribe registers fn for every future event. Calling the returned
// function removes it; it is safe to call more than once.
func (l *Library) Subscribe(fn func(Event)) func() {
	l.subMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.subs, id)
			l.subMu.Unlock()
		})
	}
}

func (l *Library) notify(ev Event) {
	l.subMu.RLock()
	fns := make([]func(Event), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.subMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
