// Package session tracks what a listener is browsing: the playlist list,
// the open playlist, and the position inside it.
package session

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Balogunolalere/myoozik/internal/domain/playlist"
	"github.com/Balogunolalere/myoozik/internal/domain/song"
)

// Errors
var (
	ErrInvalidID = errors.New("invalid playlist id")
)

// noSelection is the cursor value when no song is selected.
const noSelection = -1

// Catalog supplies playlist data. Satisfied by the REST client and, on the
// server side, by any store that returns playlists with songs attached.
type Catalog interface {
	ListPlaylists(ctx context.Context) ([]playlist.Summary, error)
	GetPlaylist(ctx context.Context, id int64) (*playlist.Playlist, error)
}

// Store holds the browsing state for one listener.
type Store struct {
	mu sync.RWMutex

	catalog Catalog

	playlists []playlist.Summary
	current   *playlist.Playlist
	cursor    int
	loading   bool
	errMsg    string

	// generation increments on every load and on ClearSession; a fetch
	// that finishes after the state moved on is discarded.
	generation uint64
}

// NewStore creates a session store backed by the given catalog.
func NewStore(catalog Catalog) *Store {
	return &Store{
		catalog: catalog,
		cursor:  noSelection,
	}
}

// LoadPlaylistList fetches all playlists. On failure the previous list is
// kept and the error is retained for display.
func (s *Store) LoadPlaylistList(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	playlists, err := s.catalog.ListPlaylists(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		zlog.Debug().Msg("discarding stale playlist list response")
		return nil
	}
	s.loading = false

	if err != nil {
		s.errMsg = "failed to load playlists"
		return errors.Wrap(err, "load playlist list")
	}

	s.playlists = playlists
	return nil
}

// LoadPlaylistDetails fetches one playlist with its songs and makes it the
// current playlist. The song cursor resets. Non-positive IDs are rejected
// without a fetch.
func (s *Store) LoadPlaylistDetails(ctx context.Context, id int64) error {
	if id <= 0 {
		s.mu.Lock()
		s.errMsg = "invalid playlist id"
		s.mu.Unlock()
		return errors.Wrapf(ErrInvalidID, "got %d", id)
	}

	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	p, err := s.catalog.GetPlaylist(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		zlog.Debug().Int64("playlist", id).Msg("discarding stale playlist response")
		return nil
	}
	s.loading = false

	if err != nil {
		s.errMsg = "failed to load playlist"
		return errors.Wrapf(err, "load playlist %d", id)
	}

	s.current = p
	s.cursor = noSelection
	return nil
}

// SelectSong moves the cursor to index i. Out-of-range indexes are ignored.
func (s *Store) SelectSong(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || i < 0 || i >= len(s.current.Songs) {
		return
	}
	s.cursor = i
}

// Advance moves the cursor to the next song. Advancing past the last song
// clears the selection.
func (s *Store) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.cursor == noSelection {
		return
	}
	if s.cursor >= len(s.current.Songs)-1 {
		s.cursor = noSelection
		return
	}
	s.cursor++
}

// Retreat moves the cursor to the previous song. At the first song, or with
// no selection, it does nothing.
func (s *Store) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.cursor <= 0 {
		return
	}
	s.cursor--
}

// ClearSession drops the current playlist and selection. In-flight fetches
// become stale.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.cursor = noSelection
	s.loading = false
	s.errMsg = ""
	s.generation++
}

// Playlists returns the last loaded playlist list.
func (s *Store) Playlists() []playlist.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlists
}

// Current returns the open playlist, or nil.
func (s *Store) Current() *playlist.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentIndex returns the cursor position, and false when nothing is
// selected.
func (s *Store) CurrentIndex() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cursor == noSelection {
		return 0, false
	}
	return s.cursor, true
}

// CurrentSong returns the selected song, and false when nothing is selected.
func (s *Store) CurrentSong() (song.Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.cursor == noSelection || s.cursor >= len(s.current.Songs) {
		return song.Song{}, false
	}
	return s.current.Songs[s.cursor], true
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the retained error message, empty when the last operation
// succeeded.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}
