package session

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Balogunolalere/myoozik/internal/domain/playlist"
	"github.com/Balogunolalere/myoozik/internal/domain/song"
)

type fakeCatalog struct {
	playlists []playlist.Summary
	detail    *playlist.Playlist
	listErr   error
	getErr    error

	// gate, when set, blocks GetPlaylist until released; entered is
	// closed once GetPlaylist has been called
	gate    chan struct{}
	entered chan struct{}

	gotID int64
}

func (f *fakeCatalog) ListPlaylists(_ context.Context) ([]playlist.Summary, error) {
	return f.playlists, f.listErr
}

func (f *fakeCatalog) GetPlaylist(_ context.Context, id int64) (*playlist.Playlist, error) {
	f.gotID = id
	if f.entered != nil {
		close(f.entered)
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.detail, f.getErr
}

func threeSongs() *playlist.Playlist {
	return &playlist.Playlist{
		ID:    1,
		Title: "mix",
		Songs: []song.Song{
			{ID: 10, VideoID: "aaa"},
			{ID: 11, VideoID: "bbb"},
			{ID: 12, VideoID: "ccc"},
		},
	}
}

func loadedStore(t *testing.T) (*Store, *fakeCatalog) {
	t.Helper()
	cat := &fakeCatalog{detail: threeSongs()}
	s := NewStore(cat)
	require.NoError(t, s.LoadPlaylistDetails(context.Background(), 1))
	return s, cat
}

func TestLoadPlaylistList(t *testing.T) {
	cat := &fakeCatalog{playlists: []playlist.Summary{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}}
	s := NewStore(cat)

	require.NoError(t, s.LoadPlaylistList(context.Background()))
	assert.Len(t, s.Playlists(), 2)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
}

func TestLoadPlaylistList_KeepsOldListOnError(t *testing.T) {
	cat := &fakeCatalog{playlists: []playlist.Summary{{ID: 1}}}
	s := NewStore(cat)
	require.NoError(t, s.LoadPlaylistList(context.Background()))

	cat.listErr = errors.New("boom")
	require.Error(t, s.LoadPlaylistList(context.Background()))

	assert.Len(t, s.Playlists(), 1)
	assert.NotEmpty(t, s.Err())
	assert.False(t, s.Loading())
}

func TestLoadPlaylistDetails(t *testing.T) {
	s, cat := loadedStore(t)

	assert.Equal(t, int64(1), cat.gotID)
	require.NotNil(t, s.Current())
	assert.Equal(t, "mix", s.Current().Title)

	_, ok := s.CurrentIndex()
	assert.False(t, ok, "cursor resets on load")
}

func TestLoadPlaylistDetails_RejectsBadID(t *testing.T) {
	cat := &fakeCatalog{}
	s := NewStore(cat)

	err := s.LoadPlaylistDetails(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidID))
	assert.Zero(t, cat.gotID, "no fetch for invalid id")
	assert.NotEmpty(t, s.Err())

	require.Error(t, s.LoadPlaylistDetails(context.Background(), -3))
}

func TestSelectSong(t *testing.T) {
	s, _ := loadedStore(t)

	s.SelectSong(1)
	sg, ok := s.CurrentSong()
	require.True(t, ok)
	assert.Equal(t, "bbb", sg.VideoID)

	// out of range is ignored
	s.SelectSong(99)
	idx, ok := s.CurrentIndex()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	s.SelectSong(-1)
	idx, _ = s.CurrentIndex()
	assert.Equal(t, 1, idx)
}

func TestAdvance(t *testing.T) {
	s, _ := loadedStore(t)

	// no selection: advance does nothing
	s.Advance()
	_, ok := s.CurrentIndex()
	assert.False(t, ok)

	s.SelectSong(0)
	s.Advance()
	idx, ok := s.CurrentIndex()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	// advancing past the last song clears the selection
	s.SelectSong(2)
	s.Advance()
	_, ok = s.CurrentIndex()
	assert.False(t, ok)
}

func TestRetreat(t *testing.T) {
	s, _ := loadedStore(t)

	s.SelectSong(2)
	s.Retreat()
	idx, ok := s.CurrentIndex()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	// at the first song retreat is a no-op
	s.SelectSong(0)
	s.Retreat()
	idx, ok = s.CurrentIndex()
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	// with no selection retreat is a no-op
	s.ClearSession()
	s.Retreat()
	_, ok = s.CurrentIndex()
	assert.False(t, ok)
}

func TestClearSession(t *testing.T) {
	s, _ := loadedStore(t)
	s.SelectSong(1)

	s.ClearSession()

	assert.Nil(t, s.Current())
	_, ok := s.CurrentSong()
	assert.False(t, ok)
	assert.Empty(t, s.Err())
}

// orderedCatalog serves playlist 1 only after release is closed, so its
// response can be forced to arrive after playlist 2's.
type orderedCatalog struct {
	entered chan struct{}
	release chan struct{}
}

func (c *orderedCatalog) ListPlaylists(_ context.Context) ([]playlist.Summary, error) {
	return nil, nil
}

func (c *orderedCatalog) GetPlaylist(_ context.Context, id int64) (*playlist.Playlist, error) {
	if id == 1 {
		close(c.entered)
		<-c.release
	}
	return &playlist.Playlist{ID: id}, nil
}

func TestSecondLoadWinsOverLateFirstResponse(t *testing.T) {
	cat := &orderedCatalog{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewStore(cat)

	done := make(chan error, 1)
	go func() {
		done <- s.LoadPlaylistDetails(context.Background(), 1)
	}()
	<-cat.entered

	require.NoError(t, s.LoadPlaylistDetails(context.Background(), 2))

	close(cat.release)
	require.NoError(t, <-done)

	require.NotNil(t, s.Current())
	assert.Equal(t, int64(2), s.Current().ID, "late response for the abandoned load must not win")
}

func TestStaleResponseDiscarded(t *testing.T) {
	cat := &fakeCatalog{detail: threeSongs(), gate: make(chan struct{}), entered: make(chan struct{})}
	s := NewStore(cat)

	done := make(chan error, 1)
	go func() {
		done <- s.LoadPlaylistDetails(context.Background(), 1)
	}()

	// the session moves on while the fetch is still in flight
	<-cat.entered
	s.ClearSession()
	close(cat.gate)

	require.NoError(t, <-done)
	assert.Nil(t, s.Current(), "stale response must not repopulate the session")
}
