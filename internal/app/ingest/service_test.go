package ingest

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Balogunolalere/myoozik/internal/domain/playlist"
	"github.com/Balogunolalere/myoozik/internal/domain/song"
	"github.com/Balogunolalere/myoozik/internal/infra/cache"
	"github.com/Balogunolalere/myoozik/internal/infra/youtube"
)

type fakeSource struct {
	playlist     *youtube.Playlist
	video        *youtube.Video
	playlistGets int
	videoGets    int
}

func (f *fakeSource) GetPlaylist(_ context.Context, _ string) (*youtube.Playlist, error) {
	f.playlistGets++
	if f.playlist == nil {
		return nil, youtube.ErrNotFound
	}
	return f.playlist, nil
}

func (f *fakeSource) GetVideo(_ context.Context, _ string) (*youtube.Video, error) {
	f.videoGets++
	if f.video == nil {
		return nil, youtube.ErrNotFound
	}
	return f.video, nil
}

type fakeRepo struct {
	created *playlist.Playlist
	songs   []song.Song
}

func (f *fakeRepo) CreatePlaylist(_ context.Context, youtubeID, title, description string, songs []song.Song) (*playlist.Playlist, error) {
	f.created = &playlist.Playlist{ID: 1, YouTubeID: youtubeID, Title: title, Description: description, Songs: songs}
	return f.created, nil
}

func (f *fakeRepo) AddSong(_ context.Context, playlistID int64, sg song.Song) (song.Song, error) {
	sg.ID = int64(len(f.songs) + 1)
	sg.PlaylistID = playlistID
	f.songs = append(f.songs, sg)
	return sg, nil
}

func newMemCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewMemory(nil)
	require.NoError(t, err)
	return c
}

func TestAddPlaylist(t *testing.T) {
	src := &fakeSource{playlist: &youtube.Playlist{
		ID:    "PLabc",
		Title: "Road Trip",
		Videos: []youtube.Video{
			{ID: "aaaaaaaaaaa", Title: "A - One", Artist: "A", Duration: "3:00"},
			{ID: "bbbbbbbbbbb", Title: "Two"},
		},
	}}
	repo := &fakeRepo{}
	svc := New(src, repo, newMemCache(t))

	p, err := svc.AddPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PLabc")
	require.NoError(t, err)

	assert.Equal(t, "PLabc", p.YouTubeID)
	assert.Equal(t, "Road Trip", p.Title)
	require.Len(t, p.Songs, 2)
	assert.Equal(t, "aaaaaaaaaaa", p.Songs[0].VideoID)
	assert.Equal(t, "A", p.Songs[0].Artist)
}

func TestAddPlaylist_BadURL(t *testing.T) {
	svc := New(&fakeSource{}, &fakeRepo{}, nil)

	_, err := svc.AddPlaylist(context.Background(), "https://example.com/nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadURL))
}

func TestAddVideo(t *testing.T) {
	src := &fakeSource{video: &youtube.Video{ID: "ccccccccccc", Title: "C - Three", Artist: "C"}}
	repo := &fakeRepo{}
	svc := New(src, repo, newMemCache(t))

	sg, err := svc.AddVideo(context.Background(), 7, "https://youtu.be/ccccccccccc")
	require.NoError(t, err)

	assert.Equal(t, int64(7), sg.PlaylistID)
	assert.Equal(t, "ccccccccccc", sg.VideoID)
	assert.Equal(t, "C", sg.Artist)
}

func TestLookupVideo_UsesCache(t *testing.T) {
	src := &fakeSource{video: &youtube.Video{ID: "ddddddddddd", Title: "D"}}
	svc := New(src, &fakeRepo{}, newMemCache(t))
	ctx := context.Background()

	first, err := svc.LookupVideo(ctx, "ddddddddddd")
	require.NoError(t, err)
	second, err := svc.LookupVideo(ctx, "ddddddddddd")
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, 1, src.videoGets, "second lookup comes from cache")
}

func TestLookupPlaylist_UsesCache(t *testing.T) {
	src := &fakeSource{playlist: &youtube.Playlist{ID: "PLxyz", Title: "X"}}
	svc := New(src, &fakeRepo{}, newMemCache(t))
	ctx := context.Background()

	_, err := svc.LookupPlaylist(ctx, "PLxyz")
	require.NoError(t, err)
	_, err = svc.LookupPlaylist(ctx, "PLxyz")
	require.NoError(t, err)

	assert.Equal(t, 1, src.playlistGets)
}

func TestCacheSet_UnencodableValueIsDropped(t *testing.T) {
	c := newMemCache(t)
	svc := New(&fakeSource{}, &fakeRepo{}, c)
	ctx := context.Background()

	svc.cacheSet(ctx, "yt:video:bad", make(chan int))

	_, ok, err := c.Get(ctx, "yt:video:bad")
	require.NoError(t, err)
	assert.False(t, ok, "nothing is stored for a value that cannot be encoded")
}

func TestLookup_NilCache(t *testing.T) {
	src := &fakeSource{video: &youtube.Video{ID: "eeeeeeeeeee"}}
	svc := New(src, &fakeRepo{}, nil)

	_, err := svc.LookupVideo(context.Background(), "eeeeeeeeeee")
	require.NoError(t, err)
	_, err = svc.LookupVideo(context.Background(), "eeeeeeeeeee")
	require.NoError(t, err)
	assert.Equal(t, 2, src.videoGets, "no cache means every lookup fetches")
}
