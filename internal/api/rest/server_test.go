package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Balogunolalere/myoozik/internal/app/ingest"
	"github.com/Balogunolalere/myoozik/internal/domain/comment"
	"github.com/Balogunolalere/myoozik/internal/domain/playlist"
	"github.com/Balogunolalere/myoozik/internal/domain/rating"
	"github.com/Balogunolalere/myoozik/internal/domain/song"
	"github.com/Balogunolalere/myoozik/internal/infra/postgres"
	"github.com/Balogunolalere/myoozik/internal/infra/youtube"
)

type fakeStore struct {
	playlists []playlist.Summary
	playlist  *playlist.Playlist
	songs     []song.Song
	comments  []comment.Comment
	top       []postgres.TopRatedPlaylist

	ratedIPs map[string]bool // ip -> rated

	lastRatingIP    string
	lastRatingValue int
	lastComment     comment.Comment
}

func newFakeStore() *fakeStore {
	return &fakeStore{ratedIPs: map[string]bool{}}
}

func (f *fakeStore) ListPlaylists(context.Context) ([]playlist.Summary, error) {
	return f.playlists, nil
}

func (f *fakeStore) GetPlaylist(_ context.Context, id int64) (*playlist.Playlist, error) {
	if f.playlist == nil || f.playlist.ID != id {
		return nil, postgres.ErrNotFound
	}
	return f.playlist, nil
}

func (f *fakeStore) UpdatePlaylist(_ context.Context, id int64, title, description string) error {
	if f.playlist == nil || f.playlist.ID != id {
		return postgres.ErrNotFound
	}
	f.playlist.Title = title
	f.playlist.Description = description
	return nil
}

func (f *fakeStore) DeletePlaylist(_ context.Context, id int64) error {
	if f.playlist == nil || f.playlist.ID != id {
		return postgres.ErrNotFound
	}
	f.playlist = nil
	return nil
}

func (f *fakeStore) ListSongs(context.Context, int64) ([]song.Song, error) {
	return f.songs, nil
}

func (f *fakeStore) GetSong(_ context.Context, id int64) (song.Song, error) {
	for _, sg := range f.songs {
		if sg.ID == id {
			return sg, nil
		}
	}
	return song.Song{}, postgres.ErrNotFound
}

func (f *fakeStore) UpdateSong(_ context.Context, id int64, title, artist string) error {
	for i, sg := range f.songs {
		if sg.ID == id {
			f.songs[i].Title = title
			f.songs[i].Artist = artist
			return nil
		}
	}
	return postgres.ErrNotFound
}

func (f *fakeStore) DeleteSong(_ context.Context, id int64) error {
	for i, sg := range f.songs {
		if sg.ID == id {
			f.songs = append(f.songs[:i], f.songs[i+1:]...)
			return nil
		}
	}
	return postgres.ErrNotFound
}

func (f *fakeStore) InsertRating(_ context.Context, _ int64, value int, ip string) error {
	if err := rating.Validate(value); err != nil {
		return err
	}
	if f.ratedIPs[ip] {
		return rating.ErrDuplicate
	}
	f.ratedIPs[ip] = true
	f.lastRatingIP = ip
	f.lastRatingValue = value
	return nil
}

func (f *fakeStore) HasRated(_ context.Context, _ int64, ip string) (bool, error) {
	return f.ratedIPs[ip], nil
}

func (f *fakeStore) DeleteRating(context.Context, int64) error { return nil }

func (f *fakeStore) TopRated(context.Context, int) ([]postgres.TopRatedPlaylist, error) {
	return f.top, nil
}

func (f *fakeStore) ListComments(context.Context, int64) ([]comment.Comment, error) {
	return f.comments, nil
}

func (f *fakeStore) InsertComment(_ context.Context, playlistID int64, content, nickname string) (comment.Comment, error) {
	c := comment.Comment{ID: int64(len(f.comments) + 1), PlaylistID: playlistID, Content: content, Nickname: nickname, CreatedAt: time.Now()}
	f.comments = append([]comment.Comment{c}, f.comments...)
	f.lastComment = c
	return c, nil
}

func (f *fakeStore) UpdateComment(context.Context, int64, string) error { return nil }
func (f *fakeStore) DeleteComment(context.Context, int64) error        { return nil }

type fakeIngester struct {
	playlist *playlist.Playlist
	song     song.Song
	err      error
	gotURL   string
}

func (f *fakeIngester) AddPlaylist(_ context.Context, rawURL string) (*playlist.Playlist, error) {
	f.gotURL = rawURL
	return f.playlist, f.err
}

func (f *fakeIngester) AddVideo(_ context.Context, _ int64, rawURL string) (song.Song, error) {
	f.gotURL = rawURL
	return f.song, f.err
}

func (f *fakeIngester) LookupPlaylist(context.Context, string) (*youtube.Playlist, error) {
	return nil, f.err
}

func (f *fakeIngester) LookupVideo(context.Context, string) (*youtube.Video, error) {
	return nil, f.err
}

func newTestServer(store *fakeStore, ing *fakeIngester) *httptest.Server {
	if ing == nil {
		ing = &fakeIngester{}
	}
	return httptest.NewServer(NewServer(store, ing).Router())
}

func jsonDecode(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

func doReq(t *testing.T, method, url, body string, headers map[string]string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(newFakeStore(), nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestGetPlaylist_NotFound(t *testing.T) {
	ts := newTestServer(newFakeStore(), nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/playlists/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPlaylist_BadID(t *testing.T) {
	ts := newTestServer(newFakeStore(), nil)
	defer ts.Close()

	for _, path := range []string{"/api/playlists/abc", "/api/playlists/0", "/api/playlists/-1"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestRate(t *testing.T) {
	store := newFakeStore()
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := doReq(t, http.MethodPost, ts.URL+"/api/playlists/1/rating", `{"rating":4}`, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 4, store.lastRatingValue)
}

func TestRate_Duplicate(t *testing.T) {
	store := newFakeStore()
	ts := newTestServer(store, nil)
	defer ts.Close()

	first := doReq(t, http.MethodPost, ts.URL+"/api/playlists/1/rating", `{"rating":4}`, nil)
	first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := doReq(t, http.MethodPost, ts.URL+"/api/playlists/1/rating", `{"rating":5}`, nil)
	defer second.Body.Close()
	assert.Equal(t, http.StatusConflict, second.StatusCode)

	var body map[string]string
	require.NoError(t, jsonDecode(second, &body))
	assert.Equal(t, codeAlreadyRated, body["error"])
}

func TestRate_OutOfRange(t *testing.T) {
	ts := newTestServer(newFakeStore(), nil)
	defer ts.Close()

	resp := doReq(t, http.MethodPost, ts.URL+"/api/playlists/1/rating", `{"rating":6}`, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRate_ForwardedForIdentity(t *testing.T) {
	store := newFakeStore()
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := doReq(t, http.MethodPost, ts.URL+"/api/playlists/1/rating", `{"rating":3}`,
		map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "203.0.113.9", store.lastRatingIP, "first forwarded hop identifies the submitter")
}

func TestRated(t *testing.T) {
	store := newFakeStore()
	store.ratedIPs["203.0.113.9"] = true
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := doReq(t, http.MethodGet, ts.URL+"/api/playlists/1/rated", "",
		map[string]string{"X-Forwarded-For": "203.0.113.9"})
	defer resp.Body.Close()

	var body ratedJSON
	require.NoError(t, jsonDecode(resp, &body))
	assert.True(t, body.Rated)
}

func TestAddComment_NormalizesNickname(t *testing.T) {
	store := newFakeStore()
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := doReq(t, http.MethodPost, ts.URL+"/api/playlists/1/comments",
		`{"content":"  nice  ","nickname":"   "}`, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "nice", store.lastComment.Content)
	assert.Equal(t, comment.DefaultNickname, store.lastComment.Nickname)
}

func TestAddComment_BlankRejected(t *testing.T) {
	ts := newTestServer(newFakeStore(), nil)
	defer ts.Close()

	resp := doReq(t, http.MethodPost, ts.URL+"/api/playlists/1/comments",
		`{"content":"   ","nickname":"dj"}`, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIngestPlaylist_BadURL(t *testing.T) {
	ing := &fakeIngester{err: errors.Wrap(ingest.ErrBadURL, "no playlist id")}
	ts := newTestServer(newFakeStore(), ing)
	defer ts.Close()

	resp := doReq(t, http.MethodPost, ts.URL+"/api/playlists", `{"url":"https://example.com"}`, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPatchPlaylist(t *testing.T) {
	store := newFakeStore()
	store.playlist = &playlist.Playlist{ID: 1, Title: "old", Description: "desc"}
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := doReq(t, http.MethodPatch, ts.URL+"/api/playlists/1", `{"title":"new"}`, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "new", store.playlist.Title)
	assert.Equal(t, "desc", store.playlist.Description, "omitted fields keep their value")
}

func TestTopRated(t *testing.T) {
	store := newFakeStore()
	store.top = []postgres.TopRatedPlaylist{
		{ID: 2, Title: "best", AverageRating: 4.8, TotalRatings: 12},
		{ID: 1, Title: "good", AverageRating: 4.1, TotalRatings: 3},
	}
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/ratings/top")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out []TopPlaylist
	require.NoError(t, jsonDecode(resp, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "best", out[0].Title)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "forwarded first hop", forwarded: "203.0.113.9, 10.0.0.1", want: "203.0.113.9"},
		{name: "real ip fallback", realIP: "198.51.100.2", remoteAddr: "10.0.0.1:123", want: "198.51.100.2"},
		{name: "remote addr fallback", remoteAddr: "192.0.2.4:5678", want: "192.0.2.4"},
		{name: "remote addr without port", remoteAddr: "192.0.2.4", want: "192.0.2.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-Ip", tt.realIP)
			}
			assert.Equal(t, tt.want, clientIP(r))
		})
	}
}
