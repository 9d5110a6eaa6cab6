package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "abc123def45", r.URL.Query().Get("id"))
		assert.Equal(t, "test_key", r.URL.Query().Get("key"))

		response := `{
			"items": [
				{
					"id": "abc123def45",
					"snippet": {
						"title": "Daft Punk - Harder Better Faster Stronger",
						"thumbnails": {
							"default": {"url": "https://i.ytimg.com/d.jpg"},
							"high": {"url": "https://i.ytimg.com/h.jpg"}
						}
					},
					"contentDetails": {"duration": "PT3M45S"}
				}
			]
		}`
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "test_key", BaseURL: server.URL})
	require.NoError(t, err)

	v, err := client.GetVideo(context.Background(), "abc123def45")
	require.NoError(t, err)
	assert.Equal(t, "abc123def45", v.ID)
	assert.Equal(t, "Daft Punk - Harder Better Faster Stronger", v.Title)
	assert.Equal(t, "Daft Punk", v.Artist)
	assert.Equal(t, "https://i.ytimg.com/h.jpg", v.ThumbnailURL)
	assert.Equal(t, "3:45", v.Duration)
}

func TestGetVideo_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "test_key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.GetVideo(context.Background(), "missing00000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPlaylist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/playlists":
			assert.Equal(t, "PLtest", r.URL.Query().Get("id"))
			fmt.Fprint(w, `{
				"items": [
					{"id": "PLtest", "snippet": {"title": "Road Trip", "description": "windows down"}}
				]
			}`)
		case "/playlistItems":
			assert.Equal(t, "PLtest", r.URL.Query().Get("playlistId"))
			fmt.Fprint(w, `{
				"items": [
					{"contentDetails": {"videoId": "videoaaaaa1"}},
					{"contentDetails": {"videoId": "videobbbbb2"}}
				]
			}`)
		case "/videos":
			// Deliberately out of order; the client restores playlist order.
			fmt.Fprint(w, `{
				"items": [
					{
						"id": "videobbbbb2",
						"snippet": {"title": "Song B", "thumbnails": {"medium": {"url": "https://i.ytimg.com/b.jpg"}}},
						"contentDetails": {"duration": "PT1H2M3S"}
					},
					{
						"id": "videoaaaaa1",
						"snippet": {"title": "Artist A - Song A", "thumbnails": {"default": {"url": "https://i.ytimg.com/a.jpg"}}},
						"contentDetails": {"duration": "PT2M"}
					}
				]
			}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "test_key", BaseURL: server.URL})
	require.NoError(t, err)

	pl, err := client.GetPlaylist(context.Background(), "PLtest")
	require.NoError(t, err)
	assert.Equal(t, "Road Trip", pl.Title)
	assert.Equal(t, "windows down", pl.Description)
	require.Len(t, pl.Videos, 2)

	assert.Equal(t, "videoaaaaa1", pl.Videos[0].ID)
	assert.Equal(t, "Artist A", pl.Videos[0].Artist)
	assert.Equal(t, "2:00", pl.Videos[0].Duration)

	assert.Equal(t, "videobbbbb2", pl.Videos[1].ID)
	assert.Equal(t, "", pl.Videos[1].Artist)
	assert.Equal(t, "1:02:03", pl.Videos[1].Duration)
	assert.Equal(t, "https://i.ytimg.com/b.jpg", pl.Videos[1].ThumbnailURL)
}

func TestGetPlaylist_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "test_key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.GetPlaylist(context.Background(), "PLmissing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRetry_ServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"items": [{"id": "abc123def45", "snippet": {"title": "T"}, "contentDetails": {"duration": "PT1M"}}]}`)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "test_key", BaseURL: server.URL})
	require.NoError(t, err)
	client.retryDelay = 0

	v, err := client.GetVideo(context.Background(), "abc123def45")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "T", v.Title)
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "watch url with list",
			url:      "https://www.youtube.com/watch?v=abc123def45&list=PLabcDEF123",
			expected: "PLabcDEF123",
		},
		{
			name:     "playlist url",
			url:      "https://www.youtube.com/playlist?list=PLxyz_789-ab",
			expected: "PLxyz_789-ab",
		},
		{
			name:     "no list parameter",
			url:      "https://www.youtube.com/watch?v=abc123def45",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractPlaylistID(tt.url))
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "watch url",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "short url",
			url:      "https://youtu.be/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "embed url",
			url:      "https://www.youtube.com/embed/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "bare id",
			url:      "dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "not a video url",
			url:      "https://example.com/watch",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractVideoID(tt.url))
		})
	}
}
