package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Balogunolalere/myoozik/internal/domain/comment"
	"github.com/Balogunolalere/myoozik/internal/domain/playlist"
	"github.com/Balogunolalere/myoozik/internal/domain/rating"
	"github.com/Balogunolalere/myoozik/internal/domain/song"
)

// ErrAPI wraps error responses from the server.
var ErrAPI = errors.New("api error")

// Client is a typed client for the JSON API. It satisfies the session
// catalog and interaction backend interfaces.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListPlaylists returns all playlists.
func (c *Client) ListPlaylists(ctx context.Context) ([]playlist.Summary, error) {
	var out []playlistSummaryJSON
	if err := c.do(ctx, http.MethodGet, "/api/playlists", nil, &out); err != nil {
		return nil, err
	}

	summaries := make([]playlist.Summary, len(out))
	for i, s := range out {
		summaries[i] = playlist.Summary{
			ID:            s.ID,
			YouTubeID:     s.YouTubeID,
			Title:         s.Title,
			Description:   s.Description,
			ThumbnailURL:  s.ThumbnailURL,
			SongCount:     s.SongCount,
			AverageRating: s.AverageRating,
		}
	}
	return summaries, nil
}

// GetPlaylist returns one playlist with its songs.
func (c *Client) GetPlaylist(ctx context.Context, id int64) (*playlist.Playlist, error) {
	var out playlistJSON
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/playlists/%d", id), nil, &out); err != nil {
		return nil, err
	}

	songs := make([]song.Song, len(out.Songs))
	for i, s := range out.Songs {
		songs[i] = song.Song{
			ID:           s.ID,
			PlaylistID:   s.PlaylistID,
			VideoID:      s.VideoID,
			Title:        s.Title,
			Artist:       s.Artist,
			ThumbnailURL: s.ThumbnailURL,
			Duration:     s.Duration,
		}
	}
	return &playlist.Playlist{
		ID:            out.ID,
		YouTubeID:     out.YouTubeID,
		Title:         out.Title,
		Description:   out.Description,
		AverageRating: out.AverageRating,
		TotalRatings:  out.TotalRatings,
		CreatedAt:     out.CreatedAt,
		Songs:         songs,
	}, nil
}

// AddPlaylist imports a YouTube playlist by URL.
func (c *Client) AddPlaylist(ctx context.Context, rawURL string) (*playlist.Playlist, error) {
	var out playlistJSON
	err := c.do(ctx, http.MethodPost, "/api/playlists", ingestPlaylistRequest{URL: rawURL}, &out)
	if err != nil {
		return nil, err
	}
	return &playlist.Playlist{
		ID:          out.ID,
		YouTubeID:   out.YouTubeID,
		Title:       out.Title,
		Description: out.Description,
		CreatedAt:   out.CreatedAt,
	}, nil
}

// AddVideo appends a single video to a playlist.
func (c *Client) AddVideo(ctx context.Context, playlistID int64, rawURL string) (song.Song, error) {
	var out songJSON
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/playlists/%d/songs", playlistID), addSongRequest{URL: rawURL}, &out)
	if err != nil {
		return song.Song{}, err
	}
	return song.Song{
		ID:           out.ID,
		PlaylistID:   out.PlaylistID,
		VideoID:      out.VideoID,
		Title:        out.Title,
		Artist:       out.Artist,
		ThumbnailURL: out.ThumbnailURL,
		Duration:     out.Duration,
	}, nil
}

// DeletePlaylist removes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/playlists/%d", id), nil, nil)
}

// HasRated reports whether this client's address has rated the playlist.
func (c *Client) HasRated(ctx context.Context, playlistID int64) (bool, error) {
	var out ratedJSON
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/playlists/%d/rated", playlistID), nil, &out); err != nil {
		return false, err
	}
	return out.Rated, nil
}

// SubmitRating rates a playlist. A duplicate reported by the server is
// returned as rating.ErrDuplicate.
func (c *Client) SubmitRating(ctx context.Context, playlistID int64, value int) error {
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/playlists/%d/rating", playlistID), rateRequest{Rating: value}, nil)
	if err != nil && strings.Contains(err.Error(), codeAlreadyRated) {
		return errors.Wrapf(rating.ErrDuplicate, "playlist %d", playlistID)
	}
	return err
}

// ListComments returns a playlist's comments, newest first.
func (c *Client) ListComments(ctx context.Context, playlistID int64) ([]comment.Comment, error) {
	var out []commentJSON
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/playlists/%d/comments", playlistID), nil, &out); err != nil {
		return nil, err
	}

	comments := make([]comment.Comment, len(out))
	for i, cm := range out {
		comments[i] = comment.Comment{
			ID:         cm.ID,
			PlaylistID: cm.PlaylistID,
			Content:    cm.Content,
			Nickname:   cm.Nickname,
			CreatedAt:  cm.CreatedAt,
		}
	}
	return comments, nil
}

// AddComment posts a comment on a playlist.
func (c *Client) AddComment(ctx context.Context, playlistID int64, content, nickname string) (comment.Comment, error) {
	var out commentJSON
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/playlists/%d/comments", playlistID),
		addCommentRequest{Content: content, Nickname: nickname}, &out)
	if err != nil {
		return comment.Comment{}, err
	}
	return comment.Comment{
		ID:         out.ID,
		PlaylistID: out.PlaylistID,
		Content:    out.Content,
		Nickname:   out.Nickname,
		CreatedAt:  out.CreatedAt,
	}, nil
}

// TopRated returns the scoreboard.
func (c *Client) TopRated(ctx context.Context) ([]TopPlaylist, error) {
	var out []TopPlaylist
	if err := c.do(ctx, http.MethodGet, "/api/ratings/top", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do performs one request. Non-2xx responses are returned as ErrAPI with
// the server's error code attached.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return errors.Wrapf(ErrAPI, "%s %s: %d %s", method, path, resp.StatusCode, apiErr.Error)
		}
		return errors.Wrapf(ErrAPI, "%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
