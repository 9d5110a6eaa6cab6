// Package youtube provides a client for the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Balogunolalere/myoozik/internal/domain/song"
)

// Errors
var (
	ErrNotFound = errors.New("not found on youtube")
)

// Video is the normalized metadata for a single YouTube video.
type Video struct {
	ID           string
	Title        string
	Artist       string // Derived from "Artist - Title" titles, empty otherwise
	ThumbnailURL string
	Duration     string // "M:SS" or "H:MM:SS"
}

// Playlist is the normalized metadata for a YouTube playlist.
type Playlist struct {
	ID          string
	Title       string
	Description string
	Videos      []Video // In playlist order
}

// Config represents YouTube client configuration.
type Config struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	PageSize int // playlistItems page size (max 50)
}

// Client is a YouTube Data API client.
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	http       *http.Client
	maxRetries int
	retryDelay time.Duration
}

// New creates a new YouTube client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube api key is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		pageSize:   pageSize,
		http:       &http.Client{Timeout: timeout},
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

type ytThumbnails struct {
	Default struct {
		URL string `json:"url"`
	} `json:"default"`
	Medium struct {
		URL string `json:"url"`
	} `json:"medium"`
	High struct {
		URL string `json:"url"`
	} `json:"high"`
}

type ytPlaylistsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytPlaylistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type ytVideosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string       `json:"title"`
			Thumbnails ytThumbnails `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// GetVideo retrieves normalized metadata for a single video.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	if videoID == "" {
		return nil, errors.New("video id is required")
	}

	videos, err := c.fetchVideos(ctx, []string{videoID})
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "video %s", videoID)
	}
	return &videos[0], nil
}

// GetPlaylist retrieves playlist metadata and all of its videos in order.
func (c *Client) GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	if playlistID == "" {
		return nil, errors.New("playlist id is required")
	}

	var meta ytPlaylistsResponse
	err := c.retry(func() error {
		return c.get(ctx, "/playlists", url.Values{
			"part": {"snippet"},
			"id":   {playlistID},
		}, &meta)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get playlist")
	}
	if len(meta.Items) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "playlist %s", playlistID)
	}

	pl := &Playlist{
		ID:          playlistID,
		Title:       meta.Items[0].Snippet.Title,
		Description: meta.Items[0].Snippet.Description,
	}

	videoIDs, err := c.fetchPlaylistVideoIDs(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		pl.Videos = []Video{}
		return pl, nil
	}

	// The videos endpoint caps ids per call at 50, same as the page size.
	videos := make([]Video, 0, len(videoIDs))
	for start := 0; start < len(videoIDs); start += c.pageSize {
		end := start + c.pageSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batch, err := c.fetchVideos(ctx, videoIDs[start:end])
		if err != nil {
			return nil, err
		}
		videos = append(videos, batch...)
	}

	pl.Videos = orderVideos(videoIDs, videos)
	return pl, nil
}

// fetchPlaylistVideoIDs pages through playlistItems collecting video ids.
func (c *Client) fetchPlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		vals := url.Values{
			"part":       {"snippet,contentDetails"},
			"playlistId": {playlistID},
			"maxResults": {strconv.Itoa(c.pageSize)},
		}
		if pageToken != "" {
			vals.Set("pageToken", pageToken)
		}

		var page ytPlaylistItemsResponse
		err := c.retry(func() error {
			return c.get(ctx, "/playlistItems", vals, &page)
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get playlist items")
		}

		for _, item := range page.Items {
			if item.ContentDetails.VideoID != "" {
				ids = append(ids, item.ContentDetails.VideoID)
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return ids, nil
}

// fetchVideos retrieves normalized metadata for up to 50 video ids.
func (c *Client) fetchVideos(ctx context.Context, ids []string) ([]Video, error) {
	var body ytVideosResponse
	err := c.retry(func() error {
		return c.get(ctx, "/videos", url.Values{
			"part": {"snippet,contentDetails"},
			"id":   {strings.Join(ids, ",")},
		}, &body)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get videos")
	}

	videos := make([]Video, 0, len(body.Items))
	for _, item := range body.Items {
		videos = append(videos, Video{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			Artist:       deriveArtist(item.Snippet.Title),
			ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
			Duration:     song.FormatISODuration(item.ContentDetails.Duration),
		})
	}
	return videos, nil
}

// get performs one API request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, vals url.Values, out any) error {
	vals.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + vals.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("youtube status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// retry runs fn up to maxRetries times, backing off linearly between
// retryable failures.
func (c *Client) retry(fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelay * time.Duration(i+1))
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Rate limit and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503")
}

// orderVideos reorders fetched videos to match the playlist item order.
// The videos endpoint does not guarantee response order matches the request.
func orderVideos(ids []string, videos []Video) []Video {
	byID := make(map[string]Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	ordered := make([]Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered
}

// deriveArtist extracts the artist from a "Artist - Title" video title.
func deriveArtist(title string) string {
	if idx := strings.Index(title, " - "); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	return ""
}

// bestThumbnail picks the highest-quality thumbnail available.
func bestThumbnail(t ytThumbnails) string {
	if t.High.URL != "" {
		return t.High.URL
	}
	if t.Medium.URL != "" {
		return t.Medium.URL
	}
	return t.Default.URL
}
