package rest

import (
	"time"

	"github.com/Balogunolalere/myoozik/internal/domain/comment"
	"github.com/Balogunolalere/myoozik/internal/domain/playlist"
	"github.com/Balogunolalere/myoozik/internal/domain/song"
	"github.com/Balogunolalere/myoozik/internal/infra/postgres"
)

// Wire types

type playlistSummaryJSON struct {
	ID            int64    `json:"id"`
	YouTubeID     string   `json:"youtube_playlist_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	SongCount     int      `json:"song_count"`
	AverageRating *float64 `json:"average_rating"`
}

type playlistJSON struct {
	ID            int64      `json:"id"`
	YouTubeID     string     `json:"youtube_playlist_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AverageRating *float64   `json:"average_rating"`
	TotalRatings  int        `json:"total_ratings"`
	CreatedAt     time.Time  `json:"created_at"`
	Songs         []songJSON `json:"songs"`
}

type songJSON struct {
	ID           int64  `json:"id"`
	PlaylistID   int64  `json:"playlist_id"`
	VideoID      string `json:"youtube_video_id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     string `json:"duration"`
}

type commentJSON struct {
	ID         int64     `json:"id"`
	PlaylistID int64     `json:"playlist_id"`
	Content    string    `json:"content"`
	Nickname   string    `json:"nickname"`
	CreatedAt  time.Time `json:"created_at"`
}

// TopPlaylist is one row of the top-rated scoreboard.
type TopPlaylist struct {
	ID            int64   `json:"id"`
	YouTubeID     string  `json:"youtube_playlist_id"`
	Title         string  `json:"title"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

type ratedJSON struct {
	Rated bool `json:"rated"`
}

// Request bodies

type ingestPlaylistRequest struct {
	URL string `json:"url"`
}

type addSongRequest struct {
	URL string `json:"url"`
}

type patchPlaylistRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type patchSongRequest struct {
	Title  *string `json:"title"`
	Artist *string `json:"artist"`
}

type addCommentRequest struct {
	Content  string `json:"content"`
	Nickname string `json:"nickname"`
}

type patchCommentRequest struct {
	Content string `json:"content"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// Conversions

func toSummaryJSON(s playlist.Summary) playlistSummaryJSON {
	return playlistSummaryJSON{
		ID:            s.ID,
		YouTubeID:     s.YouTubeID,
		Title:         s.Title,
		Description:   s.Description,
		ThumbnailURL:  s.ThumbnailURL,
		SongCount:     s.SongCount,
		AverageRating: s.AverageRating,
	}
}

func toPlaylistJSON(p *playlist.Playlist) playlistJSON {
	songs := make([]songJSON, len(p.Songs))
	for i, sg := range p.Songs {
		songs[i] = toSongJSON(sg)
	}
	return playlistJSON{
		ID:            p.ID,
		YouTubeID:     p.YouTubeID,
		Title:         p.Title,
		Description:   p.Description,
		AverageRating: p.AverageRating,
		TotalRatings:  p.TotalRatings,
		CreatedAt:     p.CreatedAt,
		Songs:         songs,
	}
}

func toSongJSON(sg song.Song) songJSON {
	return songJSON{
		ID:           sg.ID,
		PlaylistID:   sg.PlaylistID,
		VideoID:      sg.VideoID,
		Title:        sg.Title,
		Artist:       sg.Artist,
		ThumbnailURL: sg.ThumbnailURL,
		Duration:     sg.Duration,
	}
}

func toCommentJSON(c comment.Comment) commentJSON {
	return commentJSON{
		ID:         c.ID,
		PlaylistID: c.PlaylistID,
		Content:    c.Content,
		Nickname:   c.Nickname,
		CreatedAt:  c.CreatedAt,
	}
}

func toTopRatedJSON(t postgres.TopRatedPlaylist) TopPlaylist {
	return TopPlaylist{
		ID:            t.ID,
		YouTubeID:     t.YouTubeID,
		Title:         t.Title,
		AverageRating: t.AverageRating,
		TotalRatings:  t.TotalRatings,
	}
}
