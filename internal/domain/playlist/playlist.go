// Package playlist provides the Playlist domain entity.
package playlist

import (
	"time"

	"github.com/Balogunolalere/myoozik/internal/domain/song"
)

// Playlist represents a shared YouTube playlist.
type Playlist struct {
	ID            int64       // Server-assigned ID
	YouTubeID     string      // YouTube playlist ID
	Title         string      // Playlist title
	Description   string      // Playlist description (may be empty)
	AverageRating *float64    // Mean of all ratings; nil until at least one rating exists
	TotalRatings  int         // Number of ratings received
	CreatedAt     time.Time   // Creation time
	Songs         []song.Song // Songs in insertion order
}

// Summary is the list-view projection of a playlist: the playlist row plus
// the derived fields the index page shows for each card.
type Summary struct {
	ID            int64
	YouTubeID     string
	Title         string
	Description   string
	ThumbnailURL  string // First song's thumbnail (empty for empty playlists)
	SongCount     int
	AverageRating *float64 // nil when unrated
}

// SongCount returns the number of songs in the playlist.
func (p *Playlist) SongCount() int {
	return len(p.Songs)
}

// VideoIDs returns all YouTube video IDs in playlist order.
func (p *Playlist) VideoIDs() []string {
	ids := make([]string, len(p.Songs))
	for i, s := range p.Songs {
		ids[i] = s.VideoID
	}
	return ids
}
