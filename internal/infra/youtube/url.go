package youtube

import "regexp"

var (
	videoIDRe    = regexp.MustCompile(`(?:youtu\.be/|v/|embed/|watch\?(?:.*&)?v=)([A-Za-z0-9_-]{11})`)
	playlistIDRe = regexp.MustCompile(`[&?]list=([A-Za-z0-9_-]+)`)
	bareVideoRe  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractPlaylistID extracts the playlist ID from a YouTube URL.
// Returns an empty string when no list parameter is present.
func ExtractPlaylistID(rawURL string) string {
	if m := playlistIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// ExtractVideoID extracts the 11-character video ID from a YouTube URL.
// A bare video ID is accepted as-is. Returns an empty string on no match.
func ExtractVideoID(rawURL string) string {
	if bareVideoRe.MatchString(rawURL) {
		return rawURL
	}
	if m := videoIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}
