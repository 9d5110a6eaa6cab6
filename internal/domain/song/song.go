// Package song provides the Song domain entity.
package song

import (
	"fmt"
	"regexp"
	"strconv"
)

// Song represents a single video inside a playlist.
// Contains only information retrieved from the YouTube Data API.
type Song struct {
	ID           int64  // Server-assigned ID
	PlaylistID   int64  // Owning playlist ID
	VideoID      string // YouTube video ID
	Title        string // Video title
	Artist       string // Artist name, derived from the title (optional)
	ThumbnailURL string // Best available thumbnail URL (optional)
	Duration     string // Formatted duration, "M:SS" or "H:MM:SS" (optional)
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatISODuration converts an ISO-8601 duration (PT#H#M#S) into the
// display form "M:SS", or "H:MM:SS" when an hour component is present.
// Unparseable input yields an empty string.
func FormatISODuration(iso string) string {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return ""
	}

	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%d:%02d", min, sec)
}
