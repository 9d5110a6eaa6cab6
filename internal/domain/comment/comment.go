// Package comment provides the Comment domain entity.
package comment

import (
	"strings"
	"time"
)

// DefaultNickname is used when a submitter leaves the nickname blank.
const DefaultNickname = "Anonymous"

// MaxNicknameLen caps the display nickname length in runes.
const MaxNicknameLen = 30

// Comment represents an anonymous nicknamed comment on a playlist.
// Comments are append-only; edit/delete exist only on the admin surface.
type Comment struct {
	ID         int64
	PlaylistID int64
	Content    string
	Nickname   string
	CreatedAt  time.Time
}

// NormalizeNickname trims the nickname, substitutes the default for blank
// input, and truncates to MaxNicknameLen runes.
func NormalizeNickname(nickname string) string {
	n := strings.TrimSpace(nickname)
	if n == "" {
		return DefaultNickname
	}
	if runes := []rune(n); len(runes) > MaxNicknameLen {
		n = string(runes[:MaxNicknameLen])
	}
	return n
}

// NormalizeContent trims comment content. Empty output means the comment
// must not be submitted.
func NormalizeContent(content string) string {
	return strings.TrimSpace(content)
}
