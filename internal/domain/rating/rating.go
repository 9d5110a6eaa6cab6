// Package rating provides the Rating domain entity.
package rating

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Errors
var (
	// ErrOutOfRange is returned for rating values outside 1..5.
	ErrOutOfRange = errors.New("rating must be between 1 and 5")
	// ErrDuplicate is returned when the submitter has already rated the playlist.
	// The server-side uniqueness constraint on (playlist, IP) is the authority.
	ErrDuplicate = errors.New("already rated")
)

const (
	Min = 1
	Max = 5
)

// Rating represents one visitor's rating of a playlist. The submitter is
// identified only by network address; the domain never sees the address
// itself, the persistence layer enforces uniqueness with it.
type Rating struct {
	ID         int64
	PlaylistID int64
	Value      int // 1..5
	CreatedAt  time.Time
}

// Validate checks that the rating value is in range.
func Validate(value int) error {
	if value < Min || value > Max {
		return errors.Wrapf(ErrOutOfRange, "got %d", value)
	}
	return nil
}

// Average returns the arithmetic mean of the given ratings. The second
// return value is false when there are no ratings: an unrated playlist has
// no average, not an average of zero.
func Average(ratings []Rating) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	var sum int
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings)), true
}
