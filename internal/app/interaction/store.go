// Package interaction tracks a listener's rating and comment activity on
// one playlist.
package interaction

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Balogunolalere/myoozik/internal/domain/comment"
	"github.com/Balogunolalere/myoozik/internal/domain/rating"
)

// Messages shown to the listener after a rating attempt.
const (
	msgRated        = "Thanks for rating!"
	msgAlreadyRated = "You have already rated this playlist"
	msgRatingFailed = "Rating could not be submitted"
)

// Backend submits ratings and comments. Submitter identity is attached on
// the server side; the store never handles it. SubmitRating returns
// rating.ErrDuplicate when the submitter already rated the playlist.
type Backend interface {
	HasRated(ctx context.Context, playlistID int64) (bool, error)
	SubmitRating(ctx context.Context, playlistID int64, value int) error
	ListComments(ctx context.Context, playlistID int64) ([]comment.Comment, error)
	AddComment(ctx context.Context, playlistID int64, content, nickname string) (comment.Comment, error)
}

// Store holds one listener's interaction state for one playlist.
type Store struct {
	mu sync.RWMutex

	backend Backend

	hasRated bool
	message  string
	comments []comment.Comment
}

// NewStore creates an interaction store backed by the given backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// CheckIfRated asks the backend whether this listener already rated the
// playlist. Lookup failures fail open: the listener may try to rate, and
// the server-side uniqueness constraint has the final word.
func (s *Store) CheckIfRated(ctx context.Context, playlistID int64) {
	rated, err := s.backend.HasRated(ctx, playlistID)
	if err != nil {
		zlog.Warn().Err(err).Int64("playlist", playlistID).Msg("rated lookup failed, assuming not rated")
		rated = false
	}

	s.mu.Lock()
	s.hasRated = rated
	s.mu.Unlock()
}

// SubmitRating submits a 1..5 rating. Submitting when already rated is a
// no-op. A duplicate reported by the backend marks the playlist rated
// instead of surfacing an error.
func (s *Store) SubmitRating(ctx context.Context, playlistID int64, value int) error {
	if err := rating.Validate(value); err != nil {
		return err
	}

	s.mu.RLock()
	rated := s.hasRated
	s.mu.RUnlock()
	if rated {
		return nil
	}

	err := s.backend.SubmitRating(ctx, playlistID, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil:
		s.hasRated = true
		s.message = msgRated
		return nil
	case errors.Is(err, rating.ErrDuplicate):
		s.hasRated = true
		s.message = msgAlreadyRated
		return nil
	default:
		s.message = msgRatingFailed
		return errors.Wrapf(err, "submit rating for playlist %d", playlistID)
	}
}

// SubmitComment normalizes and submits a comment. Blank content is silently
// dropped. On success the comment list is refreshed.
func (s *Store) SubmitComment(ctx context.Context, playlistID int64, content, nickname string) error {
	content = comment.NormalizeContent(content)
	if content == "" {
		return nil
	}
	nickname = comment.NormalizeNickname(nickname)

	if _, err := s.backend.AddComment(ctx, playlistID, content, nickname); err != nil {
		return errors.Wrapf(err, "submit comment for playlist %d", playlistID)
	}
	return s.FetchComments(ctx, playlistID)
}

// FetchComments refreshes the comment list from the backend.
func (s *Store) FetchComments(ctx context.Context, playlistID int64) error {
	comments, err := s.backend.ListComments(ctx, playlistID)
	if err != nil {
		return errors.Wrapf(err, "fetch comments for playlist %d", playlistID)
	}

	s.mu.Lock()
	s.comments = comments
	s.mu.Unlock()
	return nil
}

// Reset clears all interaction state, for switching playlists.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hasRated = false
	s.message = ""
	s.comments = nil
}

// HasRated reports whether this listener has rated the playlist.
func (s *Store) HasRated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasRated
}

// Message returns the feedback text from the last rating attempt.
func (s *Store) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// Comments returns the last fetched comment list.
func (s *Store) Comments() []comment.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comments
}
