// Package postgres implements playlist, song, rating and comment
// persistence on Postgres.
package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Balogunolalere/myoozik/internal/domain/comment"
	"github.com/Balogunolalere/myoozik/internal/domain/playlist"
	"github.com/Balogunolalere/myoozik/internal/domain/rating"
	"github.com/Balogunolalere/myoozik/internal/domain/song"
)

// Errors
var (
	ErrNotFound = errors.New("not found")
)

const uniqueViolation = "23505"

// Store provides data access backed by a pgx connection pool.
type Store struct {
	db *pgxpool.Pool
}

// New creates a new Store.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ListPlaylists returns all playlists, newest first, with the derived
// list-view fields (first-song thumbnail, song count, average rating).
func (s *Store) ListPlaylists(ctx context.Context) ([]playlist.Summary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.youtube_playlist_id, p.title, p.description,
			COALESCE((SELECT s.thumbnail_url FROM songs s
				WHERE s.playlist_id = p.id ORDER BY s.id LIMIT 1), ''),
			(SELECT COUNT(*) FROM songs s WHERE s.playlist_id = p.id),
			(SELECT AVG(r.rating)::float8 FROM playlist_ratings r
				WHERE r.playlist_id = p.id)
		FROM playlists p
		ORDER BY p.created_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list playlists")
	}
	defer rows.Close()

	summaries := []playlist.Summary{}
	for rows.Next() {
		var sum playlist.Summary
		if err := rows.Scan(
			&sum.ID,
			&sum.YouTubeID,
			&sum.Title,
			&sum.Description,
			&sum.ThumbnailURL,
			&sum.SongCount,
			&sum.AverageRating,
		); err != nil {
			return nil, errors.Wrap(err, "scan playlist summary")
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// GetPlaylist returns one playlist row with its rating aggregate.
// Songs are not attached; use ListSongs.
func (s *Store) GetPlaylist(ctx context.Context, id int64) (*playlist.Playlist, error) {
	var p playlist.Playlist
	err := s.db.QueryRow(ctx, `
		SELECT p.id, p.youtube_playlist_id, p.title, p.description, p.created_at,
			(SELECT AVG(r.rating)::float8 FROM playlist_ratings r
				WHERE r.playlist_id = p.id),
			(SELECT COUNT(*) FROM playlist_ratings r WHERE r.playlist_id = p.id)
		FROM playlists p
		WHERE p.id = $1
	`, id).Scan(
		&p.ID,
		&p.YouTubeID,
		&p.Title,
		&p.Description,
		&p.CreatedAt,
		&p.AverageRating,
		&p.TotalRatings,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "playlist %d", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get playlist")
	}
	return &p, nil
}

// ListSongs returns a playlist's songs in insertion order.
func (s *Store) ListSongs(ctx context.Context, playlistID int64) ([]song.Song, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, playlist_id, youtube_video_id, title, artist, thumbnail_url, duration
		FROM songs
		WHERE playlist_id = $1
		ORDER BY id ASC
	`, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "list songs")
	}
	defer rows.Close()

	songs := []song.Song{}
	for rows.Next() {
		var sg song.Song
		if err := rows.Scan(
			&sg.ID,
			&sg.PlaylistID,
			&sg.VideoID,
			&sg.Title,
			&sg.Artist,
			&sg.ThumbnailURL,
			&sg.Duration,
		); err != nil {
			return nil, errors.Wrap(err, "scan song")
		}
		songs = append(songs, sg)
	}
	return songs, rows.Err()
}

// ListRatings returns all ratings for a playlist.
func (s *Store) ListRatings(ctx context.Context, playlistID int64) ([]rating.Rating, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, playlist_id, rating, created_at
		FROM playlist_ratings
		WHERE playlist_id = $1
		ORDER BY id ASC
	`, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "list ratings")
	}
	defer rows.Close()

	ratings := []rating.Rating{}
	for rows.Next() {
		var r rating.Rating
		if err := rows.Scan(&r.ID, &r.PlaylistID, &r.Value, &r.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan rating")
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// CreatePlaylist inserts a playlist and its songs in one transaction.
func (s *Store) CreatePlaylist(ctx context.Context, youtubeID, title, description string, songs []song.Song) (*playlist.Playlist, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx)

	var p playlist.Playlist
	err = tx.QueryRow(ctx, `
		INSERT INTO playlists (youtube_playlist_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, youtube_playlist_id, title, description, created_at
	`, youtubeID, title, description).Scan(
		&p.ID, &p.YouTubeID, &p.Title, &p.Description, &p.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert playlist")
	}

	p.Songs = make([]song.Song, 0, len(songs))
	for _, sg := range songs {
		inserted, err := insertSong(ctx, tx, p.ID, sg)
		if err != nil {
			return nil, err
		}
		p.Songs = append(p.Songs, inserted)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "commit tx")
	}
	return &p, nil
}

// AddSong appends one song to an existing playlist.
func (s *Store) AddSong(ctx context.Context, playlistID int64, sg song.Song) (song.Song, error) {
	if _, err := s.GetPlaylist(ctx, playlistID); err != nil {
		return song.Song{}, err
	}
	return insertSong(ctx, s.db, playlistID, sg)
}

type execQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertSong(ctx context.Context, q execQuerier, playlistID int64, sg song.Song) (song.Song, error) {
	var out song.Song
	err := q.QueryRow(ctx, `
		INSERT INTO songs (playlist_id, youtube_video_id, title, artist, thumbnail_url, duration)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, playlist_id, youtube_video_id, title, artist, thumbnail_url, duration
	`, playlistID, sg.VideoID, sg.Title, sg.Artist, sg.ThumbnailURL, sg.Duration).Scan(
		&out.ID, &out.PlaylistID, &out.VideoID, &out.Title, &out.Artist, &out.ThumbnailURL, &out.Duration,
	)
	if err != nil {
		return song.Song{}, errors.Wrap(err, "insert song")
	}
	return out, nil
}

// UpdatePlaylist updates a playlist's editable fields.
func (s *Store) UpdatePlaylist(ctx context.Context, id int64, title, description string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE playlists SET title = $1, description = $2 WHERE id = $3
	`, title, description, id)
	if err != nil {
		return errors.Wrap(err, "update playlist")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "playlist %d", id)
	}
	return nil
}

// DeletePlaylist removes a playlist; songs, ratings and comments cascade.
func (s *Store) DeletePlaylist(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete playlist")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "playlist %d", id)
	}
	return nil
}

// GetSong returns one song by id.
func (s *Store) GetSong(ctx context.Context, id int64) (song.Song, error) {
	var sg song.Song
	err := s.db.QueryRow(ctx, `
		SELECT id, playlist_id, youtube_video_id, title, artist, thumbnail_url, duration
		FROM songs
		WHERE id = $1
	`, id).Scan(
		&sg.ID, &sg.PlaylistID, &sg.VideoID, &sg.Title, &sg.Artist, &sg.ThumbnailURL, &sg.Duration,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return song.Song{}, errors.Wrapf(ErrNotFound, "song %d", id)
	}
	if err != nil {
		return song.Song{}, errors.Wrap(err, "get song")
	}
	return sg, nil
}

// UpdateSong updates a song's editable fields.
func (s *Store) UpdateSong(ctx context.Context, id int64, title, artist string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE songs SET title = $1, artist = $2 WHERE id = $3
	`, title, artist, id)
	if err != nil {
		return errors.Wrap(err, "update song")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "song %d", id)
	}
	return nil
}

// DeleteSong removes one song.
func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete song")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "song %d", id)
	}
	return nil
}

// InsertRating stores one rating for (playlist, ip). The unique constraint
// is the authority on duplicates; a violation maps to rating.ErrDuplicate.
func (s *Store) InsertRating(ctx context.Context, playlistID int64, value int, ip string) error {
	if err := rating.Validate(value); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO playlist_ratings (playlist_id, rating, ip_address)
		VALUES ($1, $2, $3)
	`, playlistID, value, ip)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.Wrapf(rating.ErrDuplicate, "playlist %d", playlistID)
		}
		return errors.Wrap(err, "insert rating")
	}
	return nil
}

// HasRated reports whether the given address has rated the playlist.
func (s *Store) HasRated(ctx context.Context, playlistID int64, ip string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM playlist_ratings WHERE playlist_id = $1 AND ip_address = $2
		)
	`, playlistID, ip).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "has rated")
	}
	return exists, nil
}

// DeleteRating removes one rating by id.
func (s *Store) DeleteRating(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM playlist_ratings WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete rating")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "rating %d", id)
	}
	return nil
}

// TopRatedPlaylist is one scoreboard row.
type TopRatedPlaylist struct {
	ID            int64
	YouTubeID     string
	Title         string
	AverageRating float64
	TotalRatings  int
}

// TopRated returns the highest-rated playlists, best first. Playlists with
// no ratings are excluded.
func (s *Store) TopRated(ctx context.Context, limit int) ([]TopRatedPlaylist, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.youtube_playlist_id, p.title,
			AVG(r.rating)::float8, COUNT(r.id)
		FROM playlists p
		JOIN playlist_ratings r ON r.playlist_id = p.id
		GROUP BY p.id, p.youtube_playlist_id, p.title
		ORDER BY AVG(r.rating) DESC, COUNT(r.id) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "top rated")
	}
	defer rows.Close()

	top := []TopRatedPlaylist{}
	for rows.Next() {
		var t TopRatedPlaylist
		if err := rows.Scan(&t.ID, &t.YouTubeID, &t.Title, &t.AverageRating, &t.TotalRatings); err != nil {
			return nil, errors.Wrap(err, "scan top rated")
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

// ListComments returns a playlist's comments, newest first.
func (s *Store) ListComments(ctx context.Context, playlistID int64) ([]comment.Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, playlist_id, content, nickname, created_at
		FROM playlist_comments
		WHERE playlist_id = $1
		ORDER BY created_at DESC, id DESC
	`, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	defer rows.Close()

	comments := []comment.Comment{}
	for rows.Next() {
		var c comment.Comment
		if err := rows.Scan(&c.ID, &c.PlaylistID, &c.Content, &c.Nickname, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan comment")
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// InsertComment appends one comment.
func (s *Store) InsertComment(ctx context.Context, playlistID int64, content, nickname string) (comment.Comment, error) {
	var c comment.Comment
	err := s.db.QueryRow(ctx, `
		INSERT INTO playlist_comments (playlist_id, content, nickname)
		VALUES ($1, $2, $3)
		RETURNING id, playlist_id, content, nickname, created_at
	`, playlistID, content, nickname).Scan(
		&c.ID, &c.PlaylistID, &c.Content, &c.Nickname, &c.CreatedAt,
	)
	if err != nil {
		return comment.Comment{}, errors.Wrap(err, "insert comment")
	}
	return c, nil
}

// UpdateComment replaces a comment's content.
func (s *Store) UpdateComment(ctx context.Context, id int64, content string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE playlist_comments SET content = $1 WHERE id = $2
	`, content, id)
	if err != nil {
		return errors.Wrap(err, "update comment")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "comment %d", id)
	}
	return nil
}

// DeleteComment removes one comment.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM playlist_comments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete comment")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "comment %d", id)
	}
	return nil
}
