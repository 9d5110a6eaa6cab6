package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AutoMigrate creates the schema if it does not exist yet.
func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS playlists (
			id                  BIGSERIAL PRIMARY KEY,
			youtube_playlist_id TEXT NOT NULL,
			title               TEXT NOT NULL,
			description         TEXT NOT NULL DEFAULT '',
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			id               BIGSERIAL PRIMARY KEY,
			playlist_id      BIGINT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			youtube_video_id TEXT NOT NULL,
			title            TEXT NOT NULL,
			artist           TEXT NOT NULL DEFAULT '',
			thumbnail_url    TEXT NOT NULL DEFAULT '',
			duration         TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_playlist ON songs(playlist_id)`,
		`CREATE TABLE IF NOT EXISTS playlist_ratings (
			id          BIGSERIAL PRIMARY KEY,
			playlist_id BIGINT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			rating      INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			ip_address  TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (playlist_id, ip_address)
		)`,
		`CREATE TABLE IF NOT EXISTS playlist_comments (
			id          BIGSERIAL PRIMARY KEY,
			playlist_id BIGINT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			content     TEXT NOT NULL,
			nickname    TEXT NOT NULL DEFAULT 'Anonymous',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_playlist ON playlist_comments(playlist_id, created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}
