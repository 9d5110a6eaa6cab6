// Package ingest turns YouTube URLs into stored playlists and songs.
package ingest

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Balogunolalere/myoozik/internal/domain/playlist"
	"github.com/Balogunolalere/myoozik/internal/domain/song"
	"github.com/Balogunolalere/myoozik/internal/infra/cache"
	"github.com/Balogunolalere/myoozik/internal/infra/youtube"
)

// Errors
var (
	ErrBadURL = errors.New("unrecognized youtube url")
)

// MetadataSource supplies YouTube metadata. Satisfied by youtube.Client.
type MetadataSource interface {
	GetPlaylist(ctx context.Context, playlistID string) (*youtube.Playlist, error)
	GetVideo(ctx context.Context, videoID string) (*youtube.Video, error)
}

// Repository persists ingested playlists and songs. Satisfied by
// postgres.Store.
type Repository interface {
	CreatePlaylist(ctx context.Context, youtubeID, title, description string, songs []song.Song) (*playlist.Playlist, error)
	AddSong(ctx context.Context, playlistID int64, sg song.Song) (song.Song, error)
}

// Service resolves YouTube URLs, fetches metadata through a cache, and
// persists the result.
type Service struct {
	source MetadataSource
	repo   Repository
	cache  cache.Cache
}

// New creates an ingest service.
func New(source MetadataSource, repo Repository, c cache.Cache) *Service {
	return &Service{source: source, repo: repo, cache: c}
}

// AddPlaylist imports the playlist behind a YouTube URL: metadata and all
// videos are fetched and stored in one transaction.
func (s *Service) AddPlaylist(ctx context.Context, rawURL string) (*playlist.Playlist, error) {
	playlistID := youtube.ExtractPlaylistID(rawURL)
	if playlistID == "" {
		return nil, errors.Wrapf(ErrBadURL, "no playlist id in %q", rawURL)
	}

	meta, err := s.LookupPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	songs := make([]song.Song, 0, len(meta.Videos))
	for _, v := range meta.Videos {
		songs = append(songs, song.Song{
			VideoID:      v.ID,
			Title:        v.Title,
			Artist:       v.Artist,
			ThumbnailURL: v.ThumbnailURL,
			Duration:     v.Duration,
		})
	}

	p, err := s.repo.CreatePlaylist(ctx, meta.ID, meta.Title, meta.Description, songs)
	if err != nil {
		return nil, err
	}

	zlog.Info().
		Int64("playlist", p.ID).
		Str("youtube_id", meta.ID).
		Int("songs", len(songs)).
		Msg("playlist imported")
	return p, nil
}

// AddVideo appends the video behind a YouTube URL to an existing playlist.
func (s *Service) AddVideo(ctx context.Context, playlistID int64, rawURL string) (song.Song, error) {
	videoID := youtube.ExtractVideoID(rawURL)
	if videoID == "" {
		return song.Song{}, errors.Wrapf(ErrBadURL, "no video id in %q", rawURL)
	}

	meta, err := s.LookupVideo(ctx, videoID)
	if err != nil {
		return song.Song{}, err
	}

	sg, err := s.repo.AddSong(ctx, playlistID, song.Song{
		VideoID:      meta.ID,
		Title:        meta.Title,
		Artist:       meta.Artist,
		ThumbnailURL: meta.ThumbnailURL,
		Duration:     meta.Duration,
	})
	if err != nil {
		return song.Song{}, err
	}

	zlog.Info().
		Int64("playlist", playlistID).
		Str("video", meta.ID).
		Msg("song added")
	return sg, nil
}

// LookupPlaylist returns playlist metadata, served from cache when present.
// Cache failures are logged and bypassed.
func (s *Service) LookupPlaylist(ctx context.Context, playlistID string) (*youtube.Playlist, error) {
	key := "yt:playlist:" + playlistID

	var cached youtube.Playlist
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	meta, err := s.source.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, meta)
	return meta, nil
}

// LookupVideo returns video metadata, served from cache when present.
func (s *Service) LookupVideo(ctx context.Context, videoID string) (*youtube.Video, error) {
	key := "yt:video:" + videoID

	var cached youtube.Video
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	meta, err := s.source.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, meta)
	return meta, nil
}

func (s *Service) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, val any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
