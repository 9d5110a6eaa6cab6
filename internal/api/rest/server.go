// Package rest exposes the playlist service as a JSON HTTP API and
// provides a typed client for it.
package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Balogunolalere/myoozik/internal/domain/comment"
	"github.com/Balogunolalere/myoozik/internal/domain/playlist"
	"github.com/Balogunolalere/myoozik/internal/domain/song"
	"github.com/Balogunolalere/myoozik/internal/infra/postgres"
	"github.com/Balogunolalere/myoozik/internal/infra/youtube"
)

// Store is the persistence surface the handlers need. Satisfied by
// postgres.Store.
type Store interface {
	ListPlaylists(ctx context.Context) ([]playlist.Summary, error)
	GetPlaylist(ctx context.Context, id int64) (*playlist.Playlist, error)
	UpdatePlaylist(ctx context.Context, id int64, title, description string) error
	DeletePlaylist(ctx context.Context, id int64) error

	ListSongs(ctx context.Context, playlistID int64) ([]song.Song, error)
	GetSong(ctx context.Context, id int64) (song.Song, error)
	UpdateSong(ctx context.Context, id int64, title, artist string) error
	DeleteSong(ctx context.Context, id int64) error

	InsertRating(ctx context.Context, playlistID int64, value int, ip string) error
	HasRated(ctx context.Context, playlistID int64, ip string) (bool, error)
	DeleteRating(ctx context.Context, id int64) error
	TopRated(ctx context.Context, limit int) ([]postgres.TopRatedPlaylist, error)

	ListComments(ctx context.Context, playlistID int64) ([]comment.Comment, error)
	InsertComment(ctx context.Context, playlistID int64, content, nickname string) (comment.Comment, error)
	UpdateComment(ctx context.Context, id int64, content string) error
	DeleteComment(ctx context.Context, id int64) error
}

// Ingester imports playlists and videos from YouTube. Satisfied by
// ingest.Service.
type Ingester interface {
	AddPlaylist(ctx context.Context, rawURL string) (*playlist.Playlist, error)
	AddVideo(ctx context.Context, playlistID int64, rawURL string) (song.Song, error)
	LookupPlaylist(ctx context.Context, playlistID string) (*youtube.Playlist, error)
	LookupVideo(ctx context.Context, videoID string) (*youtube.Video, error)
}

// topRatedLimit caps the scoreboard size.
const topRatedLimit = 3

// Server holds the HTTP handlers.
type Server struct {
	store  Store
	ingest Ingester
}

// NewServer creates a Server.
func NewServer(store Store, ingest Ingester) *Server {
	return &Server{store: store, ingest: ingest}
}

// Router builds the route tree.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger)
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/playlists", s.handleListPlaylists)
		r.Post("/playlists", s.handleIngestPlaylist)
		r.Get("/playlists/{id}", s.handleGetPlaylist)
		r.Patch("/playlists/{id}", s.handlePatchPlaylist)
		r.Delete("/playlists/{id}", s.handleDeletePlaylist)

		r.Post("/playlists/{id}/songs", s.handleAddSong)
		r.Patch("/songs/{id}", s.handlePatchSong)
		r.Delete("/songs/{id}", s.handleDeleteSong)

		r.Get("/playlists/{id}/comments", s.handleListComments)
		r.Post("/playlists/{id}/comments", s.handleAddComment)
		r.Patch("/comments/{id}", s.handlePatchComment)
		r.Delete("/comments/{id}", s.handleDeleteComment)

		r.Post("/playlists/{id}/rating", s.handleRate)
		r.Get("/playlists/{id}/rated", s.handleRated)
		r.Delete("/ratings/{id}", s.handleDeleteRating)
		r.Get("/ratings/top", s.handleTopRated)

		r.Get("/youtube/playlist", s.handleYouTubePlaylist)
		r.Get("/youtube/video", s.handleYouTubeVideo)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
