package rest

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Balogunolalere/myoozik/internal/app/ingest"
	"github.com/Balogunolalere/myoozik/internal/infra/postgres"
	"github.com/Balogunolalere/myoozik/internal/infra/youtube"
)

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListPlaylists(r.Context())
	if err != nil {
		zlog.Error().Err(err).Msg("list playlists")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	out := make([]playlistSummaryJSON, len(summaries))
	for i, sum := range summaries {
		out[i] = toSummaryJSON(sum)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleIngestPlaylist(w http.ResponseWriter, r *http.Request) {
	var req ingestPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	p, err := s.ingest.AddPlaylist(r.Context(), req.URL)
	switch {
	case errors.Is(err, ingest.ErrBadURL):
		writeError(w, http.StatusBadRequest, "not a youtube playlist url")
		return
	case errors.Is(err, youtube.ErrNotFound):
		writeError(w, http.StatusNotFound, "playlist not found on youtube")
		return
	case err != nil:
		zlog.Error().Err(err).Str("url", req.URL).Msg("ingest playlist")
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	writeJSON(w, http.StatusCreated, toPlaylistJSON(p))
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	ctx := r.Context()
	p, err := s.store.GetPlaylist(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Int64("playlist", id).Msg("get playlist")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	songs, err := s.store.ListSongs(ctx, id)
	if err != nil {
		zlog.Error().Err(err).Int64("playlist", id).Msg("list songs")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	p.Songs = songs

	writeJSON(w, http.StatusOK, toPlaylistJSON(p))
}

func (s *Server) handlePatchPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	var req patchPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Title == nil && req.Description == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx := r.Context()
	p, err := s.store.GetPlaylist(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Int64("playlist", id).Msg("get playlist")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	title, description := p.Title, p.Description
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}

	if err := s.store.UpdatePlaylist(ctx, id, title, description); err != nil {
		zlog.Error().Err(err).Int64("playlist", id).Msg("update playlist")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	err = s.store.DeletePlaylist(r.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Int64("playlist", id).Msg("delete playlist")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
