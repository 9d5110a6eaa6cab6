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

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	var req addSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	sg, err := s.ingest.AddVideo(r.Context(), id, req.URL)
	switch {
	case errors.Is(err, ingest.ErrBadURL):
		writeError(w, http.StatusBadRequest, "not a youtube video url")
		return
	case errors.Is(err, youtube.ErrNotFound):
		writeError(w, http.StatusNotFound, "video not found on youtube")
		return
	case errors.Is(err, postgres.ErrNotFound):
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	case err != nil:
		zlog.Error().Err(err).Int64("playlist", id).Msg("add song")
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	writeJSON(w, http.StatusCreated, toSongJSON(sg))
}

func (s *Server) handlePatchSong(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	var req patchSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Title == nil && req.Artist == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx := r.Context()
	sg, err := s.store.GetSong(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Int64("song", id).Msg("get song")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	title, artist := sg.Title, sg.Artist
	if req.Title != nil {
		title = *req.Title
	}
	if req.Artist != nil {
		artist = *req.Artist
	}

	if err := s.store.UpdateSong(ctx, id, title, artist); err != nil {
		zlog.Error().Err(err).Int64("song", id).Msg("update song")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	err = s.store.DeleteSong(r.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Int64("song", id).Msg("delete song")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
