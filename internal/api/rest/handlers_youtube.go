package rest

import (
	"net/http"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Balogunolalere/myoozik/internal/infra/youtube"
)

func (s *Server) handleYouTubePlaylist(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	meta, err := s.ingest.LookupPlaylist(r.Context(), id)
	if errors.Is(err, youtube.ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found on youtube")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Str("playlist", id).Msg("youtube playlist lookup")
		writeError(w, http.StatusBadGateway, "youtube lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleYouTubeVideo(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	meta, err := s.ingest.LookupVideo(r.Context(), id)
	if errors.Is(err, youtube.ErrNotFound) {
		writeError(w, http.StatusNotFound, "video not found on youtube")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Str("video", id).Msg("youtube video lookup")
		writeError(w, http.StatusBadGateway, "youtube lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}
