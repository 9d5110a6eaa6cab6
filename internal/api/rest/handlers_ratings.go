package rest

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Balogunolalere/myoozik/internal/domain/rating"
	"github.com/Balogunolalere/myoozik/internal/infra/postgres"
)

// codeAlreadyRated is the distinguished error code the client converges on.
const codeAlreadyRated = "already_rated"

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	err = s.store.InsertRating(r.Context(), id, req.Rating, clientIP(r))
	switch {
	case errors.Is(err, rating.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	case errors.Is(err, rating.ErrDuplicate):
		writeError(w, http.StatusConflict, codeAlreadyRated)
		return
	case err != nil:
		zlog.Error().Err(err).Int64("playlist", id).Msg("insert rating")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "rated"})
}

func (s *Server) handleRated(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	rated, err := s.store.HasRated(r.Context(), id, clientIP(r))
	if err != nil {
		zlog.Error().Err(err).Int64("playlist", id).Msg("rated lookup")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, ratedJSON{Rated: rated})
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rating id")
		return
	}

	err = s.store.DeleteRating(r.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, http.StatusNotFound, "rating not found")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Int64("rating", id).Msg("delete rating")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleTopRated(w http.ResponseWriter, r *http.Request) {
	top, err := s.store.TopRated(r.Context(), topRatedLimit)
	if err != nil {
		zlog.Error().Err(err).Msg("top rated")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	out := make([]TopPlaylist, len(top))
	for i, t := range top {
		out[i] = toTopRatedJSON(t)
	}
	writeJSON(w, http.StatusOK, out)
}
