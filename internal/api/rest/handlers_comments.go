package rest

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Balogunolalere/myoozik/internal/domain/comment"
	"github.com/Balogunolalere/myoozik/internal/infra/postgres"
)

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	comments, err := s.store.ListComments(r.Context(), id)
	if err != nil {
		zlog.Error().Err(err).Int64("playlist", id).Msg("list comments")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	out := make([]commentJSON, len(comments))
	for i, c := range comments {
		out[i] = toCommentJSON(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	content := comment.NormalizeContent(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	nickname := comment.NormalizeNickname(req.Nickname)

	c, err := s.store.InsertComment(r.Context(), id, content, nickname)
	if err != nil {
		zlog.Error().Err(err).Int64("playlist", id).Msg("insert comment")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusCreated, toCommentJSON(c))
}

func (s *Server) handlePatchComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req patchCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	content := comment.NormalizeContent(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	err = s.store.UpdateComment(r.Context(), id, content)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Int64("comment", id).Msg("update comment")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	err = s.store.DeleteComment(r.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}
	if err != nil {
		zlog.Error().Err(err).Int64("comment", id).Msg("delete comment")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
