package api

import (
	"errors"
	"net/http"

	"github.com/ariejan/apollo/internal/httpx"
	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/storage"
)

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, offset := httpx.ParsePagination(r, s.defaultLimit, s.maxLimit)
	total, err := s.lib.CountTracks(ctx)
	if err != nil {
		s.logError(r, "count tracks", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to count tracks")
		return
	}
	tracks, err := s.lib.ListTracks(ctx, limit, offset)
	if err != nil {
		s.logError(r, "list tracks", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to list tracks")
		return
	}
	httpx.WritePage(w, tracks, total, limit, offset)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseTrackID(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid track id")
		return
	}
	track, err := s.lib.GetTrack(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "track not found")
			return
		}
		s.logError(r, "get track", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to get track")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, track)
}
