package api

import (
	"net/http"

	"github.com/ariejan/apollo/internal/httpx"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	if raw == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "missing q parameter")
		return
	}
	ctx := r.Context()
	limit, offset := httpx.ParsePagination(r, s.defaultLimit, s.maxLimit)
	normalized := httpx.NormalizeSearchQuery(raw)
	tracks, err := s.lib.SearchTracks(ctx, normalized, limit, offset)
	if err != nil {
		s.logError(r, "search tracks", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "search failed")
		return
	}
	httpx.WritePage(w, tracks, len(tracks), limit, offset)
}
