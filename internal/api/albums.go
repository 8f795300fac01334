package api

import (
	"errors"
	"net/http"

	"github.com/ariejan/apollo/internal/httpx"
	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/storage"
)

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, offset := httpx.ParsePagination(r, s.defaultLimit, s.maxLimit)
	total, err := s.lib.CountAlbums(ctx)
	if err != nil {
		s.logError(r, "count albums", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to count albums")
		return
	}
	albums, err := s.lib.ListAlbums(ctx, limit, offset)
	if err != nil {
		s.logError(r, "list albums", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to list albums")
		return
	}
	httpx.WritePage(w, albums, total, limit, offset)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseAlbumID(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid album id")
		return
	}
	album, err := s.lib.GetAlbum(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "album not found")
			return
		}
		s.logError(r, "get album", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to get album")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, album)
}

func (s *Server) handleAlbumTracks(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseAlbumID(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid album id")
		return
	}
	ctx := r.Context()
	if _, err := s.lib.GetAlbum(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "album not found")
			return
		}
		s.logError(r, "get album", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to get album")
		return
	}
	tracks, err := s.lib.QueryTracks(ctx, storage.Filter{Where: "album_id = ?", Args: []any{id.String()}}, model.SortAlbum, 0)
	if err != nil {
		s.logError(r, "query album tracks", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to list album tracks")
		return
	}
	httpx.WritePage(w, tracks, len(tracks), len(tracks), 0)
}
