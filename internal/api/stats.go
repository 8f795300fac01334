package api

import (
	"net/http"

	"github.com/ariejan/apollo/internal/httpx"
)

type healthBody struct {
	Status string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, healthBody{Status: "ok", Version: version})
}

type statsBody struct {
	Tracks int `json:"tracks"`
	Albums int `json:"albums"`
	Playlists int `json:"playlists"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracks, err := s.lib.CountTracks(ctx)
	if err != nil {
		s.logError(r, "count tracks", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to count tracks")
		return
	}
	albums, err := s.lib.CountAlbums(ctx)
	if err != nil {
		s.logError(r, "count albums", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to count albums")
		return
	}
	playlists, err := s.lib.CountPlaylists(ctx)
	if err != nil {
		s.logError(r, "count playlists", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to count playlists")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, statsBody{Tracks: tracks, Albums: albums, Playlists: playlists})
}
