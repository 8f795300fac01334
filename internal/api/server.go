// Package api implements Apollo's HTTP/JSON facade: health and stats
// endpoints, read-only track/album/search endpoints, playlist CRUD and
// membership, and the import trigger. Handlers are grouped per resource,
// the same layout CineVault's internal/api uses for handlers_tracks.go-
// style files around a shared Server type.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ariejan/apollo/internal/importer"
	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/storage"
)

// version is reported by GET /health. Set at build time in a real
// release pipeline; a literal here matches what a single-binary CLI tool
// ships without a separate version-injection mechanism.
const version = "0.1.0"

// Library is the subset of *storage.DB (plus the import orchestrator) the
// HTTP facade depends on, so handlers are testable against a fake without
// opening a real database, the same narrow-interface habit used by
// internal/playlist.Store and internal/importer.Store.
type Library interface {
	GetTrack(ctx context.Context, id model.TrackID) (model.Track, error)
	ListTracks(ctx context.Context, limit, offset int) ([]model.Track, error)
	CountTracks(ctx context.Context) (int, error)
	SearchTracks(ctx context.Context, queryString string, limit, offset int) ([]model.Track, error)
	QueryTracks(ctx context.Context, filter storage.Filter, sort model.SortOrder, limit int) ([]model.Track, error)

	GetAlbum(ctx context.Context, id model.AlbumID) (model.Album, error)
	ListAlbums(ctx context.Context, limit, offset int) ([]model.Album, error)
	CountAlbums(ctx context.Context) (int, error)

	GetPlaylist(ctx context.Context, id model.PlaylistID) (model.Playlist, error)
	ListPlaylists(ctx context.Context, limit, offset int) ([]model.Playlist, error)
	CountPlaylists(ctx context.Context) (int, error)
	AddPlaylist(ctx context.Context, p model.Playlist) error
	UpdatePlaylist(ctx context.Context, p model.Playlist) error
	RemovePlaylist(ctx context.Context, id model.PlaylistID) error
	ListPlaylistTracks(ctx context.Context, playlistID model.PlaylistID) ([]model.Track, error)
	AddTrackToPlaylist(ctx context.Context, playlistID model.PlaylistID, trackID model.TrackID) error
	RemoveTrackFromPlaylist(ctx context.Context, playlistID model.PlaylistID, trackID model.TrackID) error
}

// Importer is the subset of *importer.Importer the /api/import endpoint
// drives.
type Importer interface {
	Import(ctx context.Context, opts importer.Options, cancel *importer.Cancel, sink importer.ProgressSink) (importer.ImportResult, error)
}

// Server wires a Library and Importer into an http.Handler exposing the
// route table registered in routes().
type Server struct {
	lib Library
	imp Importer
	log *slog.Logger
	defaultLimit int
	maxLimit int

	mux *http.ServeMux
}

// Config carries the pagination defaults from internal/config.WebConfig
// without creating an import-cycle dependency on the config package.
type Config struct {
	DefaultLimit int
	MaxLimit int
}

// NewServer builds a Server and registers all routes.
func NewServer(lib Library, imp Importer, log *slog.Logger, cfg Config) *Server {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 500
	}
	s := &Server{
		lib: lib,
		imp: imp,
		log: log,
		defaultLimit: cfg.DefaultLimit,
		maxLimit: cfg.MaxLimit,
		mux: http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)

	s.mux.HandleFunc("GET /api/tracks", s.handleListTracks)
	s.mux.HandleFunc("GET /api/tracks/{id}", s.handleGetTrack)

	s.mux.HandleFunc("GET /api/albums", s.handleListAlbums)
	s.mux.HandleFunc("GET /api/albums/{id}", s.handleGetAlbum)
	s.mux.HandleFunc("GET /api/albums/{id}/tracks", s.handleAlbumTracks)

	s.mux.HandleFunc("GET /api/search", s.handleSearch)

	s.mux.HandleFunc("GET /api/playlists", s.handleListPlaylists)
	s.mux.HandleFunc("POST /api/playlists", s.handleCreatePlaylist)
	s.mux.HandleFunc("GET /api/playlists/{id}", s.handleGetPlaylist)
	s.mux.HandleFunc("PATCH /api/playlists/{id}", s.handleUpdatePlaylist)
	s.mux.HandleFunc("DELETE /api/playlists/{id}", s.handleDeletePlaylist)
	s.mux.HandleFunc("GET /api/playlists/{id}/tracks", s.handlePlaylistTracks)
	s.mux.HandleFunc("POST /api/playlists/{id}/tracks", s.handleAddPlaylistTrack)
	s.mux.HandleFunc("DELETE /api/playlists/{id}/tracks", s.handleRemovePlaylistTrack)

	s.mux.HandleFunc("POST /api/import", s.handleImport)
}

func (s *Server) logError(r *http.Request, msg string, err error) {
	if s.log == nil {
		return
	}
	s.log.Error(msg, "path", r.URL.Path, "error", err)
}
