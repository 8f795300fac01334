package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ariejan/apollo/internal/httpx"
	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/query"
	"github.com/ariejan/apollo/internal/storage"
)

// playlistDTO is the wire shape of a model.Playlist. Query is rendered as
// the text form query.String produces rather than the raw AST, since
// query.Query is a closed interface over several struct variants with no
// natural JSON encoding of its own.
type playlistDTO struct {
	ID string `json:"id"`
	Name string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind string `json:"kind"`
	TrackIDs []string `json:"track_ids,omitempty"`
	Query string `json:"query,omitempty"`
	Sort string `json:"sort,omitempty"`
	MaxTracks int `json:"max_tracks,omitempty"`
	MaxDurationSecs int `json:"max_duration_secs,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

func toPlaylistDTO(p model.Playlist) playlistDTO {
	dto := playlistDTO{
		ID: p.ID.String(),
		Name: p.Name,
		Description: p.Description,
		Kind: string(p.Kind),
		Sort: string(p.Sort),
		CreatedAt: p.CreatedAt,
		ModifiedAt: p.ModifiedAt,
	}
	for _, id := range p.TrackIDs {
		dto.TrackIDs = append(dto.TrackIDs, id.String())
	}
	if p.Query != nil {
		dto.Query = query.String(p.Query)
	}
	if p.HasMaxTracks {
		dto.MaxTracks = p.MaxTracks
	}
	if p.HasMaxDuration {
		dto.MaxDurationSecs = p.MaxDurationSecs
	}
	return dto
}

// playlistRequest is the body accepted by POST/PATCH /api/playlists.
type playlistRequest struct {
	Name string `json:"name"`
	Description string `json:"description"`
	Kind string `json:"kind"`
	TrackIDs []string `json:"track_ids"`
	Query string `json:"query"`
	Sort string `json:"sort"`
	MaxTracks int `json:"max_tracks"`
	MaxDurationSecs int `json:"max_duration_secs"`
}

func (req playlistRequest) toModel() (model.Playlist, error) {
	p := model.Playlist{
		Name: req.Name,
		Description: req.Description,
		Kind: model.PlaylistKind(req.Kind),
		Sort: model.SortOrder(req.Sort),
	}
	for _, idStr := range req.TrackIDs {
		id, err := model.ParseTrackID(idStr)
		if err != nil {
			return model.Playlist{}, err
		}
		p.TrackIDs = append(p.TrackIDs, id)
	}
	if req.Query != "" {
		q, err := query.Parse(req.Query)
		if err != nil {
			return model.Playlist{}, err
		}
		p.Query = q
	}
	if req.MaxTracks > 0 {
		p.MaxTracks = req.MaxTracks
		p.HasMaxTracks = true
	}
	if req.MaxDurationSecs > 0 {
		p.MaxDurationSecs = req.MaxDurationSecs
		p.HasMaxDuration = true
	}
	return p, nil
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, offset := httpx.ParsePagination(r, s.defaultLimit, s.maxLimit)
	total, err := s.lib.CountPlaylists(ctx)
	if err != nil {
		s.logError(r, "count playlists", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to count playlists")
		return
	}
	playlists, err := s.lib.ListPlaylists(ctx, limit, offset)
	if err != nil {
		s.logError(r, "list playlists", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to list playlists")
		return
	}
	dtos := make([]playlistDTO, len(playlists))
	for i, p := range playlists {
		dtos[i] = toPlaylistDTO(p)
	}
	httpx.WritePage(w, dtos, total, limit, offset)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParsePlaylistID(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid playlist id")
		return
	}
	p, err := s.lib.GetPlaylist(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "playlist not found")
			return
		}
		s.logError(r, "get playlist", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to get playlist")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPlaylistDTO(p))
}

func (s *Server) handlePlaylistTracks(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParsePlaylistID(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid playlist id")
		return
	}
	ctx := r.Context()
	p, err := s.lib.GetPlaylist(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "playlist not found")
			return
		}
		s.logError(r, "get playlist", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to get playlist")
		return
	}
	tracks, err := s.lib.ListPlaylistTracks(ctx, p.ID)
	if err != nil {
		s.logError(r, "list playlist tracks", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to list playlist tracks")
		return
	}
	httpx.WritePage(w, tracks, len(tracks), len(tracks), 0)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	p, err := req.toModel()
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	p.ID = model.NewPlaylistID()
	now := time.Now()
	p.CreatedAt = now
	p.ModifiedAt = now
	if err := p.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := s.lib.AddPlaylist(r.Context(), p); err != nil {
		s.logError(r, "add playlist", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to create playlist")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPlaylistDTO(p))
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParsePlaylistID(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid playlist id")
		return
	}
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	p, err := req.toModel()
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	p.ID = id
	p.ModifiedAt = time.Now()
	if err := p.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	ctx := r.Context()
	if err := s.lib.UpdatePlaylist(ctx, p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "playlist not found")
			return
		}
		s.logError(r, "update playlist", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to update playlist")
		return
	}
	updated, err := s.lib.GetPlaylist(ctx, id)
	if err != nil {
		s.logError(r, "get playlist after update", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to reload playlist")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPlaylistDTO(updated))
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParsePlaylistID(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid playlist id")
		return
	}
	if err := s.lib.RemovePlaylist(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "playlist not found")
			return
		}
		s.logError(r, "remove playlist", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to delete playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type trackMembershipRequest struct {
	TrackID string `json:"track_id"`
}

func (s *Server) handleAddPlaylistTrack(w http.ResponseWriter, r *http.Request) {
	s.mutatePlaylistMembership(w, r, s.lib.AddTrackToPlaylist)
}

func (s *Server) handleRemovePlaylistTrack(w http.ResponseWriter, r *http.Request) {
	s.mutatePlaylistMembership(w, r, s.lib.RemoveTrackFromPlaylist)
}

func (s *Server) mutatePlaylistMembership(w http.ResponseWriter, r *http.Request, op func(context.Context, model.PlaylistID, model.TrackID) error) {
	playlistID, err := model.ParsePlaylistID(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid playlist id")
		return
	}
	var req trackMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	trackID, err := model.ParseTrackID(req.TrackID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid track id")
		return
	}
	if err := op(r.Context(), playlistID, trackID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "playlist or track not found")
		case errors.Is(err, storage.ErrSmartPlaylistMembership):
			httpx.WriteError(w, http.StatusConflict, "conflict", err.Error())
		default:
			s.logError(r, "playlist membership", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to update playlist membership")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
