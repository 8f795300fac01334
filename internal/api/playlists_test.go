package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/storage"
)

func TestHandleCreatePlaylist_StaticPlaylistRoundTrips(t *testing.T) {
	lib := newFakeLibrary()
	trackID := model.NewTrackID()
	lib.tracks[trackID] = model.Track{ID: trackID, Title: "Nude"}
	s := newTestServer(lib, &fakeImporter{})

	body, _ := json.Marshal(playlistRequest{
			Name: "Favorites",
			Kind: string(model.PlaylistStatic),
			TrackIDs: []string{trackID.String()},
		})
	r := httptest.NewRequest(http.MethodPost, "/api/playlists", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	var dto playlistDTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatal(err)
	}
	if dto.Name != "Favorites" || len(dto.TrackIDs) != 1 {
		t.Fatalf("got %+v", dto)
	}
}

func TestHandleCreatePlaylist_SmartPlaylistParsesQuery(t *testing.T) {
	s := newTestServer(newFakeLibrary(), &fakeImporter{})
	body, _ := json.Marshal(playlistRequest{
			Name: "Rock",
			Kind: string(model.PlaylistSmart),
			Query: "genre:rock",
			Sort: string(model.SortArtist),
		})
	r := httptest.NewRequest(http.MethodPost, "/api/playlists", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	var dto playlistDTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatal(err)
	}
	if dto.Query != "genre:rock" {
		t.Fatalf("got query %q", dto.Query)
	}
}

func TestHandleCreatePlaylist_StaticWithQueryIsRejected(t *testing.T) {
	s := newTestServer(newFakeLibrary(), &fakeImporter{})
	body, _ := json.Marshal(playlistRequest{
			Name: "Bad",
			Kind: string(model.PlaylistStatic),
			Query: "genre:rock",
		})
	r := httptest.NewRequest(http.MethodPost, "/api/playlists", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestHandleDeletePlaylist_ReturnsNoContent(t *testing.T) {
	lib := newFakeLibrary()
	id := model.NewPlaylistID()
	lib.playlists[id] = model.Playlist{ID: id, Name: "Old", Kind: model.PlaylistStatic}
	s := newTestServer(lib, &fakeImporter{})

	r := httptest.NewRequest(http.MethodDelete, "/api/playlists/"+id.String(), nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d", w.Code)
	}
	if _, ok := lib.playlists[id]; ok {
		t.Fatal("expected playlist to be removed")
	}
}

func TestHandleDeletePlaylist_UnknownIDReturns404(t *testing.T) {
	s := newTestServer(newFakeLibrary(), &fakeImporter{})
	r := httptest.NewRequest(http.MethodDelete, "/api/playlists/"+model.NewPlaylistID().String(), nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestHandleAddPlaylistTrack_SmartPlaylistConflict(t *testing.T) {
	lib := newFakeLibrary()
	lib.addTrackErr = storage.ErrSmartPlaylistMembership
	id := model.NewPlaylistID()
	lib.playlists[id] = model.Playlist{ID: id, Kind: model.PlaylistSmart}
	s := newTestServer(lib, &fakeImporter{})

	body, _ := json.Marshal(trackMembershipRequest{TrackID: model.NewTrackID().String()})
	r := httptest.NewRequest(http.MethodPost, "/api/playlists/"+id.String()+"/tracks", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleAddPlaylistTrack_Success(t *testing.T) {
	lib := newFakeLibrary()
	id := model.NewPlaylistID()
	lib.playlists[id] = model.Playlist{ID: id, Kind: model.PlaylistStatic}
	s := newTestServer(lib, &fakeImporter{})

	body, _ := json.Marshal(trackMembershipRequest{TrackID: model.NewTrackID().String()})
	r := httptest.NewRequest(http.MethodPost, "/api/playlists/"+id.String()+"/tracks", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
}
