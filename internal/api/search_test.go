package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ariejan/apollo/internal/model"
)

func TestHandleSearch_MissingQueryReturns400(t *testing.T) {
	s := newTestServer(newFakeLibrary(), &fakeImporter{})
	r := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestHandleSearch_ReturnsMatches(t *testing.T) {
	lib := newFakeLibrary()
	lib.searchResults = []model.Track{{ID: model.NewTrackID(), Title: "Weird Fishes"}}
	s := newTestServer(lib, &fakeImporter{})

	r := httptest.NewRequest(http.MethodGet, "/api/search?q=weird", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Weird Fishes") {
		t.Fatalf("got body %q", w.Body.String())
	}
}
