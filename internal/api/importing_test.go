package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariejan/apollo/internal/importer"
)

func TestHandleImport_MissingRootsReturns400(t *testing.T) {
	s := newTestServer(newFakeLibrary(), &fakeImporter{})
	body, _ := json.Marshal(importRequest{})
	r := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestHandleImport_RunsAndReportsResult(t *testing.T) {
	imp := &fakeImporter{result: importer.ImportResult{Imported: 4, Skipped: 1}}
	s := newTestServer(newFakeLibrary(), imp)

	body, _ := json.Marshal(importRequest{Roots: []string{"/music"}, Enrich: true})
	r := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	var resp importResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Imported != 4 || resp.Skipped != 1 {
		t.Fatalf("got %+v", resp)
	}
	if !imp.opts.Enrich || imp.opts.Roots[0] != "/music" {
		t.Fatalf("got opts %+v", imp.opts)
	}
}
