package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParsePagination_DefaultsWhenAbsent(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/tracks", nil)
	limit, offset := ParsePagination(r, 50, 500)
	if limit != 50 || offset != 0 {
		t.Fatalf("got limit=%d offset=%d", limit, offset)
	}
}

func TestParsePagination_CapsLimitAtMax(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/tracks?limit=10000", nil)
	limit, _ := ParsePagination(r, 50, 500)
	if limit != 500 {
		t.Fatalf("got limit=%d, want capped at 500", limit)
	}
}

func TestParsePagination_ReadsLimitAndOffset(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/tracks?limit=25&offset=100", nil)
	limit, offset := ParsePagination(r, 50, 500)
	if limit != 25 || offset != 100 {
		t.Fatalf("got limit=%d offset=%d", limit, offset)
	}
}

func TestParsePagination_IgnoresMalformedValues(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/tracks?limit=abc&offset=-5", nil)
	limit, offset := ParsePagination(r, 50, 500)
	if limit != 50 || offset != 0 {
		t.Fatalf("got limit=%d offset=%d, want defaults", limit, offset)
	}
}

func TestNormalizeSearchQuery_PassesThroughFullTextSyntax(t *testing.T) {
	cases := []string{`genre:rock`, `"exact phrase"`, `jaz*`}
	for _, c := range cases {
		if got := NormalizeSearchQuery(c); got != c {
			t.Fatalf("NormalizeSearchQuery(%q) = %q, want unchanged", c, got)
		}
	}
}

func TestNormalizeSearchQuery_AppendsPrefixWildcardToBareTokens(t *testing.T) {
	got := NormalizeSearchQuery("miles davis")
	want := "miles* davis*"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeSearchQuery_EmptyStringStaysEmpty(t *testing.T) {
	if got := NormalizeSearchQuery(""); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteError_WritesStatusAndBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusNotFound, "not_found", "track not found")
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("got content-type %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"error":"not_found"`) || !strings.Contains(body, `"message":"track not found"`) {
		t.Fatalf("got body %q", body)
	}
}

func TestWritePage_EmptyItemsEncodesAsEmptyArrayNotNull(t *testing.T) {
	w := httptest.NewRecorder()
	WritePage[string](w, nil, 0, 50, 0)
	body := w.Body.String()
	if !strings.Contains(body, `"items":[]`) || !strings.Contains(body, `"total":0`) {
		t.Fatalf("got body %q", body)
	}
}
