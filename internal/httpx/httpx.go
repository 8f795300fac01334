// Package httpx holds the small set of response-envelope and pagination
// helpers shared by internal/api's handlers, the same helper-method idiom
// CineVault's internal/api.Server keeps alongside its handlers rather
// than duplicating per file.
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// ErrorBody is the JSON shape returned on non-2xx responses.
type ErrorBody struct {
	Error string `json:"error"`
	Message string `json:"message"`
}

// Page is the JSON shape returned by paginated list endpoints.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Limit int `json:"limit"`
	Offset int `json:"offset"`
}

// WriteJSON encodes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorBody with the given status code. errCode is a
// short machine-readable tag (e.g. "bad_request", "not_found"); message is
// the human-readable detail.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteJSON(w, status, ErrorBody{Error: errCode, Message: message})
}

// WritePage writes a Page envelope with status 200.
func WritePage[T any](w http.ResponseWriter, items []T, total, limit, offset int) {
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, http.StatusOK, Page[T]{Items: items, Total: total, Limit: limit, Offset: offset})
}

// ParsePagination reads the limit and offset query parameters. limit
// defaults to defaultLimit and is capped at maxLimit; offset defaults to
// 0. Malformed or negative values fall back to the default rather than
// erroring, matching a tolerant list endpoint.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset = 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// NormalizeSearchQuery implements the search query string rule: a raw
// query already using full-text syntax (containing ':', '"', or '*') is
// passed through unchanged; otherwise each whitespace-delimited token is
// treated as a prefix match by appending '*'.
func NormalizeSearchQuery(raw string) string {
	if strings.ContainsAny(raw, `:"*`) {
		return raw
	}
	fields := strings.Fields(raw)
	for i, f := range fields {
		fields[i] = f + "*"
	}
	return strings.Join(fields, " ")
}
