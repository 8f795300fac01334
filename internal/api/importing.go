package api

import (
	"encoding/json"
	"net/http"

	"github.com/ariejan/apollo/internal/httpx"
	"github.com/ariejan/apollo/internal/importer"
)

// importRequest is the body accepted by POST /api/import. It mirrors
// importer.Options; unset booleans default to false (an explicit,
// minimal import) and an unset enrich_threshold is 0, rather than taking
// the CLI's defaults (album grouping on, threshold from the config file),
// since an HTTP caller cannot see a config file.
type importRequest struct {
	Roots []string `json:"roots"`
	MaxDepth int `json:"max_depth"`
	FollowSymlinks bool `json:"follow_symlinks"`
	ComputeHashes bool `json:"compute_hashes"`
	Enrich bool `json:"enrich"`
	EnrichThreshold uint8 `json:"enrich_threshold"`
	GroupIntoAlbums bool `json:"group_into_albums"`
	FetchCoverArt bool `json:"fetch_cover_art"`
	WriteTags bool `json:"write_tags"`
}

func (req importRequest) toOptions() importer.Options {
	return importer.Options{
		Roots: req.Roots,
		MaxDepth: req.MaxDepth,
		FollowSymlinks: req.FollowSymlinks,
		ComputeHashes: req.ComputeHashes,
		Enrich: req.Enrich,
		EnrichThreshold: req.EnrichThreshold,
		GroupIntoAlbums: req.GroupIntoAlbums,
		FetchCoverArt: req.FetchCoverArt,
		WriteTags: req.WriteTags,
	}
}

// importResponse reports the terminal result of a run. POST /api/import
// runs synchronously and returns once the pipeline completes; there is no
// streaming transport for this facade, so per-item progress events are
// only available via the CLI's ProgressSink.
type importResponse struct {
	Imported int `json:"imported"`
	Skipped int `json:"skipped"`
	Failed int `json:"failed"`
	Cancelled bool `json:"cancelled"`
	Errors []importer.ItemError `json:"errors,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	if len(req.Roots) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "roots must not be empty")
		return
	}
	result, err := s.imp.Import(r.Context(), req.toOptions(), &importer.Cancel{}, nil)
	if err != nil {
		s.logError(r, "import", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, importResponse{
			Imported: result.Imported,
			Skipped: result.Skipped,
			Failed: result.Failed,
			Cancelled: result.Cancelled,
			Errors: result.Errors,
		})
}
