// Package acoustid implements a fingerprint client against the real
// AcoustID web service.
package acoustid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ariejan/apollo/internal/sources"
	"github.com/ariejan/apollo/internal/sources/ratelimit"
)

const apiBase = "https://api.acoustid.org/v2"

// minRequestInterval bounds requests to 3/sec ("fingerprint:
// >=350 ms").
const minRequestInterval = 350 * time.Millisecond

var defaultMeta = []string{"recordings", "releasegroups"}

// Client is a rate-limited AcoustID fingerprint lookup client.
type Client struct {
	httpClient *http.Client
	limiter *ratelimit.Limiter
	apiKey string
	baseURL string
}

// NewClient builds a Client authenticated with apiKey (see
// https://acoustid.org/new-application).
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter: ratelimit.New(minRequestInterval),
		apiKey: apiKey,
		baseURL: apiBase,
	}
}

// Lookup looks up a Chromaprint fingerprint for a track of the given
// duration (seconds), requesting the default "recordings"+"releasegroups"
// metadata.
func (c *Client) Lookup(ctx context.Context, fingerprint string, durationSecs int) ([]Result, error) {
	return c.LookupWithMeta(ctx, fingerprint, durationSecs, defaultMeta)
}

// LookupWithMeta looks up fingerprint with an explicit metadata include set
// (e.g. "recordings", "releasegroups", "compress").
func (c *Client) LookupWithMeta(ctx context.Context, fingerprint string, durationSecs int, meta []string) ([]Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, sources.HTTP(err)
	}

	u := fmt.Sprintf("%s/lookup?client=%s&duration=%d&fingerprint=%s&meta=%s",
		c.baseURL,
		url.QueryEscape(c.apiKey),
		durationSecs,
		url.QueryEscape(fingerprint),
		url.QueryEscape(strings.Join(meta, "+")),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, sources.HTTP(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, sources.HTTP(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sources.HTTP(err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
		return nil, sources.RateLimited(sources.RetryAfterFromHeader(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, sources.API(resp.StatusCode, string(body))
	}

	var lookup LookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, sources.Parse(err.Error())
	}

	if lookup.Status != "ok" {
		if lookup.Error != nil {
			return nil, sources.API(lookup.Error.Code, lookup.Error.Message)
		}
		return nil, sources.API(0, "unknown API error")
	}

	return lookup.Results, nil
}

// FindBestMatch returns the first recording from the first result whose
// score is at or above minScore (0.0-1.0), in the service's own order.
func (c *Client) FindBestMatch(ctx context.Context, fingerprint string, durationSecs int, minScore float64) (*Recording, error) {
	results, err := c.Lookup(ctx, fingerprint, durationSecs)
	if err != nil {
		return nil, err
	}
	for _, result := range results {
		if result.Score < minScore {
			continue
		}
		if len(result.Recordings) > 0 {
			rec := result.Recordings[0]
			return &rec, nil
		}
	}
	return nil, nil
}

// GetRecordingIDs returns the de-duplicated set of MusicBrainz recording ids
// across all results scoring at or above minScore, preserving first-seen
// order.
func (c *Client) GetRecordingIDs(ctx context.Context, fingerprint string, durationSecs int, minScore float64) ([]string, error) {
	results, err := c.Lookup(ctx, fingerprint, durationSecs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for _, result := range results {
		if result.Score < minScore {
			continue
		}
		for _, rec := range result.Recordings {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			ids = append(ids, rec.ID)
		}
	}
	return ids, nil
}
