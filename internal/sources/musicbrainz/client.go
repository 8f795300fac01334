// Package musicbrainz implements a metadata client against the real
// MusicBrainz web service.
package musicbrainz

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

const apiBase = "https://musicbrainz.org/ws/2"

// minRequestInterval is the MusicBrainz-mandated 1 request/second ceiling,
// ("metadata: >=1000 ms").
const minRequestInterval = 1100 * time.Millisecond

// Client is a rate-limited MusicBrainz search/lookup client.
type Client struct {
	httpClient *http.Client
	limiter *ratelimit.Limiter
	userAgent string
	baseURL string
}

// NewClient builds a Client. appName/appVersion/contact compose the
// required User-Agent string MusicBrainz uses to identify callers.
func NewClient(appName, appVersion, contact string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter: ratelimit.New(minRequestInterval),
		userAgent: fmt.Sprintf("%s/%s ( %s )", appName, appVersion, contact),
		baseURL: apiBase,
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return sources.HTTP(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return sources.HTTP(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return sources.HTTP(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return sources.HTTP(err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
		return sources.RateLimited(sources.RetryAfterFromHeader(resp.Header.Get("Retry-After")))
	}
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" && resp.StatusCode >= 400 {
		return sources.RateLimited(sources.RetryAfterFromHeader(retryAfter))
	}
	if resp.StatusCode == http.StatusNotFound {
		return sources.NotFound()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return sources.API(resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return sources.Parse(err.Error())
	}
	return nil
}

// SearchRecordings searches for recordings by title, optionally scoped to an
// artist, returning up to limit candidates in MusicBrainz's own ranking
// order.
func (c *Client) SearchRecordings(ctx context.Context, title, artist string, limit int) ([]Recording, error) {
	query := fmt.Sprintf("recording:%q", escapeLucene(title))
	if artist != "" {
		query += fmt.Sprintf(" AND artist:%q", escapeLucene(artist))
	}
	path := fmt.Sprintf("/recording?query=%s&limit=%d&fmt=json", url.QueryEscape(query), limit)

	var resp RecordingSearchResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Recordings, nil
}

// SearchReleases searches for releases (albums) by title, optionally scoped
// to an artist.
func (c *Client) SearchReleases(ctx context.Context, title, artist string, limit int) ([]Release, error) {
	query := fmt.Sprintf("release:%q", escapeLucene(title))
	if artist != "" {
		query += fmt.Sprintf(" AND artist:%q", escapeLucene(artist))
	}
	path := fmt.Sprintf("/release?query=%s&limit=%d&fmt=json", url.QueryEscape(query), limit)

	var resp ReleaseSearchResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Releases, nil
}

// LookupRecording fetches a single recording by its MBID, with the given
// related entities (e.g. "releases", "artists") included.
func (c *Client) LookupRecording(ctx context.Context, mbid string, include []string) (Recording, error) {
	path := fmt.Sprintf("/recording/%s?fmt=json%s", mbid, incParam(include))
	var rec Recording
	if err := c.get(ctx, path, &rec); err != nil {
		return Recording{}, err
	}
	return rec, nil
}

// LookupRelease fetches a single release by its MBID.
func (c *Client) LookupRelease(ctx context.Context, mbid string, include []string) (Release, error) {
	path := fmt.Sprintf("/release/%s?fmt=json%s", mbid, incParam(include))
	var rel Release
	if err := c.get(ctx, path, &rel); err != nil {
		return Release{}, err
	}
	return rel, nil
}

// FindBestRecording implements the best-match selection rule: the first
// candidate (in the service's own order) whose score meets minScore and
// whose release/duration constraints, when given, are satisfied. Returns
// nil, nil on no match.
func (c *Client) FindBestRecording(ctx context.Context, title, artist string, album *string, durationMs *uint64, minScore uint8) (*Recording, error) {
	recordings, err := c.SearchRecordings(ctx, title, artist, 10)
	if err != nil {
		return nil, err
	}

	for i := range recordings {
		r := recordings[i]
		score := uint8(0)
		if r.Score != nil {
			score = *r.Score
		}
		if score < minScore {
			continue
		}
		if album != nil {
			albumLower := strings.ToLower(*album)
			hasMatch := false
			for _, rel := range r.Releases {
				if strings.Contains(strings.ToLower(rel.Title), albumLower) {
					hasMatch = true
					break
				}
			}
			if !hasMatch && len(r.Releases) > 0 {
				continue
			}
		}
		if durationMs != nil && r.Length != nil {
			diff := int64(*durationMs) - int64(*r.Length)
			if diff < 0 {
				diff = -diff
			}
			if diff > 10000 {
				continue
			}
		}
		return &r, nil
	}
	return nil, nil
}

func incParam(include []string) string {
	if len(include) == 0 {
		return ""
	}
	return "&inc=" + strings.Join(include, "+")
}

// escapeLucene backslash-escapes the Lucene special characters MusicBrainz's
// query syntax reserves.
func escapeLucene(s string) string {
	const special = `+-&|!(){}[]^"~*?:\/`
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
