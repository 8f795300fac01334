// Package coverart implements a cover-art client against the real Cover
// Art Archive web service.
package coverart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ariejan/apollo/internal/sources"
	"github.com/ariejan/apollo/internal/sources/ratelimit"
)

const apiBase = "https://coverartarchive.org"

// minRequestInterval bounds Cover Art Archive requests
// ("cover-art: >=1100 ms").
const minRequestInterval = 1100 * time.Millisecond

// Client fetches album cover art from Cover Art Archive, and can compose
// direct image URLs without an API round-trip.
type Client struct {
	httpClient *http.Client
	limiter *ratelimit.Limiter
	userAgent string
	baseURL string
}

// NewClient builds a Client identifying itself with appName/appVersion.
func NewClient(appName, appVersion string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter: ratelimit.New(minRequestInterval),
		userAgent: fmt.Sprintf("%s/%s", appName, appVersion),
		baseURL: apiBase,
	}
}

// GetReleaseArt fetches every cover image recorded for a MusicBrainz
// release.
func (c *Client) GetReleaseArt(ctx context.Context, releaseMBID string) ([]CoverImage, error) {
	return c.getArt(ctx, "/release/"+releaseMBID)
}

// GetReleaseGroupArt fetches cover images for a release group, which
// aggregates different editions of the same album.
func (c *Client) GetReleaseGroupArt(ctx context.Context, releaseGroupMBID string) ([]CoverImage, error) {
	return c.getArt(ctx, "/release-group/"+releaseGroupMBID)
}

func (c *Client) getArt(ctx context.Context, path string) ([]CoverImage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, sources.HTTP(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, sources.HTTP(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, sources.HTTP(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sources.HTTP(err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, sources.NotFound()
	}
	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
		return nil, sources.RateLimited(sources.RetryAfterFromHeader(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, sources.API(resp.StatusCode, string(body))
	}

	var caa CoverArtArchiveResponse
	if err := json.Unmarshal(body, &caa); err != nil {
		return nil, sources.Parse(err.Error())
	}

	images := make([]CoverImage, len(caa.Images))
	for i, img := range caa.Images {
		images[i] = img.ToCoverImage(ImageSizeLarge)
	}
	return images, nil
}

// GetFrontCover returns the front cover at the requested size.
func (c *Client) GetFrontCover(ctx context.Context, releaseMBID string, size ImageSize) (CoverImage, error) {
	images, err := c.GetReleaseArt(ctx, releaseMBID)
	if err != nil {
		return CoverImage{}, err
	}
	for _, img := range images {
		if img.IsFront {
			img.Size = size
			return img, nil
		}
	}
	return CoverImage{}, sources.NotFound()
}

// GetCoverByType returns the first image matching coverType.
func (c *Client) GetCoverByType(ctx context.Context, releaseMBID string, coverType CoverType) (CoverImage, error) {
	images, err := c.GetReleaseArt(ctx, releaseMBID)
	if err != nil {
		return CoverImage{}, err
	}
	for _, img := range images {
		if img.Type == coverType {
			return img, nil
		}
	}
	return CoverImage{}, sources.NotFound()
}

// DownloadImage fetches the raw bytes at url, subject to the same rate
// limit as the API calls (the endpoint is operated by the same service).
func (c *Client) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, sources.HTTP(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, sources.HTTP(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, sources.HTTP(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sources.HTTP(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, sources.API(resp.StatusCode, string(body))
	}
	return body, nil
}

func sizeSuffix(size ImageSize) string {
	switch size {
	case ImageSizeSmall:
		return "-250"
	case ImageSizeOriginal:
		return ""
	default: // Medium, Large
		return "-500"
	}
}

// FrontCoverURL composes the direct, API-round-trip-free URL for a
// release's front cover at the given size.
func FrontCoverURL(releaseMBID string, size ImageSize) string {
	return fmt.Sprintf("%s/release/%s/front%s", apiBase, releaseMBID, sizeSuffix(size))
}

// BackCoverURL composes the direct URL for a release's back cover.
func BackCoverURL(releaseMBID string, size ImageSize) string {
	return fmt.Sprintf("%s/release/%s/back%s", apiBase, releaseMBID, sizeSuffix(size))
}
