package musicbrainz

import (
	"context"
	"strings"
	"time"

	"github.com/ariejan/apollo/internal/cache"
)

type searchKey struct {
	Title string
	Artist string
	Limit int
}

type lookupKey struct {
	MBID string
	Include string
}

// CachedClient wraps Client with a response cache: searches are keyed on
// (title, artist, limit), lookups on (mbid, include-set), and the
// wrapper exposes Stats/Save/Load for persistence.
type CachedClient struct {
	client *Client
	searches *cache.Cache[searchKey, []Recording]
	lookups *cache.Cache[lookupKey, Recording]
}

// NewCachedClient wraps client with in-memory caches of the given TTL and
// maximum size for both searches and lookups.
func NewCachedClient(client *Client, ttlSeconds int, maxEntries int) *CachedClient {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &CachedClient{
		client: client,
		searches: cache.New[searchKey, []Recording](ttl, maxEntries),
		lookups: cache.New[lookupKey, Recording](ttl, maxEntries),
	}
}

// SearchRecordings returns the cached result for (title, artist, limit) when
// present, otherwise delegates to the wrapped Client and caches the result.
func (c *CachedClient) SearchRecordings(ctx context.Context, title, artist string, limit int) ([]Recording, error) {
	key := searchKey{Title: title, Artist: artist, Limit: limit}
	if cached, ok := c.searches.Get(key); ok {
		return cached, nil
	}
	recordings, err := c.client.SearchRecordings(ctx, title, artist, limit)
	if err != nil {
		return nil, err
	}
	c.searches.Set(key, recordings)
	return recordings, nil
}

// LookupRecording returns the cached recording for (mbid, include-set) when
// present, otherwise delegates and caches the result.
func (c *CachedClient) LookupRecording(ctx context.Context, mbid string, include []string) (Recording, error) {
	key := lookupKey{MBID: mbid, Include: strings.Join(include, "+")}
	if cached, ok := c.lookups.Get(key); ok {
		return cached, nil
	}
	rec, err := c.client.LookupRecording(ctx, mbid, include)
	if err != nil {
		return Recording{}, err
	}
	c.lookups.Set(key, rec)
	return rec, nil
}

// FindBestRecording is not itself cached (its result depends on the caller's
// minScore/album/duration filters), but benefits from the underlying search
// cache when repeated for the same title/artist.
func (c *CachedClient) FindBestRecording(ctx context.Context, title, artist string, album *string, durationMs *uint64, minScore uint8) (*Recording, error) {
	return c.client.FindBestRecording(ctx, title, artist, album, durationMs, minScore)
}

// Stats reports cumulative hit/miss/eviction counters across both caches.
func (c *CachedClient) Stats() (searches, lookups cache.Stats) {
	return c.searches.Stats(), c.lookups.Stats()
}

// Save persists the search cache to searchPath and the lookup cache to
// lookupPath.
func (c *CachedClient) Save(searchPath, lookupPath string) error {
	if err := c.searches.Save(searchPath); err != nil {
		return err
	}
	return c.lookups.Save(lookupPath)
}

// Load restores both caches from files previously written by Save.
func (c *CachedClient) Load(searchPath, lookupPath string) error {
	if err := c.searches.Load(searchPath); err != nil {
		return err
	}
	return c.lookups.Load(lookupPath)
}
