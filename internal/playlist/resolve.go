package playlist

import (
	"context"
	"fmt"

	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/storage"
)

// Store is the subset of *storage.DB the playlist engine needs, so tests
// can substitute a fake without opening a real database.
type Store interface {
	QueryTracks(ctx context.Context, filter storage.Filter, sort model.SortOrder, limit int) ([]model.Track, error)
	ListPlaylistTracks(ctx context.Context, playlistID model.PlaylistID) ([]model.Track, error)
}

// Tracks resolves a playlist's member tracks: for Static playlists this is
// stored membership in position order; for Smart playlists the Query is
// compiled, evaluated with the playlist's sort and max_tracks limit applied
// at the storage level, then max_duration_secs is applied as a greedy
// prefix over the sorted result
func Tracks(ctx context.Context, store Store, p model.Playlist) ([]model.Track, error) {
	switch p.Kind {
	case model.PlaylistStatic:
		return store.ListPlaylistTracks(ctx, p.ID)
	case model.PlaylistSmart:
		return resolveSmart(ctx, store, p)
	default:
		return nil, fmt.Errorf("playlist: unknown kind %q", p.Kind)
	}
}

func resolveSmart(ctx context.Context, store Store, p model.Playlist) ([]model.Track, error) {
	filter := Compile(p.Query)
	limit := 0
	if p.HasMaxTracks {
		limit = p.MaxTracks
	}
	tracks, err := store.QueryTracks(ctx, filter, p.Sort, limit)
	if err != nil {
		return nil, fmt.Errorf("resolve smart playlist: %w", err)
	}
	if p.HasMaxDuration {
		tracks = applyMaxDuration(tracks, p.MaxDurationSecs)
	}
	return tracks, nil
}

// applyMaxDuration keeps the longest prefix (in the already-sorted order)
// whose total duration does not exceed maxSecs, skipping any track that
// would overflow but continuing to consider shorter tracks after it (the
// greedy-prefix rule documents as the reference behavior).
func applyMaxDuration(tracks []model.Track, maxSecs int) []model.Track {
	maxMs := int64(maxSecs) * 1000
	var total int64
	kept := make([]model.Track, 0, len(tracks))
	for _, t := range tracks {
		if total+t.DurationMs > maxMs {
			continue
		}
		kept = append(kept, t)
		total += t.DurationMs
	}
	return kept
}
