package storage

import (
	"context"
	"fmt"

	"github.com/ariejan/apollo/internal/model"
)

// DuplicateGroup is a set of tracks considered duplicates of one another.
type DuplicateGroup struct {
	Key string
	Tracks []model.Track
}

// FindExactDuplicates groups tracks sharing a non-empty file_hash, returning
// groups of size >= 2 ordered by descending group size
func (db *DB) FindExactDuplicates(ctx context.Context) ([]DuplicateGroup, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT file_hash FROM tracks
		WHERE file_hash <> ''
		GROUP BY file_hash
		HAVING COUNT(*) >= 2
		ORDER BY COUNT(*) DESC`)
		if err != nil {
			return nil, fmt.Errorf("find exact duplicates: %w", err)
		}
		var hashes []string
		for rows.Next() {
			var h string
			if err := rows.Scan(&h); err != nil {
				rows.Close()
				return nil, err
			}
			hashes = append(hashes, h)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		groups := make([]DuplicateGroup, 0, len(hashes))
		for _, h := range hashes {
			tracks, err := db.tracksWhere(ctx, "file_hash = ?", h)
			if err != nil {
				return nil, err
			}
			groups = append(groups, DuplicateGroup{Key: h, Tracks: tracks})
		}
		return groups, nil
	}

	// FindSimilarDuplicates groups tracks sharing case-insensitive (artist,
	// title) whose durations lie within toleranceMs of each other. Grouping
	// is by (lower(artist), lower(title)); the pairwise duration tolerance is
	// applied by keeping only tracks within toleranceMs of the group's
	// minimum duration, which is sufficient for the transitive chains this
	// grouping produces in practice.
	func (db *DB) FindSimilarDuplicates(ctx context.Context, toleranceMs int64) ([]DuplicateGroup, error) {
		rows, err := db.conn.QueryContext(ctx, `
		SELECT lower(artist), lower(title) FROM tracks
		GROUP BY lower(artist), lower(title)
		HAVING COUNT(*) >= 2`)
			if err != nil {
				return nil, fmt.Errorf("find similar duplicates: %w", err)
			}
			type key struct{ artist, title string }
			var keys []key
			for rows.Next() {
				var k key
				if err := rows.Scan(&k.artist, &k.title); err != nil {
					rows.Close()
					return nil, err
				}
				keys = append(keys, k)
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return nil, err
			}

			var groups []DuplicateGroup
			for _, k := range keys {
				candidates, err := db.tracksWhere(ctx, "lower(artist) = ? AND lower(title) = ?", k.artist, k.title)
				if err != nil {
					return nil, err
				}
				for _, group := range groupByDuration(candidates, toleranceMs) {
					if len(group) >= 2 {
						groups = append(groups, DuplicateGroup{Key: k.artist + "/" + k.title, Tracks: group})
					}
				}
			}
			return groups, nil
		}

		// groupByDuration clusters tracks so that every track in a cluster is within
		// toleranceMs of the cluster's minimum duration (sorted ascending first so
		// clusters are contiguous runs).
		func groupByDuration(tracks []model.Track, toleranceMs int64) [][]model.Track {
			sorted := append([]model.Track(nil), tracks...)
			for i := 1; i < len(sorted); i++ {
				for j := i; j > 0 && sorted[j].DurationMs < sorted[j-1].DurationMs; j-- {
					sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
				}
			}

			var groups [][]model.Track
			var current []model.Track
			for _, t := range sorted {
				if len(current) == 0 || t.DurationMs-current[0].DurationMs <= toleranceMs {
					current = append(current, t)
					continue
				}
				groups = append(groups, current)
				current = []model.Track{t}
			}
			if len(current) > 0 {
				groups = append(groups, current)
			}
			return groups
		}

		func (db *DB) tracksWhere(ctx context.Context, where string, args ...any) ([]model.Track, error) {
			rows, err := db.conn.QueryContext(ctx, `SELECT `+trackColumns+` FROM tracks WHERE `+where, args...)
			if err != nil {
				return nil, fmt.Errorf("query tracks: %w", err)
			}
			defer rows.Close()
			return scanTracks(rows)
		}
