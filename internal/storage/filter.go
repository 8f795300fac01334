package storage

import (
	"context"
	"fmt"

	"github.com/ariejan/apollo/internal/model"
)

// Filter is a compiled WHERE fragment (without the leading "WHERE") plus its
// positional arguments, produced by internal/playlist's query compiler from
// a query.Query AST and consumed here.
type Filter struct {
	Where string
	Args []any
}

// NoFilter matches every track.
var NoFilter = Filter{Where: "1=1"}

// QueryTracks returns tracks matching filter, ordered per sort,
// optionally truncated to limit rows (limit <= 0 means unlimited).
func (db *DB) QueryTracks(ctx context.Context, filter Filter, sort model.SortOrder, limit int) ([]model.Track, error) {
	orderBy, err := sortOrderClause(sort)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + trackColumns + ` FROM tracks WHERE ` + filter.Where + ` ORDER BY ` + orderBy
	args := filter.Args
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()
	return scanTracks(rows)
}

func sortOrderClause(sort model.SortOrder) (string, error) {
	switch sort {
	case "", model.SortArtist:
		return "artist, album, disc_number, track_number", nil
	case model.SortAlbum:
		return "album, disc_number, track_number", nil
	case model.SortTitle:
		return "title", nil
	case model.SortAddedDesc:
		return "added_at DESC", nil
	case model.SortAddedAsc:
		return "added_at ASC", nil
	case model.SortYearDesc:
		return "year DESC", nil
	case model.SortYearAsc:
		return "year ASC", nil
	case model.SortRandom:
		return "RANDOM()", nil
	default:
		return "", fmt.Errorf("storage: unknown sort order %q", sort)
	}
}
