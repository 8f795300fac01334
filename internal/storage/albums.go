package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariejan/apollo/internal/model"
)

const albumColumns = `id, title, artist, year, has_year, genres, track_count, disc_count, release_mbid, added_at, modified_at`

// AddAlbum inserts a new album.
func (db *DB) AddAlbum(ctx context.Context, a model.Album) error {
	genres, err := json.Marshal(a.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}
	_, err = db.conn.ExecContext(ctx, `INSERT INTO albums (`+albumColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		a.ID.String(), a.Title, a.Artist, a.Year, boolToInt(a.HasYear), string(genres),
		a.TrackCount, a.DiscCount, a.ReleaseMBID, formatTime(a.CreatedAt), formatTime(a.ModifiedAt))
	if err != nil {
		return fmt.Errorf("insert album: %w", err)
	}
	return nil
}

// UpdateAlbum overwrites every column of an existing album by id.
func (db *DB) UpdateAlbum(ctx context.Context, a model.Album) error {
	genres, err := json.Marshal(a.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}
	res, err := db.conn.ExecContext(ctx, `UPDATE albums SET
		title=?, artist=?, year=?, has_year=?, genres=?, track_count=?, disc_count=?, release_mbid=?, modified_at=?
		WHERE id=?`,
		a.Title, a.Artist, a.Year, boolToInt(a.HasYear), string(genres),
		a.TrackCount, a.DiscCount, a.ReleaseMBID, formatTime(a.ModifiedAt), a.ID.String())
	if err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	return requireRowsAffected(res)
}

// RemoveAlbum deletes an album by id. Tracks referencing it are not
// cascaded; callers clear Track.AlbumID first if desired.
func (db *DB) RemoveAlbum(ctx context.Context, id model.AlbumID) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM albums WHERE id=?`, id.String())
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	return requireRowsAffected(res)
}

// GetAlbum fetches a single album by id.
func (db *DB) GetAlbum(ctx context.Context, id model.AlbumID) (model.Album, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE id=?`, id.String())
	return scanAlbum(row)
}

// ListAlbums returns albums ordered (artist, year, title), the default
// browsing order.
func (db *DB) ListAlbums(ctx context.Context, limit, offset int) ([]model.Album, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+albumColumns+` FROM albums
		ORDER BY artist, year, title LIMIT ? OFFSET ?`, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("list albums: %w", err)
		}
		defer rows.Close()
		var albums []model.Album
		for rows.Next() {
			a, err := scanAlbum(rows)
			if err != nil {
				return nil, err
			}
			albums = append(albums, a)
		}
		return albums, rows.Err()
	}

	// CountAlbums returns the total number of albums in the library.
	func (db *DB) CountAlbums(ctx context.Context) (int, error) {
		var n int
		err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums`).Scan(&n)
		return n, err
	}

	func scanAlbum(row rowScanner) (model.Album, error) {
		var (
			a model.Album
			idStr string
			hasYear int64
			genresJSON string
			addedAt, modified string
		)
		err := row.Scan(&idStr, &a.Title, &a.Artist, &a.Year, &hasYear, &genresJSON,
			&a.TrackCount, &a.DiscCount, &a.ReleaseMBID, &addedAt, &modified)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.Album{}, ErrNotFound
			}
			return model.Album{}, fmt.Errorf("scan album: %w", err)
		}
		id, err := model.ParseAlbumID(idStr)
		if err != nil {
			return model.Album{}, fmt.Errorf("parse album id: %w", err)
		}
		a.ID = id
		a.HasYear = intToBool(hasYear)
		if err := json.Unmarshal([]byte(genresJSON), &a.Genres); err != nil {
			a.Genres = nil
		}
		a.CreatedAt = parseTime(addedAt)
		a.ModifiedAt = parseTime(modified)
		return a, nil
	}
