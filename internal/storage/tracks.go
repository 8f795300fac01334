package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariejan/apollo/internal/model"
)

const trackColumns = `id, path, title, artist, album_artist, album, album_id,
track_number, track_total, disc_number, disc_total, year, has_year,
genres, duration_ms, bitrate, has_bitrate, sample_rate, has_sample_rate,
channels, has_channels, format, recording_mbid, fingerprint_id,
added_at, modified_at, file_hash`

// AddTrack inserts a new track. Returns ErrDuplicatePath if t.Path already
// exists in the library.
func (db *DB) AddTrack(ctx context.Context, t model.Track) error {
	genres, err := json.Marshal(t.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}
	_, err = db.conn.ExecContext(ctx, `INSERT INTO tracks (`+trackColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID.String(), t.Path, t.Title, t.Artist, t.AlbumArtist, t.Album, nullableID(t.AlbumID),
		t.TrackNumber, t.TrackTotal, t.DiscNumber, t.DiscTotal, t.Year, boolToInt(t.HasYear),
		string(genres), t.DurationMs, t.Bitrate, boolToInt(t.HasBitrate), t.SampleRate, boolToInt(t.HasSampleRate),
		t.Channels, boolToInt(t.HasChannels), string(t.FormatVariant), t.RecordingMBID, t.FingerprintID,
		formatTime(t.CreatedAt), formatTime(t.ModifiedAt), t.FileHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePath
		}
		return fmt.Errorf("insert track: %w", err)
	}
	return nil
}

// UpdateTrack overwrites every column of an existing track by id.
func (db *DB) UpdateTrack(ctx context.Context, t model.Track) error {
	genres, err := json.Marshal(t.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}
	res, err := db.conn.ExecContext(ctx, `UPDATE tracks SET
		path=?, title=?, artist=?, album_artist=?, album=?, album_id=?,
		track_number=?, track_total=?, disc_number=?, disc_total=?, year=?, has_year=?,
		genres=?, duration_ms=?, bitrate=?, has_bitrate=?, sample_rate=?, has_sample_rate=?,
		channels=?, has_channels=?, format=?, recording_mbid=?, fingerprint_id=?,
		modified_at=?, file_hash=?
		WHERE id=?`,
		t.Path, t.Title, t.Artist, t.AlbumArtist, t.Album, nullableID(t.AlbumID),
		t.TrackNumber, t.TrackTotal, t.DiscNumber, t.DiscTotal, t.Year, boolToInt(t.HasYear),
		string(genres), t.DurationMs, t.Bitrate, boolToInt(t.HasBitrate), t.SampleRate, boolToInt(t.HasSampleRate),
		t.Channels, boolToInt(t.HasChannels), string(t.FormatVariant), t.RecordingMBID, t.FingerprintID,
		formatTime(t.ModifiedAt), t.FileHash, t.ID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePath
		}
		return fmt.Errorf("update track: %w", err)
	}
	return requireRowsAffected(res)
}

// RemoveTrack deletes a track by id.
func (db *DB) RemoveTrack(ctx context.Context, id model.TrackID) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM tracks WHERE id=?`, id.String())
	if err != nil {
		return fmt.Errorf("delete track: %w", err)
	}
	return requireRowsAffected(res)
}

// GetTrack fetches a single track by id.
func (db *DB) GetTrack(ctx context.Context, id model.TrackID) (model.Track, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+trackColumns+` FROM tracks WHERE id=?`, id.String())
	return scanTrack(row)
}

// ListTracks returns tracks ordered (artist, album, disc_number,
// track_number), the default browsing order.
func (db *DB) ListTracks(ctx context.Context, limit, offset int) ([]model.Track, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+trackColumns+` FROM tracks
		ORDER BY artist, album, disc_number, track_number LIMIT ? OFFSET ?`, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("list tracks: %w", err)
		}
		defer rows.Close()
		return scanTracks(rows)
	}

	// CountTracks returns the total number of tracks in the library.
	func (db *DB) CountTracks(ctx context.Context) (int, error) {
		var n int
		err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&n)
		return n, err
	}

	// SearchTracks runs queryString through the FTS5 index and returns matches
	// ordered by rank (best match first)
	func (db *DB) SearchTracks(ctx context.Context, queryString string, limit, offset int) ([]model.Track, error) {
		rows, err := db.conn.QueryContext(ctx, `
		SELECT `+prefixColumns("t", trackColumns)+`
		FROM tracks_fts
		JOIN tracks t ON t.rowid = tracks_fts.rowid
		WHERE tracks_fts MATCH ?
		ORDER BY rank
		LIMIT ? OFFSET ?`, ftsQuery(queryString), limit, offset)
			if err != nil {
				return nil, fmt.Errorf("search tracks: %w", err)
			}
			defer rows.Close()
			return scanTracks(rows)
		}

		// ftsQuery wraps each term in double quotes and appends a prefix wildcard so
		// a partial word ("jazz") still matches "jazzy", matching the substring feel
		// of the rest of the query language.
		func ftsQuery(s string) string {
			fields := strings.Fields(s)
			if len(fields) == 0 {
				return `""`
			}
			quoted := make([]string, len(fields))
			for i, f := range fields {
				f = strings.ReplaceAll(f, `"`, `""`)
				quoted[i] = `"` + f + `"*`
			}
			return strings.Join(quoted, " ")
		}

		func prefixColumns(alias, cols string) string {
			parts := strings.Split(cols, ",")
			out := make([]string, len(parts))
			for i, p := range parts {
				out[i] = alias + "." + strings.TrimSpace(p)
			}
			return strings.Join(out, ", ")
		}

		type rowScanner interface {
			Scan(dest ...any) error
		}

		func scanTrack(row rowScanner) (model.Track, error) {
			var (
				t model.Track
				idStr, albumIDStr string
				hasYear, hasBitrate, hasSampleRate, hasChannels int64
				genresJSON, format string
				addedAt, modifiedAt string
			)
			err := row.Scan(&idStr, &t.Path, &t.Title, &t.Artist, &t.AlbumArtist, &t.Album, &albumIDStr,
				&t.TrackNumber, &t.TrackTotal, &t.DiscNumber, &t.DiscTotal, &t.Year, &hasYear,
				&genresJSON, &t.DurationMs, &t.Bitrate, &hasBitrate, &t.SampleRate, &hasSampleRate,
				&t.Channels, &hasChannels, &format, &t.RecordingMBID, &t.FingerprintID,
				&addedAt, &modifiedAt, &t.FileHash)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return model.Track{}, ErrNotFound
				}
				return model.Track{}, fmt.Errorf("scan track: %w", err)
			}

			id, err := model.ParseTrackID(idStr)
			if err != nil {
				return model.Track{}, fmt.Errorf("parse track id: %w", err)
			}
			t.ID = id
			if albumIDStr != "" {
				if aid, err := model.ParseAlbumID(albumIDStr); err == nil {
					t.AlbumID = aid
				}
			}
			t.HasYear = intToBool(hasYear)
			t.HasBitrate = intToBool(hasBitrate)
			t.HasSampleRate = intToBool(hasSampleRate)
			t.HasChannels = intToBool(hasChannels)
			t.FormatVariant = model.Format(format)
			if err := json.Unmarshal([]byte(genresJSON), &t.Genres); err != nil {
				t.Genres = nil
			}
			t.CreatedAt = parseTime(addedAt)
			t.ModifiedAt = parseTime(modifiedAt)
			return t, nil
		}

		func scanTracks(rows *sql.Rows) ([]model.Track, error) {
			var tracks []model.Track
			for rows.Next() {
				t, err := scanTrack(rows)
				if err != nil {
					return nil, err
				}
				tracks = append(tracks, t)
			}
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return tracks, nil
		}

		func nullableID(id model.AlbumID) string {
			if id.IsZero() {
				return ""
			}
			return id.String()
		}

		func formatTime(t time.Time) string {
			if t.IsZero() {
				t = time.Now().UTC()
			}
			return t.UTC().Format(time.RFC3339Nano)
		}

		func parseTime(s string) time.Time {
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return time.Time{}
			}
			return t
		}

		func isUniqueViolation(err error) bool {
			return strings.Contains(err.Error(), "UNIQUE constraint failed")
		}

		func requireRowsAffected(res sql.Result) error {
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
			return nil
		}
