package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ariejan/apollo/internal/model"
)

const playlistColumns = `id, name, description, kind, query, sort, max_tracks, has_max_tracks, max_duration_secs, has_max_duration, added_at, modified_at`

// AddPlaylist inserts a new playlist. For Static playlists, p.TrackIDs (if
// any) are inserted into playlist_tracks at positions 0..n-1.
func (db *DB) AddPlaylist(ctx context.Context, p model.Playlist) error {
	queryJSON, err := marshalQuery(p.Query)
	if err != nil {
		return err
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO playlists (`+playlistColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID.String(), p.Name, p.Description, string(p.Kind), queryJSON, string(p.Sort),
		p.MaxTracks, boolToInt(p.HasMaxTracks), p.MaxDurationSecs, boolToInt(p.HasMaxDuration),
		formatTime(p.CreatedAt), formatTime(p.ModifiedAt))
	if err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}

	for i, trackID := range p.TrackIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO playlist_tracks (playlist_id, track_id, position, added_at)
			VALUES (?,?,?,?)`, p.ID.String(), trackID.String(), i, formatTime(p.CreatedAt)); err != nil {
			return fmt.Errorf("insert playlist track: %w", err)
		}
	}

	return tx.Commit()
}

// UpdatePlaylist overwrites a playlist's metadata (not its membership;
// use AddTrackToPlaylist/RemoveTrackFromPlaylist for that).
func (db *DB) UpdatePlaylist(ctx context.Context, p model.Playlist) error {
	queryJSON, err := marshalQuery(p.Query)
	if err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx, `UPDATE playlists SET
		name=?, description=?, kind=?, query=?, sort=?, max_tracks=?, has_max_tracks=?,
		max_duration_secs=?, has_max_duration=?, modified_at=?
		WHERE id=?`,
		p.Name, p.Description, string(p.Kind), queryJSON, string(p.Sort),
		p.MaxTracks, boolToInt(p.HasMaxTracks), p.MaxDurationSecs, boolToInt(p.HasMaxDuration),
		formatTime(p.ModifiedAt), p.ID.String())
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	return requireRowsAffected(res)
}

// RemovePlaylist deletes a playlist; playlist_tracks rows cascade.
func (db *DB) RemovePlaylist(ctx context.Context, id model.PlaylistID) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM playlists WHERE id=?`, id.String())
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return requireRowsAffected(res)
}

// GetPlaylist fetches a playlist's metadata. For Static playlists, TrackIDs
// is populated from playlist_tracks in position order.
func (db *DB) GetPlaylist(ctx context.Context, id model.PlaylistID) (model.Playlist, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id=?`, id.String())
	p, err := scanPlaylist(row)
	if err != nil {
		return model.Playlist{}, err
	}
	if p.Kind == model.PlaylistStatic {
		ids, err := db.listPlaylistTrackIDs(ctx, id)
		if err != nil {
			return model.Playlist{}, err
		}
		p.TrackIDs = ids
	}
	return p, nil
}

// ListPlaylists returns every playlist's metadata (Static playlists do not
// have TrackIDs populated here; call GetPlaylist or
// ListPlaylistTracks for membership).
func (db *DB) ListPlaylists(ctx context.Context, limit, offset int) ([]model.Playlist, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+playlistColumns+` FROM playlists
		ORDER BY name LIMIT ? OFFSET ?`, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("list playlists: %w", err)
		}
		defer rows.Close()
		var playlists []model.Playlist
		for rows.Next() {
			p, err := scanPlaylist(rows)
			if err != nil {
				return nil, err
			}
			playlists = append(playlists, p)
		}
		return playlists, rows.Err()
	}

	// CountPlaylists returns the total number of playlists.
	func (db *DB) CountPlaylists(ctx context.Context) (int, error) {
		var n int
		err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM playlists`).Scan(&n)
		return n, err
	}

	// AddTrackToPlaylist appends trackID to a Static playlist at max(position)+1
	// (0 if empty). Re-adding a track already present is a no-op other than
	// touching the playlist's modified_at
	func (db *DB) AddTrackToPlaylist(ctx context.Context, playlistID model.PlaylistID, trackID model.TrackID) error {
		kind, err := db.playlistKind(ctx, playlistID)
		if err != nil {
			return err
		}
		if kind == model.PlaylistSmart {
			return ErrSmartPlaylistMembership
		}

		now := formatTime(timeNow())
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		var exists int
		err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM playlist_tracks WHERE playlist_id=? AND track_id=?`,
			playlistID.String(), trackID.String()).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check playlist membership: %w", err)
		}

		if exists == 0 {
			var maxPos sql.NullInt64
			if err := tx.QueryRowContext(ctx, `SELECT MAX(position) FROM playlist_tracks WHERE playlist_id=?`,
				playlistID.String()).Scan(&maxPos); err != nil {
				return fmt.Errorf("compute next position: %w", err)
			}
			nextPos := int64(0)
			if maxPos.Valid {
				nextPos = maxPos.Int64 + 1
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO playlist_tracks (playlist_id, track_id, position, added_at)
			VALUES (?,?,?,?)`, playlistID.String(), trackID.String(), nextPos, now); err != nil {
				return fmt.Errorf("insert playlist track: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE playlists SET modified_at=? WHERE id=?`, now, playlistID.String()); err != nil {
			return fmt.Errorf("touch playlist: %w", err)
		}
		return tx.Commit()
	}

	// RemoveTrackFromPlaylist removes trackID from a Static playlist.
	// Remaining positions are not compacted.
	func (db *DB) RemoveTrackFromPlaylist(ctx context.Context, playlistID model.PlaylistID, trackID model.TrackID) error {
		kind, err := db.playlistKind(ctx, playlistID)
		if err != nil {
			return err
		}
		if kind == model.PlaylistSmart {
			return ErrSmartPlaylistMembership
		}

		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_id=? AND track_id=?`,
			playlistID.String(), trackID.String())
		if err != nil {
			return fmt.Errorf("delete playlist track: %w", err)
		}
		if err := requireRowsAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE playlists SET modified_at=? WHERE id=?`,
			formatTime(timeNow()), playlistID.String()); err != nil {
			return fmt.Errorf("touch playlist: %w", err)
		}
		return tx.Commit()
	}

	// ListPlaylistTracks returns a Static playlist's tracks in stored position
	// order (gaps from removals are invisible to callers).
	func (db *DB) ListPlaylistTracks(ctx context.Context, playlistID model.PlaylistID) ([]model.Track, error) {
		rows, err := db.conn.QueryContext(ctx, `
		SELECT `+prefixColumns("t", trackColumns)+`
		FROM playlist_tracks pt
		JOIN tracks t ON t.id = pt.track_id
		WHERE pt.playlist_id = ?
		ORDER BY pt.position ASC`, playlistID.String())
			if err != nil {
				return nil, fmt.Errorf("list playlist tracks: %w", err)
			}
			defer rows.Close()
			return scanTracks(rows)
		}

		func (db *DB) listPlaylistTrackIDs(ctx context.Context, playlistID model.PlaylistID) ([]model.TrackID, error) {
			rows, err := db.conn.QueryContext(ctx, `SELECT track_id FROM playlist_tracks WHERE playlist_id=? ORDER BY position ASC`,
				playlistID.String())
			if err != nil {
				return nil, fmt.Errorf("list playlist track ids: %w", err)
			}
			defer rows.Close()
			var ids []model.TrackID
			for rows.Next() {
				var s string
				if err := rows.Scan(&s); err != nil {
					return nil, err
				}
				id, err := model.ParseTrackID(s)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
			return ids, rows.Err()
		}

		func (db *DB) playlistKind(ctx context.Context, id model.PlaylistID) (model.PlaylistKind, error) {
			var kind string
			err := db.conn.QueryRowContext(ctx, `SELECT kind FROM playlists WHERE id=?`, id.String()).Scan(&kind)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return "", ErrNotFound
				}
				return "", fmt.Errorf("lookup playlist kind: %w", err)
			}
			return model.PlaylistKind(kind), nil
		}

		func scanPlaylist(row rowScanner) (model.Playlist, error) {
			var (
				p model.Playlist
				idStr, kind, queryJSON, sort string
				hasMaxTracks, hasMaxDuration int64
				addedAt, modified string
			)
			err := row.Scan(&idStr, &p.Name, &p.Description, &kind, &queryJSON, &sort,
				&p.MaxTracks, &hasMaxTracks, &p.MaxDurationSecs, &hasMaxDuration, &addedAt, &modified)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return model.Playlist{}, ErrNotFound
				}
				return model.Playlist{}, fmt.Errorf("scan playlist: %w", err)
			}
			id, err := model.ParsePlaylistID(idStr)
			if err != nil {
				return model.Playlist{}, fmt.Errorf("parse playlist id: %w", err)
			}
			p.ID = id
			p.Kind = model.PlaylistKind(kind)
			p.Sort = model.SortOrder(sort)
			p.HasMaxTracks = intToBool(hasMaxTracks)
			p.HasMaxDuration = intToBool(hasMaxDuration)
			p.CreatedAt = parseTime(addedAt)
			p.ModifiedAt = parseTime(modified)
			q, err := unmarshalQuery(queryJSON)
			if err != nil {
				return model.Playlist{}, err
			}
			p.Query = q
			return p, nil
		}
