package storage

// schemaStatements is applied in order on every Open call; each statement is
// idempotent (IF NOT EXISTS) so repeated opens against an existing database
// are no-ops, matching CineVault's ensureSchema idiom.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tracks (
	id TEXT PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	artist TEXT NOT NULL,
	album_artist TEXT NOT NULL DEFAULT '',
	album TEXT NOT NULL DEFAULT '',
	album_id TEXT NOT NULL DEFAULT '',
	track_number INTEGER NOT NULL DEFAULT 0,
	track_total INTEGER NOT NULL DEFAULT 0,
	disc_number INTEGER NOT NULL DEFAULT 0,
	disc_total INTEGER NOT NULL DEFAULT 0,
	year INTEGER NOT NULL DEFAULT 0,
	has_year INTEGER NOT NULL DEFAULT 0,
	genres TEXT NOT NULL DEFAULT '[]',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	bitrate INTEGER NOT NULL DEFAULT 0,
	has_bitrate INTEGER NOT NULL DEFAULT 0,
	sample_rate INTEGER NOT NULL DEFAULT 0,
	has_sample_rate INTEGER NOT NULL DEFAULT 0,
	channels INTEGER NOT NULL DEFAULT 0,
	has_channels INTEGER NOT NULL DEFAULT 0,
	format TEXT NOT NULL DEFAULT '',
	recording_mbid TEXT NOT NULL DEFAULT '',
	fingerprint_id TEXT NOT NULL DEFAULT '',
	added_at TEXT NOT NULL,
	modified_at TEXT NOT NULL,
	file_hash TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_list_order ON tracks(artist, album, disc_number, track_number);`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_album_id ON tracks(album_id);`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_file_hash ON tracks(file_hash);`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_artist_title ON tracks(artist, title);`,

	`CREATE TABLE IF NOT EXISTS albums (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	artist TEXT NOT NULL,
	year INTEGER NOT NULL DEFAULT 0,
	has_year INTEGER NOT NULL DEFAULT 0,
	genres TEXT NOT NULL DEFAULT '[]',
	track_count INTEGER NOT NULL DEFAULT 0,
	disc_count INTEGER NOT NULL DEFAULT 0,
	release_mbid TEXT NOT NULL DEFAULT '',
	added_at TEXT NOT NULL,
	modified_at TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_albums_list_order ON albums(artist, year, title);`,

	`CREATE TABLE IF NOT EXISTS playlists (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	kind TEXT NOT NULL,
	query TEXT NOT NULL DEFAULT '',
	sort TEXT NOT NULL DEFAULT '',
	max_tracks INTEGER NOT NULL DEFAULT 0,
	has_max_tracks INTEGER NOT NULL DEFAULT 0,
	max_duration_secs INTEGER NOT NULL DEFAULT 0,
	has_max_duration INTEGER NOT NULL DEFAULT 0,
	added_at TEXT NOT NULL,
	modified_at TEXT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS playlist_tracks (
	playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
	track_id TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	added_at TEXT NOT NULL,
	PRIMARY KEY (playlist_id, track_id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_playlist_tracks_order ON playlist_tracks(playlist_id, position);`,

	// External-content FTS5 index: tracks owns the data, tracks_fts only
	// stores the inverted index. Triggers keep it in sync since sqlite
	// does not maintain external-content tables automatically.
	`CREATE VIRTUAL TABLE IF NOT EXISTS tracks_fts USING fts5(
	title, artist, album,
	content='tracks', content_rowid='rowid'
	);`,
	`CREATE TRIGGER IF NOT EXISTS tracks_ai AFTER INSERT ON tracks BEGIN
	INSERT INTO tracks_fts(rowid, title, artist, album) VALUES (new.rowid, new.title, new.artist, new.album);
	END;`,
	`CREATE TRIGGER IF NOT EXISTS tracks_ad AFTER DELETE ON tracks BEGIN
	INSERT INTO tracks_fts(tracks_fts, rowid, title, artist, album) VALUES ('delete', old.rowid, old.title, old.artist, old.album);
	END;`,
	`CREATE TRIGGER IF NOT EXISTS tracks_au AFTER UPDATE ON tracks BEGIN
	INSERT INTO tracks_fts(tracks_fts, rowid, title, artist, album) VALUES ('delete', old.rowid, old.title, old.artist, old.album);
	INSERT INTO tracks_fts(rowid, title, artist, album) VALUES (new.rowid, new.title, new.artist, new.album);
	END;`,
}
