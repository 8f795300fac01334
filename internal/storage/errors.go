package storage

import "errors"

var (
	// ErrNotFound is returned when a Get/Update/Remove targets an id that
	// does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicatePath is returned when adding a track whose path already
	// exists in the library.
	ErrDuplicatePath = errors.New("storage: track path already exists")
	// ErrSmartPlaylistMembership is returned by playlist membership
	// operations (add/remove track) against a Smart playlist; membership
	// is derived from the playlist's query, not stored directly.
	ErrSmartPlaylistMembership = errors.New("storage: membership operations are not supported on smart playlists")
)
