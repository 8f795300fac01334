package model

import (
	"errors"
	"time"

	"github.com/ariejan/apollo/internal/query"
)

// PlaylistKind distinguishes Static membership lists from Smart queries.
type PlaylistKind string

const (
	PlaylistStatic PlaylistKind = "static"
	PlaylistSmart PlaylistKind = "smart"
)

// SortOrder is the closed set of smart-playlist sort strategies.
type SortOrder string

const (
	SortArtist SortOrder = "artist"
	SortAlbum SortOrder = "album"
	SortTitle SortOrder = "title"
	SortAddedDesc SortOrder = "added_desc"
	SortAddedAsc SortOrder = "added_asc"
	SortYearDesc SortOrder = "year_desc"
	SortYearAsc SortOrder = "year_asc"
	SortRandom SortOrder = "random"
)

var ErrStaticHasQuery = errors.New("model: static playlist must not carry a query")
var ErrSmartMissingQuery = errors.New("model: smart playlist requires a query")
var ErrSmartNoMembership = errors.New("model: membership operations are not supported on smart playlists")

// Playlist is either an ordered, stored list of track ids (Static) or a
// query evaluated at read time (Smart).
type Playlist struct {
	ID PlaylistID
	Name string
	Description string
	Kind PlaylistKind

	// Static-only.
	TrackIDs []TrackID

	// Smart-only.
	Query query.Query
	Sort SortOrder
	MaxTracks int
	HasMaxTracks bool
	MaxDurationSecs int
	HasMaxDuration bool

	CreatedAt time.Time
	ModifiedAt time.Time
}

// Validate enforces the Static/Smart invariants on Playlist.
func (p Playlist) Validate() error {
	switch p.Kind {
	case PlaylistStatic:
		if p.Query != nil {
			return ErrStaticHasQuery
		}
	case PlaylistSmart:
		if p.Query == nil {
			return ErrSmartMissingQuery
		}
	}
	return nil
}

// IsSmart reports whether the playlist's membership is query-derived.
func (p Playlist) IsSmart() bool { return p.Kind == PlaylistSmart }
