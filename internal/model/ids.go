package model

import "github.com/google/uuid"

// TrackID uniquely identifies a Track within the library.
type TrackID uuid.UUID

// AlbumID uniquely identifies an Album within the library.
type AlbumID uuid.UUID

// PlaylistID uniquely identifies a Playlist within the library.
type PlaylistID uuid.UUID

// NewTrackID returns a fresh random TrackID.
func NewTrackID() TrackID { return TrackID(uuid.New()) }

// NewAlbumID returns a fresh random AlbumID.
func NewAlbumID() AlbumID { return AlbumID(uuid.New()) }

// NewPlaylistID returns a fresh random PlaylistID.
func NewPlaylistID() PlaylistID { return PlaylistID(uuid.New()) }

func (id TrackID) String() string { return uuid.UUID(id).String() }
func (id AlbumID) String() string { return uuid.UUID(id).String() }
func (id PlaylistID) String() string { return uuid.UUID(id).String() }

func (id TrackID) IsZero() bool { return id == TrackID{} }
func (id AlbumID) IsZero() bool { return id == AlbumID{} }
func (id PlaylistID) IsZero() bool { return id == PlaylistID{} }

// ParseTrackID parses a canonical UUID string into a TrackID.
func ParseTrackID(s string) (TrackID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return TrackID{}, err
	}
	return TrackID(u), nil
}

// ParseAlbumID parses a canonical UUID string into an AlbumID.
func ParseAlbumID(s string) (AlbumID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return AlbumID{}, err
	}
	return AlbumID(u), nil
}

// ParsePlaylistID parses a canonical UUID string into a PlaylistID.
func ParsePlaylistID(s string) (PlaylistID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return PlaylistID{}, err
	}
	return PlaylistID(u), nil
}

func (id TrackID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id AlbumID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id PlaylistID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *TrackID) UnmarshalText(b []byte) error {
	parsed, err := ParseTrackID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AlbumID) UnmarshalText(b []byte) error {
	parsed, err := ParseAlbumID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PlaylistID) UnmarshalText(b []byte) error {
	parsed, err := ParsePlaylistID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
