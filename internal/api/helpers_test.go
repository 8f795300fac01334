package api

import (
	"context"

	"github.com/ariejan/apollo/internal/importer"
	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/storage"
)

type fakeLibrary struct {
	tracks map[model.TrackID]model.Track
	albums map[model.AlbumID]model.Album
	playlists map[model.PlaylistID]model.Playlist

	searchResults []model.Track
	queryResults []model.Track

	addPlaylistErr error
	updatePlaylistErr error
	removePlaylistErr error
	addTrackErr error
	removeTrackErr error
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		tracks: map[model.TrackID]model.Track{},
		albums: map[model.AlbumID]model.Album{},
		playlists: map[model.PlaylistID]model.Playlist{},
	}
}

func (f *fakeLibrary) GetTrack(ctx context.Context, id model.TrackID) (model.Track, error) {
	t, ok := f.tracks[id]
	if !ok {
		return model.Track{}, storage.ErrNotFound
	}
	return t, nil
}

func (f *fakeLibrary) ListTracks(ctx context.Context, limit, offset int) ([]model.Track, error) {
	var all []model.Track
	for _, t := range f.tracks {
		all = append(all, t)
	}
	return paginate(all, limit, offset), nil
}

func (f *fakeLibrary) CountTracks(ctx context.Context) (int, error) { return len(f.tracks), nil }

func (f *fakeLibrary) SearchTracks(ctx context.Context, queryString string, limit, offset int) ([]model.Track, error) {
	return f.searchResults, nil
}

func (f *fakeLibrary) QueryTracks(ctx context.Context, filter storage.Filter, sort model.SortOrder, limit int) ([]model.Track, error) {
	return f.queryResults, nil
}

func (f *fakeLibrary) GetAlbum(ctx context.Context, id model.AlbumID) (model.Album, error) {
	a, ok := f.albums[id]
	if !ok {
		return model.Album{}, storage.ErrNotFound
	}
	return a, nil
}

func (f *fakeLibrary) ListAlbums(ctx context.Context, limit, offset int) ([]model.Album, error) {
	var all []model.Album
	for _, a := range f.albums {
		all = append(all, a)
	}
	return all, nil
}

func (f *fakeLibrary) CountAlbums(ctx context.Context) (int, error) { return len(f.albums), nil }

func (f *fakeLibrary) GetPlaylist(ctx context.Context, id model.PlaylistID) (model.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return model.Playlist{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeLibrary) ListPlaylists(ctx context.Context, limit, offset int) ([]model.Playlist, error) {
	var all []model.Playlist
	for _, p := range f.playlists {
		all = append(all, p)
	}
	return all, nil
}

func (f *fakeLibrary) CountPlaylists(ctx context.Context) (int, error) { return len(f.playlists), nil }

func (f *fakeLibrary) AddPlaylist(ctx context.Context, p model.Playlist) error {
	if f.addPlaylistErr != nil {
		return f.addPlaylistErr
	}
	f.playlists[p.ID] = p
	return nil
}

func (f *fakeLibrary) UpdatePlaylist(ctx context.Context, p model.Playlist) error {
	if f.updatePlaylistErr != nil {
		return f.updatePlaylistErr
	}
	if _, ok := f.playlists[p.ID]; !ok {
		return storage.ErrNotFound
	}
	f.playlists[p.ID] = p
	return nil
}

func (f *fakeLibrary) RemovePlaylist(ctx context.Context, id model.PlaylistID) error {
	if f.removePlaylistErr != nil {
		return f.removePlaylistErr
	}
	if _, ok := f.playlists[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.playlists, id)
	return nil
}

func (f *fakeLibrary) ListPlaylistTracks(ctx context.Context, playlistID model.PlaylistID) ([]model.Track, error) {
	p := f.playlists[playlistID]
	var out []model.Track
	for _, id := range p.TrackIDs {
		out = append(out, f.tracks[id])
	}
	return out, nil
}

func (f *fakeLibrary) AddTrackToPlaylist(ctx context.Context, playlistID model.PlaylistID, trackID model.TrackID) error {
	return f.addTrackErr
}

func (f *fakeLibrary) RemoveTrackFromPlaylist(ctx context.Context, playlistID model.PlaylistID, trackID model.TrackID) error {
	return f.removeTrackErr
}

func paginate(items []model.Track, limit, offset int) []model.Track {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type fakeImporter struct {
	result importer.ImportResult
	err error
	opts importer.Options
}

func (f *fakeImporter) Import(ctx context.Context, opts importer.Options, cancel *importer.Cancel, sink importer.ProgressSink) (importer.ImportResult, error) {
	f.opts = opts
	return f.result, f.err
}

func newTestServer(lib *fakeLibrary, imp *fakeImporter) *Server {
	return NewServer(lib, imp, nil, Config{DefaultLimit: 50, MaxLimit: 500})
}
