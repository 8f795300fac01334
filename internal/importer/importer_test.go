package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/plugin"
	"github.com/ariejan/apollo/internal/sources/coverart"
	"github.com/ariejan/apollo/internal/sources/musicbrainz"
	"github.com/ariejan/apollo/internal/storage"
)

type fakeStore struct {
	tracks []model.Track
	albums []model.Album
	duplicateAt string // path that triggers ErrDuplicatePath
	failAlbumAt string // title that triggers a generic failure
}

func (f *fakeStore) AddTrack(ctx context.Context, t model.Track) error {
	if t.Path == f.duplicateAt {
		return storage.ErrDuplicatePath
	}
	f.tracks = append(f.tracks, t)
	return nil
}

func (f *fakeStore) AddAlbum(ctx context.Context, a model.Album) error {
	if a.Title == f.failAlbumAt {
		return errors.New("boom")
	}
	f.albums = append(f.albums, a)
	return nil
}

type fakeMetadata struct {
	recording *musicbrainz.Recording
	err error
	calls int
}

func (f *fakeMetadata) FindBestRecording(ctx context.Context, title, artist string, album *string, durationMs *uint64, minScore uint8) (*musicbrainz.Recording, error) {
	f.calls++
	return f.recording, f.err
}

type fakeCoverArt struct {
	calls []string
}

func (f *fakeCoverArt) GetFrontCover(ctx context.Context, releaseMBID string, size coverart.ImageSize) (coverart.CoverImage, error) {
	f.calls = append(f.calls, releaseMBID)
	return coverart.NewCoverImage("http://example.com/art.jpg", "cover-art-archive"), nil
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func minimalMP3() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00}
}

func TestImport_ScansAndPersistsTracks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	store := &fakeStore{}
	im := &Importer{Store: store}
	result, err := im.Import(context.Background(), Options{Roots: []string{dir}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 || result.Failed != 0 || result.Skipped != 0 {
		t.Fatalf("got %+v", result)
	}
	if len(store.tracks) != 1 {
		t.Fatalf("expected 1 persisted track, got %d", len(store.tracks))
	}
}

func TestImport_DuplicatePathIsSkippedNotFailed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	writeFile(t, path, minimalMP3())

	store := &fakeStore{duplicateAt: path}
	im := &Importer{Store: store}
	result, err := im.Import(context.Background(), Options{Roots: []string{dir}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 1 || result.Imported != 0 {
		t.Fatalf("got %+v", result)
	}
}

func TestImport_EnrichReplacesTitleArtistAndRecordingID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	rec := &musicbrainz.Recording{ID: "mbid-1", Title: "Authoritative Title", ArtistCredit: []musicbrainz.ArtistCredit{{Name: "Authoritative Artist"}}}
	metadata := &fakeMetadata{recording: rec}
	store := &fakeStore{}
	im := &Importer{Store: store, Metadata: metadata}
	_, err := im.Import(context.Background(), Options{Roots: []string{dir}, Enrich: true, EnrichThreshold: 80}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if metadata.calls != 1 {
		t.Fatalf("expected 1 metadata lookup, got %d", metadata.calls)
	}
	if len(store.tracks) != 1 || store.tracks[0].Title != "Authoritative Title" || store.tracks[0].RecordingMBID != "mbid-1" {
		t.Fatalf("got %+v", store.tracks)
	}
}

func TestImport_EnrichSkipsTracksWithExistingRecordingID(t *testing.T) {
	store := &fakeStore{}
	metadata := &fakeMetadata{recording: &musicbrainz.Recording{ID: "should-not-be-used"}}
	im := &Importer{Store: store, Metadata: metadata}
	tracks := []model.Track{{Title: "t", Artist: "a", RecordingMBID: "already-known"}}
	updated, _ := im.enrich(context.Background(), tracks, Options{}, nil, nil)
	if metadata.calls != 0 {
		t.Fatalf("expected no lookups for a track with a recording id, got %d calls", metadata.calls)
	}
	if updated[0].RecordingMBID != "already-known" {
		t.Fatalf("got %+v", updated[0])
	}
}

func TestGroupIntoAlbums_BucketsByAlbumArtistAndTitle(t *testing.T) {
	tracks := []model.Track{
		{Title: "A1", Artist: "Radiohead", Album: "OK Computer", Year: 1997, HasYear: true},
		{Title: "A2", Artist: "Radiohead", Album: "OK Computer"},
		{Title: "B1", Artist: "Radiohead", Album: "In Rainbows"},
	}
	albums, byIndex := groupIntoAlbums(tracks)
	if len(albums) != 2 {
		t.Fatalf("got %d albums, want 2", len(albums))
	}
	okComputer := albums[0]
	if okComputer.Title != "OK Computer" || okComputer.TrackCount != 2 || !okComputer.HasYear || okComputer.Year != 1997 {
		t.Fatalf("got %+v", okComputer)
	}
	if byIndex[0] != okComputer.ID || byIndex[1] != okComputer.ID {
		t.Fatalf("expected tracks 0 and 1 mapped to the same album")
	}
	if byIndex[2] == okComputer.ID {
		t.Fatalf("expected track 2 mapped to a different album")
	}
}

func TestGroupIntoAlbums_IgnoresTracksWithoutAlbum(t *testing.T) {
	tracks := []model.Track{{Title: "t", Artist: "a"}}
	albums, byIndex := groupIntoAlbums(tracks)
	if len(albums) != 0 || len(byIndex) != 0 {
		t.Fatalf("got %+v %+v", albums, byIndex)
	}
}

func TestImport_GroupIntoAlbumsPersistsAlbumAndLinksTracks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	store := &fakeStore{}
	im := &Importer{Store: store}
	_, err := im.Import(context.Background(), Options{Roots: []string{dir}, GroupIntoAlbums: true}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(store.albums) != 1 {
		t.Fatalf("expected 1 album persisted, got %d", len(store.albums))
	}
	if len(store.tracks) != 1 || store.tracks[0].AlbumID != store.albums[0].ID {
		t.Fatalf("expected persisted track to carry the new album id, got %+v", store.tracks)
	}
}

func TestImport_FetchCoverArtCallsClientOncePerAlbumWithRelease(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	rec := &musicbrainz.Recording{ID: "mbid-1", Title: "t", Releases: []musicbrainz.Release{{ID: "release-1", Title: "OK Computer"}}}
	metadata := &fakeMetadata{recording: rec}
	cover := &fakeCoverArt{}
	store := &fakeStore{}
	im := &Importer{Store: store, Metadata: metadata, CoverArt: cover}
	_, err := im.Import(context.Background(), Options{
			Roots: []string{dir}, Enrich: true, GroupIntoAlbums: true, FetchCoverArt: true,
		}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cover.calls) != 1 || cover.calls[0] != "release-1" {
		t.Fatalf("got cover art calls %v", cover.calls)
	}
}

func TestImport_WriteTagsFailureIsRecordedAsFailed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	store := &fakeStore{}
	im := &Importer{Store: store, WriteTags: func(t model.Track) error { return errors.New("write denied") }}
	result, err := im.Import(context.Background(), Options{Roots: []string{dir}, WriteTags: true}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 || len(result.Errors) != 1 {
		t.Fatalf("got %+v", result)
	}
	// the track is still persisted even though tag-writing failed
	if len(store.tracks) != 1 {
		t.Fatalf("expected track to still be persisted, got %d", len(store.tracks))
	}
}

func TestImport_CancelBeforeRunSurfacesPartialResult(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	cancel := &Cancel{}
	cancel.Cancel()
	store := &fakeStore{}
	im := &Importer{Store: store}
	result, err := im.Import(context.Background(), Options{Roots: []string{dir}}, cancel, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Cancelled {
		t.Fatalf("expected Cancelled=true, got %+v", result)
	}
	if len(store.tracks) != 0 {
		t.Fatalf("expected no tracks persisted after cancellation, got %d", len(store.tracks))
	}
}

func TestImport_ProgressEventsFireInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	var kinds []string
	sink := func(e Event) { kinds = append(kinds, e.Kind) }
	store := &fakeStore{}
	im := &Importer{Store: store}
	_, err := im.Import(context.Background(), Options{Roots: []string{dir}}, nil, sink)
	if err != nil {
		t.Fatal(err)
	}
	if len(kinds) == 0 || kinds[0] != "scanning" || kinds[len(kinds)-1] != "complete" {
		t.Fatalf("got event kinds %v", kinds)
	}
	foundImporting := false
	for _, k := range kinds {
		if k == "importing" {
			foundImporting = true
		}
	}
	if !foundImporting {
		t.Fatalf("expected an importing event, got %v", kinds)
	}
}

func TestImport_OnImportSkipVerdictSkipsTrackWithoutPersisting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	hooks := plugin.NewHookManager()
	hooks.RegisterTrackHook(plugin.HookOnImport, func(ctx context.Context, tr *model.Track) plugin.Verdict {
			return plugin.SkipVerdict("not wanted")
		})
	store := &fakeStore{}
	im := &Importer{Store: store, Hooks: hooks}
	result, err := im.Import(context.Background(), Options{Roots: []string{dir}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 1 || result.Imported != 0 || len(store.tracks) != 0 {
		t.Fatalf("got %+v, store=%+v", result, store.tracks)
	}
}

func TestImport_OnImportAbortVerdictPropagatesError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	hooks := plugin.NewHookManager()
	hooks.RegisterTrackHook(plugin.HookOnImport, func(ctx context.Context, tr *model.Track) plugin.Verdict {
			return plugin.AbortVerdict("rejected by policy")
		})
	store := &fakeStore{}
	im := &Importer{Store: store, Hooks: hooks}
	_, err := im.Import(context.Background(), Options{Roots: []string{dir}}, nil, nil)
	var abortErr *plugin.AbortError
	if !errors.As(err, &abortErr) {
		t.Fatalf("expected an *plugin.AbortError, got %v", err)
	}
}

func TestImport_PostImportHookObservesPersistedTrack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), minimalMP3())

	var seenPaths []string
	hooks := plugin.NewHookManager()
	hooks.RegisterTrackHook(plugin.HookPostImport, func(ctx context.Context, tr *model.Track) plugin.Verdict {
			seenPaths = append(seenPaths, tr.Path)
			return plugin.ContinueVerdict
		})
	store := &fakeStore{}
	im := &Importer{Store: store, Hooks: hooks}
	result, err := im.Import(context.Background(), Options{Roots: []string{dir}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 || len(seenPaths) != 1 {
		t.Fatalf("got result=%+v seenPaths=%v", result, seenPaths)
	}
}

func TestCancel_CancelledReportsTrueAfterCancel(t *testing.T) {
	var c Cancel
	if c.Cancelled() {
		t.Fatal("expected Cancelled() to be false initially")
	}
	c.Cancel()
	if !c.Cancelled() {
		t.Fatal("expected Cancelled() to be true after Cancel()")
	}
}
