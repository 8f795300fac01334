package playlist

import (
	"context"
	"testing"
	"time"

	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/query"
	"github.com/ariejan/apollo/internal/storage"
)

type fakeStore struct {
	queryTracksCalls []fakeQueryCall
	queryResult []model.Track
	listResult []model.Track
}

type fakeQueryCall struct {
	filter storage.Filter
	sort model.SortOrder
	limit int
}

func (f *fakeStore) QueryTracks(ctx context.Context, filter storage.Filter, sort model.SortOrder, limit int) ([]model.Track, error) {
	f.queryTracksCalls = append(f.queryTracksCalls, fakeQueryCall{filter, sort, limit})
	return f.queryResult, nil
}

func (f *fakeStore) ListPlaylistTracks(ctx context.Context, playlistID model.PlaylistID) ([]model.Track, error) {
	return f.listResult, nil
}

func trackWithDuration(ms int64) model.Track {
	return model.Track{ID: model.NewTrackID(), Title: "t", Artist: "a", DurationMs: ms, CreatedAt: time.Now()}
}

func TestTracks_StaticDelegatesToListPlaylistTracks(t *testing.T) {
	store := &fakeStore{listResult: []model.Track{trackWithDuration(1000)}}
	p := model.Playlist{Kind: model.PlaylistStatic, ID: model.NewPlaylistID()}
	tracks, err := Tracks(context.Background(), store, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks", len(tracks))
	}
}

func TestTracks_SmartCompilesAndAppliesMaxTracksAtStorage(t *testing.T) {
	store := &fakeStore{queryResult: []model.Track{trackWithDuration(1000)}}
	p := model.Playlist{
		Kind: model.PlaylistSmart,
		Query: query.Text{Value: "rock"},
		Sort: model.SortYearDesc,
		MaxTracks: 5,
		HasMaxTracks: true,
	}
	_, err := Tracks(context.Background(), store, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(store.queryTracksCalls) != 1 {
		t.Fatalf("expected exactly one QueryTracks call, got %d", len(store.queryTracksCalls))
	}
	call := store.queryTracksCalls[0]
	if call.sort != model.SortYearDesc || call.limit != 5 {
		t.Fatalf("got sort=%v limit=%d", call.sort, call.limit)
	}
}

func TestTracks_SmartAppliesGreedyPrefixMaxDuration(t *testing.T) {
	// 100s, 50s, 80s in sorted order: 100 fits (100<=150), 50 would bring
	// total to 150 (fits exactly), 80 would overflow (230>150) and is
	// skipped, but nothing shorter follows so greedy-prefix keeps the
	// first two.
	store := &fakeStore{queryResult: []model.Track{
			trackWithDuration(100_000),
			trackWithDuration(50_000),
			trackWithDuration(80_000),
		}}
	p := model.Playlist{
		Kind: model.PlaylistSmart,
		Query: query.All{},
		MaxDurationSecs: 150,
		HasMaxDuration: true,
	}
	tracks, err := Tracks(context.Background(), store, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
}

func TestTracks_SmartGreedyPrefixKeepsShorterTrackAfterOverflow(t *testing.T) {
	// 100s then 80s (would overflow 100+80=180>150, skipped) then 40s
	// (100+40=140<=150, kept) — later shorter track survives an earlier
	// overflow, the defining greedy-prefix behavior.
	store := &fakeStore{queryResult: []model.Track{
			trackWithDuration(100_000),
			trackWithDuration(80_000),
			trackWithDuration(40_000),
		}}
	p := model.Playlist{
		Kind: model.PlaylistSmart,
		Query: query.All{},
		MaxDurationSecs: 150,
		HasMaxDuration: true,
	}
	tracks, err := Tracks(context.Background(), store, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2 (100s + 40s)", len(tracks))
	}
	if tracks[0].DurationMs != 100_000 || tracks[1].DurationMs != 40_000 {
		t.Fatalf("got durations %v", []int64{tracks[0].DurationMs, tracks[1].DurationMs})
	}
}

func TestTracks_UnknownKindErrors(t *testing.T) {
	store := &fakeStore{}
	_, err := Tracks(context.Background(), store, model.Playlist{Kind: "bogus"})
	if err == nil {
		t.Fatal("expected an error for an unknown playlist kind")
	}
}
