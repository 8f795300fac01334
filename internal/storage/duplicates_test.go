package storage

import (
	"context"
	"testing"
)

func TestFindExactDuplicates_GroupsByFileHash(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := newTrack("Song", "Artist", "Album")
	a.Path = "/music/a.flac"
	a.FileHash = "abc123"
	b := newTrack("Song", "Artist", "Album")
	b.Path = "/music/b.flac"
	b.FileHash = "abc123"
	c := newTrack("Other", "Someone", "Album2")
	c.Path = "/music/c.flac"
	c.FileHash = "" // excluded, empty hash

	if err := db.AddTrack(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := db.AddTrack(ctx, b); err != nil {
		t.Fatal(err)
	}
	if err := db.AddTrack(ctx, c); err != nil {
		t.Fatal(err)
	}

	groups, err := db.FindExactDuplicates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || len(groups[0].Tracks) != 2 {
		t.Fatalf("got %+v", groups)
	}
}

func TestFindSimilarDuplicates_WithinTolerance(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := newTrack("Same Song", "Artist", "Album A")
	a.Path = "/music/a.flac"
	a.DurationMs = 200_000
	b := newTrack("same song", "artist", "Album B")
	b.Path = "/music/b.flac"
	b.DurationMs = 202_000
	c := newTrack("same song", "artist", "Album C")
	c.Path = "/music/c.flac"
	c.DurationMs = 260_000 // outside tolerance of the first cluster

	if err := db.AddTrack(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := db.AddTrack(ctx, b); err != nil {
		t.Fatal(err)
	}
	if err := db.AddTrack(ctx, c); err != nil {
		t.Fatal(err)
	}

	groups, err := db.FindSimilarDuplicates(ctx, 5_000)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || len(groups[0].Tracks) != 2 {
		t.Fatalf("got %+v", groups)
	}
}

func TestFindExactDuplicates_NoneReturnsEmpty(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	a := newTrack("Song", "Artist", "Album")
	a.FileHash = "unique"
	if err := db.AddTrack(ctx, a); err != nil {
		t.Fatal(err)
	}
	groups, err := db.FindExactDuplicates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 {
		t.Fatalf("got %+v, want none", groups)
	}
}
