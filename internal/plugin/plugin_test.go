package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/ariejan/apollo/internal/model"
)

func TestFireTrack_RunsCallbacksInRegistrationOrder(t *testing.T) {
	m := NewHookManager()
	var order []int
	m.RegisterTrackHook(HookOnImport, func(ctx context.Context, tr *model.Track) Verdict {
			order = append(order, 1)
			return ContinueVerdict
		})
	m.RegisterTrackHook(HookOnImport, func(ctx context.Context, tr *model.Track) Verdict {
			order = append(order, 2)
			return ContinueVerdict
		})
	track := model.Track{Title: "t"}
	kind, err := m.FireTrack(context.Background(), HookOnImport, &track)
	if err != nil {
		t.Fatal(err)
	}
	if kind != Continue {
		t.Fatalf("got %v", kind)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("got order %v", order)
	}
}

func TestFireTrack_SkipShortCircuitsWithoutError(t *testing.T) {
	m := NewHookManager()
	secondCalled := false
	m.RegisterTrackHook(HookOnImport, func(ctx context.Context, tr *model.Track) Verdict {
			return SkipVerdict("not interested")
		})
	m.RegisterTrackHook(HookOnImport, func(ctx context.Context, tr *model.Track) Verdict {
			secondCalled = true
			return ContinueVerdict
		})
	track := model.Track{Title: "t"}
	kind, err := m.FireTrack(context.Background(), HookOnImport, &track)
	if err != nil {
		t.Fatal(err)
	}
	if kind != Skip {
		t.Fatalf("got %v", kind)
	}
	if secondCalled {
		t.Fatal("expected second callback to be skipped")
	}
}

func TestFireTrack_AbortShortCircuitsAndReturnsError(t *testing.T) {
	m := NewHookManager()
	secondCalled := false
	m.RegisterTrackHook(HookOnImport, func(ctx context.Context, tr *model.Track) Verdict {
			return AbortVerdict("bad track")
		})
	m.RegisterTrackHook(HookOnImport, func(ctx context.Context, tr *model.Track) Verdict {
			secondCalled = true
			return ContinueVerdict
		})
	track := model.Track{Title: "t"}
	kind, err := m.FireTrack(context.Background(), HookOnImport, &track)
	if kind != Abort {
		t.Fatalf("got %v", kind)
	}
	var abortErr *AbortError
	if !errors.As(err, &abortErr) || abortErr.Reason != "bad track" {
		t.Fatalf("got %v", err)
	}
	if secondCalled {
		t.Fatal("expected second callback to be skipped after abort")
	}
}

func TestFireTrack_CallbackMutatesTrackInPlace(t *testing.T) {
	m := NewHookManager()
	m.RegisterTrackHook(HookPostImport, func(ctx context.Context, tr *model.Track) Verdict {
			tr.Title = "renamed"
			return ContinueVerdict
		})
	track := model.Track{Title: "original"}
	if _, err := m.FireTrack(context.Background(), HookPostImport, &track); err != nil {
		t.Fatal(err)
	}
	if track.Title != "renamed" {
		t.Fatalf("got %q", track.Title)
	}
}

func TestFireTrack_NoRegisteredCallbacksIsContinue(t *testing.T) {
	m := NewHookManager()
	track := model.Track{Title: "t"}
	kind, err := m.FireTrack(context.Background(), HookOnUpdate, &track)
	if err != nil || kind != Continue {
		t.Fatalf("got %v %v", kind, err)
	}
}

func TestFireAlbum_RunsInRegistrationOrderWithShortCircuit(t *testing.T) {
	m := NewHookManager()
	var order []int
	m.RegisterAlbumHook(HookOnAlbumImport, func(ctx context.Context, a *model.Album) Verdict {
			order = append(order, 1)
			return SkipVerdict("skip")
		})
	m.RegisterAlbumHook(HookOnAlbumImport, func(ctx context.Context, a *model.Album) Verdict {
			order = append(order, 2)
			return ContinueVerdict
		})
	album := model.Album{Title: "a"}
	kind, err := m.FireAlbum(context.Background(), HookOnAlbumImport, &album)
	if err != nil {
		t.Fatal(err)
	}
	if kind != Skip || len(order) != 1 {
		t.Fatalf("got %v %v", kind, order)
	}
}

func TestRegisterTrackHook_PanicsOnUnknownHook(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic for an unknown hook")
		}
	}()
	m := NewHookManager()
	m.RegisterTrackHook(Hook("bogus"), func(ctx context.Context, tr *model.Track) Verdict { return ContinueVerdict })
}
