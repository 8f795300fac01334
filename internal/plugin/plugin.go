// Package plugin implements a lifecycle hook manager: a closed set of
// named hooks firing in registration order against Track and
// Album values, each callback returning a verdict that can short-circuit
// the rest or abort the caller entirely. The manager itself only defines
// the in-process dispatch and the hook/verdict vocabulary; a real plugin
// VM host is a PluginHost implementation swapped in at wiring time.
package plugin

import (
	"context"
	"fmt"

	"github.com/ariejan/apollo/internal/model"
)

// Hook is one of the closed set of lifecycle points plugins can observe.
type Hook string

const (
	HookOnImport Hook = "on_import"
	HookPostImport Hook = "post_import"
	HookOnUpdate Hook = "on_update"
	HookPostUpdate Hook = "post_update"
	HookOnAlbumImport Hook = "on_album_import"
	HookPostAlbumImport Hook = "post_album_import"
	HookOnInit Hook = "on_init"
	HookOnClose Hook = "on_close"
)

var validHooks = map[Hook]bool{
	HookOnImport: true, HookPostImport: true,
	HookOnUpdate: true, HookPostUpdate: true,
	HookOnAlbumImport: true, HookPostAlbumImport: true,
	HookOnInit: true, HookOnClose: true,
}

// VerdictKind is the outcome a callback returns for a single hook firing.
type VerdictKind int

const (
	// Continue lets subsequent callbacks for the same hook run.
	Continue VerdictKind = iota
	// Skip short-circuits the remaining callbacks for this hook firing,
	// but does not propagate as an error to the caller.
	Skip
	// Abort short-circuits the remaining callbacks and propagates an
	// error up to the caller.
	Abort
)

// Verdict is a callback's response to a single hook firing.
type Verdict struct {
	Kind VerdictKind
	Reason string
}

// ContinueVerdict is the zero-value, most common verdict.
var ContinueVerdict = Verdict{Kind: Continue}

// SkipVerdict short-circuits the remaining callbacks without an error.
func SkipVerdict(reason string) Verdict { return Verdict{Kind: Skip, Reason: reason} }

// AbortVerdict short-circuits the remaining callbacks and propagates reason
// as an error to the caller.
func AbortVerdict(reason string) Verdict { return Verdict{Kind: Abort, Reason: reason} }

// AbortError is returned by Fire* when a callback's verdict is Abort.
type AbortError struct {
	Hook Hook
	Reason string
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("plugin: %s aborted: %s", e.Hook, e.Reason)
}

// TrackCallback observes or mutates t in place and returns a verdict.
type TrackCallback func(ctx context.Context, t *model.Track) Verdict

// AlbumCallback observes or mutates a model.Album in place and returns a
// verdict.
type AlbumCallback func(ctx context.Context, a *model.Album) Verdict

// HookManager dispatches lifecycle hooks to registered callbacks in
// registration order.
type HookManager struct {
	trackHooks map[Hook][]TrackCallback
	albumHooks map[Hook][]AlbumCallback
}

// NewHookManager returns an empty HookManager.
func NewHookManager() *HookManager {
	return &HookManager{
		trackHooks: make(map[Hook][]TrackCallback),
		albumHooks: make(map[Hook][]AlbumCallback),
	}
}

// RegisterTrackHook appends cb to hook's registration order. Panics if hook
// is not one of the closed set.
func (m *HookManager) RegisterTrackHook(hook Hook, cb TrackCallback) {
	requireValidHook(hook)
	m.trackHooks[hook] = append(m.trackHooks[hook], cb)
}

// RegisterAlbumHook appends cb to hook's registration order. Panics if hook
// is not one of the closed set.
func (m *HookManager) RegisterAlbumHook(hook Hook, cb AlbumCallback) {
	requireValidHook(hook)
	m.albumHooks[hook] = append(m.albumHooks[hook], cb)
}

func requireValidHook(hook Hook) {
	if !validHooks[hook] {
		panic(fmt.Sprintf("plugin: unknown hook %q", hook))
	}
}

// FireTrack runs hook's registered track callbacks in registration order
// against t. A Skip verdict stops the remaining callbacks and returns
// (Skip, nil). An Abort verdict stops the remaining callbacks and returns
// an *AbortError. No registered callbacks is a no-op returning
// (Continue, nil).
func (m *HookManager) FireTrack(ctx context.Context, hook Hook, t *model.Track) (VerdictKind, error) {
	for _, cb := range m.trackHooks[hook] {
		v := cb(ctx, t)
		switch v.Kind {
		case Skip:
			return Skip, nil
		case Abort:
			return Abort, &AbortError{Hook: hook, Reason: v.Reason}
		}
	}
	return Continue, nil
}

// FireAlbum runs hook's registered album callbacks in registration order
// against a, with the same short-circuit semantics as FireTrack.
func (m *HookManager) FireAlbum(ctx context.Context, hook Hook, a *model.Album) (VerdictKind, error) {
	for _, cb := range m.albumHooks[hook] {
		v := cb(ctx, a)
		switch v.Kind {
		case Skip:
			return Skip, nil
		case Abort:
			return Abort, &AbortError{Hook: hook, Reason: v.Reason}
		}
	}
	return Continue, nil
}
