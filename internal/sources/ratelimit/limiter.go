// Package ratelimit provides the shared per-client-instance minimum-interval
// limiter used by internal/sources/musicbrainz, acoustid, and coverart, each
// of which requires sleeping the remainder of a minimum spacing before
// issuing its next outbound request.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between requests made through a single
// client instance. It generalizes CineVault's mutex-guarded "last request"
// timestamp into golang.org/x/time/rate's token bucket, configured with
// burst 1 so at most one request is ever admitted without waiting.
type Limiter struct {
	l *rate.Limiter
}

// New creates a Limiter that admits at most one request per interval,
// blocking callers for the remainder of the interval otherwise.
func New(interval time.Duration) *Limiter {
	return &Limiter{l: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next request is allowed to proceed, or ctx is
// cancelled first.
func (lim *Limiter) Wait(ctx context.Context) error {
	return lim.l.Wait(ctx)
}
