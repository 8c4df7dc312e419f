// Package pace provides a fixed-interval pacer for external calls.
//
// The upstream data portal and the geocoding service both rate-limit
// aggressively, so every loop that talks to them inserts a courtesy delay
// between calls. Centralizing the delay here keeps the bookkeeping out of the
// fetch loops: callers just Wait before (or after) each call.
package pace

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces calls at least interval apart. The first Wait returns
// immediately.
type Pacer struct {
	lim *rate.Limiter
}

// New returns a pacer with the given minimum interval between calls.
// A non-positive interval yields a pacer that never waits.
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
