// Package latest coordinates keyed calls so that only the most recent one
// for a key delivers a result. Starting a call cancels the context of the
// call it replaces.
package latest

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by a call that a newer call for the same key replaced.
var ErrSuperseded = errors.New("request superseded by a newer request")

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// Group tracks the in-flight call per key. The zero value is ready to use.
type Group struct {
	mu      sync.Mutex
	seq     uint64
	current map[string]inflight
}

// Do runs fn under a context derived from ctx and returns fn's result with
// the call's sequence number. Sequence numbers grow monotonically across the
// whole group. If another Do for key starts before fn returns, this call's
// context is cancelled and it returns ErrSuperseded regardless of fn's outcome.
func Do[T any](g *Group, ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, uint64, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	seq := g.begin(key, cancel)
	result, err := fn(callCtx)

	if !g.finish(key, seq) {
		var zero T
		return zero, seq, ErrSuperseded
	}
	if err != nil {
		var zero T
		return zero, seq, err
	}
	return result, seq, nil
}

func (g *Group) begin(key string, cancel context.CancelFunc) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		g.current = make(map[string]inflight)
	}
	if prev, ok := g.current[key]; ok {
		prev.cancel()
	}
	g.seq++
	g.current[key] = inflight{seq: g.seq, cancel: cancel}
	return g.seq
}

// finish reports whether seq is still the latest call for key and clears it.
func (g *Group) finish(key string, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	cur, ok := g.current[key]
	if !ok || cur.seq != seq {
		return false
	}
	delete(g.current, key)
	return true
}

// InFlight returns the number of keys with a running call.
func (g *Group) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.current)
}
