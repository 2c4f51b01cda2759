package roster

// gate.go implements single-flight control for sync runs.
//
// The gate uses a semaphore pattern with a single slot so at most one
// sync cycle touches the writer and cache at a time. Callers that find
// the slot occupied do not queue; they fail immediately with
// ErrSyncRunning so the scheduler and API triggers never pile up behind
// a slow fetch.
//
// The gate also supports graceful shutdown via WaitForDrain, which
// blocks until an in-flight sync completes.

import (
	"context"
	"sync"
	"time"
)

// syncGate serializes sync runs. Zero value is not usable; construct
// with newSyncGate.
type syncGate struct {
	semaphore chan struct{}

	mu     sync.RWMutex
	active bool
}

// newSyncGate creates a gate allowing one sync at a time.
func newSyncGate() *syncGate {
	return &syncGate{
		semaphore: make(chan struct{}, 1),
	}
}

// TryAcquire attempts to claim the slot without blocking.
// Returns true if the slot was acquired, false otherwise.
func (g *syncGate) TryAcquire() bool {
	select {
	case g.semaphore <- struct{}{}:
		g.mu.Lock()
		g.active = true
		g.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release frees the slot.
// Must be called exactly once for each successful TryAcquire.
func (g *syncGate) Release() {
	g.mu.Lock()
	g.active = false
	g.mu.Unlock()

	<-g.semaphore
}

// Busy reports whether a sync currently holds the slot.
func (g *syncGate) Busy() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// WaitForDrain blocks until the in-flight sync completes or the context
// is cancelled. Used for graceful shutdown so a running sync finishes
// before termination.
func (g *syncGate) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !g.Busy() {
				return nil
			}
		}
	}
}
