package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// runGuard — keeps a named task from overlapping with itself
// ─────────────────────────────────────────────────────────────

// runGuard lets at most one run of each named task proceed. A cron tick
// that fires while the previous backup is still writing is skipped.
type runGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock marks name as running and reports whether it was free.
func (g *runGuard) TryLock(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, busy := g.running[name]; busy {
		return false
	}
	g.running[name] = struct{}{}
	g.wg.Add(1)
	return true
}

func (g *runGuard) Unlock(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.running[name]; !ok {
		return
	}
	delete(g.running, name)
	g.wg.Done()
}

// Wait blocks until nothing runs or ctx ends.
func (g *runGuard) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
