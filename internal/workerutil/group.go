package workerutil

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Group owns a set of named workers that share one cancellation scope.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	opts   RecoveryOptions
}

// NewGroup derives a cancellable scope from parent. opts applies to every
// worker started with Go.
func NewGroup(parent context.Context, opts RecoveryOptions) *Group {
	ctx, cancel := context.WithCancel(parent)
	return &Group{ctx: ctx, cancel: cancel, opts: opts}
}

// Context returns the group's scope.
func (g *Group) Context() context.Context {
	return g.ctx
}

// Go starts fn under panic recovery.
func (g *Group) Go(name string, fn func(ctx context.Context)) {
	slog.Debug("[DEBUG-WORKER] starting worker", "worker", name)
	RunWithPanicRecovery(g.ctx, name, &g.wg, fn, g.opts)
}

// Stop cancels the group and waits up to timeout for workers to return.
// It reports whether every worker finished in time.
func (g *Group) Stop(timeout time.Duration) bool {
	g.cancel()
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	if timeout <= 0 {
		<-done
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		slog.Warn("[WARN-WORKER] workers did not stop before timeout", "timeout", timeout)
		return false
	}
}

// Every calls fn each interval until ctx is done. A non-positive interval
// returns immediately.
func Every(ctx context.Context, interval time.Duration, fn func()) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
