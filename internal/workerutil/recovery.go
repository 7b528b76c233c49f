// Package workerutil runs the app's background goroutines (key hook, UI
// queue, autosave and config watcher) with panic recovery and restart.
package workerutil

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

const (
	// defaultInitialBackoff is the delay before the first restart after a
	// worker panic. Doubles on each attempt up to defaultMaxBackoff.
	defaultInitialBackoff = 100 * time.Millisecond

	// defaultMaxBackoff caps the delay between restart attempts.
	defaultMaxBackoff = 5 * time.Second

	// defaultMaxRetries limits the total runs before the worker is given up
	// on. At 100ms doubling to 5s, 10 attempts span roughly 30 seconds.
	defaultMaxRetries = 10
)

// RecoveryOptions configures the panic recovery behavior for
// RunWithPanicRecovery. Zero-value fields use the defaults:
// InitialBackoff=100ms, MaxBackoff=5s, MaxRetries=10. Nil callbacks are
// no-ops.
//
// Zero-value semantics for numeric fields:
//   - A zero or negative value means "use default"; applyDefaults() replaces it.
//   - To disable restarts, set MaxRetries to 1 (the worker runs once; if it
//     panics, OnPanic and then OnFatal are called with no restart).
//   - There is no "infinite retries" mode.
type RecoveryOptions struct {
	// InitialBackoff is the delay before the first restart attempt.
	// 0 means default (defaultInitialBackoff).
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff between restart attempts.
	// 0 means default (defaultMaxBackoff). A value below InitialBackoff is
	// raised to InitialBackoff with a warning.
	MaxBackoff time.Duration

	// MaxRetries limits the total runs of the worker, the first run included.
	// 0 means default (defaultMaxRetries). Set to 1 for "no retries".
	MaxRetries int

	// OnPanic is called after each recovered panic, before the backoff wait.
	// worker is the worker name, attempt is 1-based. May be nil.
	OnPanic func(worker string, attempt int)

	// OnFatal is called once when MaxRetries is exhausted and the worker is
	// permanently stopped. May be nil.
	OnFatal func(worker string, maxRetries int)

	// IsShutdown returns true while the app is shutting down. When true the
	// recovery loop exits after a panic without restarting or calling
	// OnPanic, since the runtime context may already be gone. May be nil
	// (treated as always false).
	IsShutdown func() bool
}

// applyDefaults returns a copy of opts with zero-value fields replaced by
// the package defaults.
func (opts RecoveryOptions) applyDefaults() RecoveryOptions {
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.MaxBackoff < opts.InitialBackoff {
		slog.Warn("[WARN-WORKER] MaxBackoff < InitialBackoff, using InitialBackoff as MaxBackoff",
			"initialBackoff", opts.InitialBackoff,
			"maxBackoff", opts.MaxBackoff,
		)
		opts.MaxBackoff = opts.InitialBackoff
	}
	return opts
}

// RunWithPanicRecovery starts fn on a goroutine tracked by wg. A panic in fn
// is logged with its stack and fn is restarted after an exponential backoff,
// up to opts.MaxRetries runs. A normal return or a cancelled ctx ends the
// worker.
func RunWithPanicRecovery(
	ctx context.Context,
	name string,
	wg *sync.WaitGroup,
	fn func(ctx context.Context),
	opts RecoveryOptions,
) {
	opts = opts.applyDefaults()
	wg.Go(func() {
		runRecoveryLoop(ctx, name, fn, opts)
	})
}

func runRecoveryLoop(
	ctx context.Context,
	name string,
	fn func(ctx context.Context),
	opts RecoveryOptions,
) {
	delay := opts.InitialBackoff

	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		if !runOnce(ctx, name, fn) || ctx.Err() != nil {
			return
		}

		// The runtime context may already be gone during shutdown, so callbacks
		// are skipped as well.
		if opts.IsShutdown != nil && opts.IsShutdown() {
			slog.Info("[DEBUG-WORKER] shutdown in progress, not restarting", "worker", name)
			return
		}

		slog.Warn("[WARN-WORKER] restarting worker after panic",
			"worker", name,
			"restartDelay", delay,
			"attempt", attempt,
		)
		if opts.OnPanic != nil {
			opts.OnPanic(name, attempt)
		}
		if attempt == opts.MaxRetries {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay = nextBackoff(delay, opts.MaxBackoff)
	}

	slog.Error("[ERROR-WORKER] worker exceeded max retries, giving up",
		"worker", name,
		"maxRetries", opts.MaxRetries,
	)
	if opts.OnFatal != nil {
		opts.OnFatal(name, opts.MaxRetries)
	}
}

// runOnce reports whether fn panicked.
func runOnce(ctx context.Context, name string, fn func(ctx context.Context)) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ERROR-WORKER] worker recovered from panic",
				"worker", name,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			panicked = true
		}
	}()
	fn(ctx)
	return false
}

// nextBackoff doubles current, capped at maxBackoff and safe against
// Duration overflow.
func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	if current <= 0 {
		return defaultInitialBackoff
	}
	if current >= maxBackoff {
		return maxBackoff
	}
	next := current * 2
	if next > maxBackoff || next < current {
		return maxBackoff
	}
	return next
}
