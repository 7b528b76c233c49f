package main

import "streamcounter/internal/sessionlog"

// onLogEntry receives teed warning and error records. It must not log
// through slog because it runs inside the slog handler.
func (a *App) onLogEntry(entry sessionlog.Entry) {
	a.logHistory.Add(entry)
	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	runtimeEventsEmitFn(ctx, eventAppLog, entry)
}

// GetRecentLogs returns the warnings and errors logged so far, oldest first.
// The frontend calls it once after it subscribes to app:log.
func (a *App) GetRecentLogs() []sessionlog.Entry {
	return a.logHistory.Entries()
}
