package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of events an editor or an atomic
// rename produces for a single save.
const DefaultWatchDebounce = 250 * time.Millisecond

var newWatcherFn = fsnotify.NewWatcher

// Watch reloads the config at path whenever it changes on disk and passes the
// result to onChange. The parent directory is watched so that atomic
// replace-by-rename is seen. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(Config, error)) error {
	if onChange == nil {
		return fmt.Errorf("watch config: onChange is required")
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: resolve path: %w", err)
	}

	watcher, err := newWatcherFn()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(absolutePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch config: add %s: %w", dir, err)
	}
	slog.Debug("[DEBUG-CONFIG] watching config", "path", absolutePath)

	base := filepath.Base(absolutePath)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base && filepath.Base(ev.Name) != envFileName {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("[WARN-CONFIG] config watcher error", "error", err)
		case <-timer.C:
			cfg, loadErr := Load(absolutePath)
			onChange(cfg, loadErr)
		}
	}
}
