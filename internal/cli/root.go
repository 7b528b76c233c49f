// Package cli implements counterctl, a command-line companion that reads and
// edits the settings file of the overlay.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"streamcounter/internal/config"
	"streamcounter/internal/settings"
	"streamcounter/internal/singleinstance"
)

// ErrOverlayRunning is returned by editing commands while the overlay holds
// the single-instance lock. The overlay rewrites the settings file on exit,
// so an edit made now would be lost.
var ErrOverlayRunning = errors.New("overlay is running; close Stream Counter before editing settings")

// Test seams.
var (
	defaultConfigPathFn = config.DefaultPath
	tryLockFn           = singleinstance.TryLock
)

type options struct {
	configPath   string
	settingsPath string
}

// NewRootCmd builds the counterctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "counterctl",
		Short: "Inspect and edit Stream Counter settings",
		Long: `counterctl reads and edits the Stream Counter settings file: counter
values, labels and hotkey bindings.

Editing commands refuse to run while the overlay is open, because the overlay
saves its own state when it exits.

Examples:
  counterctl show
  counterctl show -o json
  counterctl set left 12
  counterctl reset --all
  counterctl hotkeys
  counterctl hotkeys reset
  counterctl validate`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "app config path (default: per-user config directory)")
	root.PersistentFlags().StringVar(&opts.settingsPath, "settings", "", "settings file path (default: from the app config)")
	root.SuggestionsMinimumDistance = 2

	root.AddCommand(
		newShowCmd(opts),
		newSetCmd(opts),
		newResetCmd(opts),
		newHotkeysCmd(opts),
		newValidateCmd(opts),
	)
	return root
}

// Execute runs counterctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// resolve loads the app config and derives the settings path. A broken config
// still yields defaults and a usable settings path; the error is returned for
// callers that want to report it.
func (o *options) resolve() (config.Config, string, error) {
	path := strings.TrimSpace(o.configPath)
	if path == "" {
		path = defaultConfigPathFn()
	}
	cfg, err := config.Load(path)
	if err != nil {
		err = fmt.Errorf("config %s: %w", path, err)
	}

	settingsPath := strings.TrimSpace(o.settingsPath)
	if settingsPath == "" {
		settingsPath = config.ResolveSettingsPath(cfg, path)
	}
	return cfg, settingsPath, err
}

// resolveLenient is resolve for commands that can work on a default config.
func (o *options) resolveLenient(stderr io.Writer) (config.Config, string) {
	cfg, settingsPath, err := o.resolve()
	if err != nil {
		fmt.Fprintf(stderr, "warning: %v (using defaults)\n", err)
	}
	return cfg, settingsPath
}

// loadForEdit loads the settings file and refuses to continue when it is
// unreadable, so that an edit never silently replaces it with defaults. A
// missing file starts from the same first-run state the overlay would use,
// including the config's default_hotkeys.
func loadForEdit(path string, cfg config.Config) (settings.Snapshot, error) {
	_, statErr := os.Stat(path)
	firstRun := errors.Is(statErr, os.ErrNotExist)

	snap, err := settings.Load(path)
	if err != nil {
		return snap, fmt.Errorf("%w (fix or delete the file first)", err)
	}
	if firstRun {
		snap.Bindings = config.ResolveDefaultBindings(cfg)
	}
	return snap, nil
}

// withOverlayClosed runs fn while holding the overlay's single-instance lock.
func withOverlayClosed(fn func() error) error {
	lock, err := tryLockFn(singleinstance.DefaultLockName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		return ErrOverlayRunning
	}
	if err != nil {
		slog.Warn("[WARN-CLI] could not check for a running overlay", "error", err)
	}
	if lock != nil {
		defer func() {
			if releaseErr := lock.Release(); releaseErr != nil {
				slog.Warn("[WARN-CLI] lock release failed", "error", releaseErr)
			}
		}()
	}
	return fn()
}
