// Package config loads and saves the application YAML config: window
// geometry, logging, hotkey defaults and where the settings file lives.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"streamcounter/internal/fileutil"
	"streamcounter/internal/hotkeys"
	"streamcounter/internal/settings"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB

	appDirName     = "StreamCounter"
	configFileName = "config.yaml"

	minWindowWidth   = 320
	minWindowHeight  = 240
	maxAutosaveSecs  = 24 * 60 * 60
	defaultLogLevel  = "info"
	defaultWidth     = 800
	defaultHeight    = 700
	defaultAutosave  = 60
	envPrefix        = "STREAM_COUNTER_"
	envFileName      = ".env"
	settingsFileMode = 0o600
)

// defaultConfigDirFn is a test seam; tests override it to simulate
// directory-resolution failures in validateConfigPath.
var defaultConfigDirFn = defaultConfigDir
var userHomeDirFn = os.UserHomeDir
var defaultPathWarningState struct {
	mu       sync.Mutex
	messages []string
}

func recordDefaultPathWarning(message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	defaultPathWarningState.mu.Lock()
	defaultPathWarningState.messages = append(defaultPathWarningState.messages, trimmed)
	defaultPathWarningState.mu.Unlock()
}

// ConsumeDefaultPathWarnings returns and clears path-resolution warnings
// accumulated during DefaultPath() calls.
func ConsumeDefaultPathWarnings() []string {
	defaultPathWarningState.mu.Lock()
	defer defaultPathWarningState.mu.Unlock()
	if len(defaultPathWarningState.messages) == 0 {
		return nil
	}
	out := make([]string, len(defaultPathWarningState.messages))
	copy(out, defaultPathWarningState.messages)
	defaultPathWarningState.messages = nil
	return out
}

// WindowConfig is the initial window size.
type WindowConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Config is the Stream Counter application configuration.
type Config struct {
	// SettingsPath is the JSON settings file. Empty means
	// stream_counter_settings.json next to config.yaml.
	SettingsPath string       `yaml:"settings_path,omitempty" json:"settings_path,omitempty"`
	AlwaysOnTop  bool         `yaml:"always_on_top" json:"always_on_top"`
	Window       WindowConfig `yaml:"window" json:"window"`
	LogLevel     string       `yaml:"log_level" json:"log_level"`
	// GlobalHotkeys enables the system-wide keyboard hook.
	GlobalHotkeys bool `yaml:"global_hotkeys" json:"global_hotkeys"`
	// DefaultHotkeys overrides the built-in bindings used on first run and by
	// "Reset hotkeys". Keys are action names, values like "Ctrl+Shift+F1".
	DefaultHotkeys map[string]string `yaml:"default_hotkeys,omitempty" json:"default_hotkeys,omitempty"`
	// AutosaveSeconds saves settings periodically. 0 saves only on exit.
	AutosaveSeconds int `yaml:"autosave_seconds" json:"autosave_seconds"`
	// Notifications shows a desktop notification when the keyboard hook fails
	// or a recorded hotkey is rejected.
	Notifications bool `yaml:"notifications" json:"notifications"`
	// HotkeyBeep plays a short beep when a hotkey changes a counter.
	HotkeyBeep bool `yaml:"hotkey_beep" json:"hotkey_beep"`
}

func DefaultConfig() Config {
	return Config{
		AlwaysOnTop: false,
		Window: WindowConfig{
			Width:  defaultWidth,
			Height: defaultHeight,
		},
		LogLevel:        defaultLogLevel,
		GlobalHotkeys:   true,
		AutosaveSeconds: defaultAutosave,
		Notifications:   true,
	}
}

// DefaultPath resolves the config file path, preferring LOCALAPPDATA over
// APPDATA, falling back to ~/.config when both are unset, and then to
// os.TempDir() if the home directory cannot be resolved.
func DefaultPath() string {
	base := strings.TrimSpace(os.Getenv("LOCALAPPDATA"))
	if base == "" {
		base = strings.TrimSpace(os.Getenv("APPDATA"))
	}
	if base == "" {
		home, err := userHomeDirFn()
		if err != nil {
			slog.Warn("[WARN-CONFIG] using temp dir as config path fallback", "error", err)
			recordDefaultPathWarning(
				"Config path fallback: failed to resolve LOCALAPPDATA/APPDATA/home directory. Using temp directory; counters and hotkeys may not persist.",
			)
			base = os.TempDir()
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appDirName, configFileName)
}

// Load reads config file. If file does not exist, defaults are returned.
// Environment overrides from STREAM_COUNTER_* variables and a .env file next
// to the config are applied last, so the result is the effective config.
// Never pass it to Save; persist edits of LoadFile's value instead.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	return WithEnvOverrides(cfg, path)
}

// LoadFile reads config file without environment overrides. This is the
// value Save expects, so that an override never ends up on disk.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("config path required")
	}

	raw, err := fileutil.ReadLimited(path, maxConfigFileBytes)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			slog.Warn("[WARN-CONFIG] failed to parse config, using defaults", "path", path, "error", err)
			return DefaultConfig(), err
		}
	}

	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WithEnvOverrides returns a copy of cfg with the STREAM_COUNTER_* overrides
// for the config at configPath applied. cfg itself is not modified.
func WithEnvOverrides(cfg Config, configPath string) (Config, error) {
	out := Clone(cfg)
	applyEnvOverrides(&out, filepath.Dir(configPath))
	if err := applyDefaultsAndValidate(&out); err != nil {
		return out, err
	}
	return out, nil
}

// EnsureFile writes default config if missing and returns the effective
// config. Only the file-level config is written.
func EnsureFile(path string) (Config, error) {
	fileCfg, err := LoadFile(path)
	if err != nil {
		return fileCfg, err
	}
	cfg, err := WithEnvOverrides(fileCfg, path)
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if _, err := Save(path, fileCfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Clone returns a deep copy so callers can mutate maps without racing on the
// shared snapshot.
func Clone(src Config) Config {
	dst := src
	if src.DefaultHotkeys != nil {
		dst.DefaultHotkeys = maps.Clone(src.DefaultHotkeys)
	}
	return dst
}

// Save validates cfg and writes it atomically. The returned config is the
// normalized value that was written.
func Save(path string, cfg Config) (Config, error) {
	normalizedPath, err := validateConfigPath(path)
	if err != nil {
		return cfg, err
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg, fmt.Errorf("save config: marshal: %w", err)
	}
	if err := fileutil.WriteAtomic(normalizedPath, raw, settingsFileMode); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}
	slog.Debug("[DEBUG-CONFIG] config saved", "path", path)
	return cfg, nil
}

// validateConfigPath normalizes path and enforces that config writes stay
// inside the default config directory when that directory is resolvable.
func validateConfigPath(path string) (string, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return "", errors.New("config path required")
	}
	absolutePath, err := filepath.Abs(trimmedPath)
	if err != nil {
		return "", fmt.Errorf("save config: resolve path: %w", err)
	}

	expectedDir, err := defaultConfigDirFn()
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	absoluteExpectedDir, err := filepath.Abs(expectedDir)
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	if !pathWithinDir(absolutePath, absoluteExpectedDir) {
		return "", fmt.Errorf("save config: path outside config directory: %q", absolutePath)
	}

	return absolutePath, nil
}

func defaultConfigDir() (string, error) {
	return filepath.Dir(DefaultPath()), nil
}

// pathWithinDir blocks directory traversal by ensuring path is under dir.
// It also rejects Windows cross-drive escapes because filepath.Rel returns
// an absolute path when roots differ.
func pathWithinDir(path string, dir string) bool {
	relativePath, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	if relativePath == "." {
		return true
	}
	if relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(os.PathSeparator)) {
		return false
	}
	return !filepath.IsAbs(relativePath)
}

// applyDefaultsAndValidate fills missing defaults and validates cfg in-place.
// MUTATES: cfg is directly modified.
// Used by both Load and Save to ensure consistent normalization.
func applyDefaultsAndValidate(cfg *Config) error {
	defaults := DefaultConfig()
	if isZeroConfig(*cfg) {
		*cfg = defaults
		return nil
	}

	cfg.SettingsPath = strings.TrimSpace(cfg.SettingsPath)
	if cfg.Window.Width <= 0 {
		cfg.Window.Width = defaults.Window.Width
	}
	if cfg.Window.Height <= 0 {
		cfg.Window.Height = defaults.Window.Height
	}
	cfg.Window.Width = max(cfg.Window.Width, minWindowWidth)
	cfg.Window.Height = max(cfg.Window.Height, minWindowHeight)

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	if cfg.AutosaveSeconds < 0 {
		slog.Warn("[WARN-CONFIG] negative autosave_seconds, disabling autosave", "value", cfg.AutosaveSeconds)
		cfg.AutosaveSeconds = 0
	}
	cfg.AutosaveSeconds = min(cfg.AutosaveSeconds, maxAutosaveSecs)

	sanitizeDefaultHotkeys(cfg)
	return nil
}

// sanitizeDefaultHotkeys drops entries with unknown actions or unparseable
// bindings so that a typo never blocks startup.
func sanitizeDefaultHotkeys(cfg *Config) {
	if len(cfg.DefaultHotkeys) == 0 {
		cfg.DefaultHotkeys = nil
		return
	}
	clean := make(map[string]string, len(cfg.DefaultHotkeys))
	for name, spec := range cfg.DefaultHotkeys {
		action, err := hotkeys.ParseAction(name)
		if err != nil {
			slog.Warn("[WARN-CONFIG] default_hotkeys: unknown action ignored", "action", name)
			continue
		}
		b, err := hotkeys.ParseBinding(spec)
		if err != nil {
			slog.Warn("[WARN-CONFIG] default_hotkeys: invalid binding ignored", "action", name, "error", err)
			continue
		}
		clean[action.String()] = hotkeys.Format(b)
	}
	cfg.DefaultHotkeys = clean
}

// ParseLogLevel maps a config log level name to a slog.Level.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log_level %q (want debug, info, warn or error)", name)
	}
}

// ResolveSettingsPath returns the absolute settings file path for cfg.
// Relative settings_path values are resolved against the config directory.
func ResolveSettingsPath(cfg Config, configPath string) string {
	dir := filepath.Dir(configPath)
	p := strings.TrimSpace(cfg.SettingsPath)
	if p == "" {
		return settings.DefaultPath(dir)
	}
	p = os.ExpandEnv(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return filepath.Clean(p)
}

// ResolveDefaultBindings returns the built-in bindings with cfg's
// default_hotkeys applied. An override that duplicates another action's
// binding is skipped.
func ResolveDefaultBindings(cfg Config) hotkeys.BindingSet {
	set := hotkeys.DefaultBindings()
	for _, action := range hotkeys.Actions() {
		spec, ok := cfg.DefaultHotkeys[action.String()]
		if !ok {
			continue
		}
		b, err := hotkeys.ParseBinding(spec)
		if err != nil {
			continue
		}
		if other, dup := set.Conflict(action, b); dup {
			slog.Warn("[WARN-CONFIG] default_hotkeys: duplicate binding ignored",
				"action", action.String(), "binding", spec, "conflictsWith", other.String())
			continue
		}
		set[action] = b
	}
	return set
}

func isZeroConfig(cfg Config) bool {
	// reflect.DeepEqual guards against field-addition drift that manual checks miss.
	return reflect.DeepEqual(cfg, Config{})
}
