package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var lookupEnvFn = os.LookupEnv

// applyEnvOverrides overlays STREAM_COUNTER_* values onto cfg. Process
// environment variables win over the .env file in configDir.
// MUTATES: cfg is directly modified.
func applyEnvOverrides(cfg *Config, configDir string) {
	fileVars, err := godotenv.Read(filepath.Join(configDir, envFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("[WARN-CONFIG] failed to read .env overrides", "dir", configDir, "error", err)
	}

	lookup := func(name string) (string, bool) {
		key := envPrefix + name
		if v, ok := lookupEnvFn(key); ok {
			return strings.TrimSpace(v), true
		}
		v, ok := fileVars[key]
		return strings.TrimSpace(v), ok
	}

	if v, ok := lookup("SETTINGS_PATH"); ok && v != "" {
		cfg.SettingsPath = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup("ALWAYS_ON_TOP"); ok {
		setBoolOverride(&cfg.AlwaysOnTop, "ALWAYS_ON_TOP", v)
	}
	if v, ok := lookup("GLOBAL_HOTKEYS"); ok {
		setBoolOverride(&cfg.GlobalHotkeys, "GLOBAL_HOTKEYS", v)
	}
}

func setBoolOverride(dst *bool, name string, raw string) {
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("[WARN-CONFIG] ignoring invalid boolean override", "name", envPrefix+name, "value", raw)
		return
	}
	*dst = parsed
}
