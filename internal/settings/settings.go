// Package settings reads and writes the JSON settings snapshot holding the
// counters, viewer styling and hotkey bindings.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"streamcounter/internal/counter"
	"streamcounter/internal/fileutil"
	"streamcounter/internal/hotkeys"
)

const (
	// DefaultFileName is the settings file name used when no path is configured.
	DefaultFileName = "stream_counter_settings.json"

	maxSettingsFileBytes int64 = 1 << 20 // 1MB
)

// ErrInvalidSettingsFile is returned by Load when the file exists but cannot
// be parsed. The accompanying snapshot holds the defaults.
var ErrInvalidSettingsFile = errors.New("invalid settings file")

// File is the on-disk JSON layout.
type File struct {
	LeftLabelText        string                 `json:"left_label_text"`
	LeftCount            int                    `json:"left_count"`
	LeftBgColor          string                 `json:"left_bg_color"`
	LeftFontColor        string                 `json:"left_font_color"`
	LeftFontSize         int                    `json:"left_font_size"`
	LeftFontFamily       string                 `json:"left_font_family"`
	LeftBgImagePath      string                 `json:"left_bg_image_path"`
	RightLabelText       string                 `json:"right_label_text"`
	RightCount           int                    `json:"right_count"`
	RightFontColor       string                 `json:"right_font_color"`
	RightFontSize        int                    `json:"right_font_size"`
	RightFontFamily      string                 `json:"right_font_family"`
	RightIncludeInViewer bool                   `json:"right_include_in_viewer"`
	ViewerSpacing        int                    `json:"viewer_spacing"`
	Hotkeys              map[string]HotkeyEntry `json:"hotkeys"`
}

// HotkeyEntry is one binding in the "hotkeys" object.
type HotkeyEntry struct {
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
	Key   string `json:"key"`
}

// Snapshot is everything persisted between sessions.
type Snapshot struct {
	Counters counter.Snapshot
	Bindings hotkeys.BindingSet
}

// Defaults returns the first-run snapshot.
func Defaults() Snapshot {
	return Snapshot{
		Counters: counter.DefaultSnapshot(),
		Bindings: hotkeys.DefaultBindings(),
	}
}

// DefaultPath returns the settings path inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, DefaultFileName)
}

// Encode converts a snapshot to its file layout.
func Encode(s Snapshot) File {
	c := s.Counters
	f := File{
		LeftLabelText:        c.Left.Label,
		LeftCount:            c.Left.Value,
		LeftBgColor:          c.Viewer.BackgroundColor,
		LeftFontColor:        c.Left.FontColor,
		LeftFontSize:         c.Left.FontSize,
		LeftFontFamily:       c.Left.FontFamily,
		LeftBgImagePath:      c.Viewer.BackgroundImage,
		RightLabelText:       c.Right.Label,
		RightCount:           c.Right.Value,
		RightFontColor:       c.Right.FontColor,
		RightFontSize:        c.Right.FontSize,
		RightFontFamily:      c.Right.FontFamily,
		RightIncludeInViewer: c.Viewer.IncludeRight,
		ViewerSpacing:        c.Viewer.Spacing,
		Hotkeys:              make(map[string]HotkeyEntry, len(hotkeys.Actions())),
	}
	for _, a := range hotkeys.Actions() {
		b := s.Bindings.Get(a)
		f.Hotkeys[a.String()] = HotkeyEntry{
			Ctrl:  b.Ctrl,
			Shift: b.Shift,
			Alt:   b.Alt,
			Key:   b.Key.Token(),
		}
	}
	return f
}

// Decode converts a file layout to a normalized snapshot. Hotkey entries with
// an unknown action or key keep the default binding; each one is reported in
// the returned warnings.
func Decode(f File) (Snapshot, []error) {
	s := Snapshot{
		Counters: counter.Normalize(counter.Snapshot{
			Left: counter.State{
				Value:      f.LeftCount,
				Label:      f.LeftLabelText,
				FontColor:  f.LeftFontColor,
				FontSize:   f.LeftFontSize,
				FontFamily: f.LeftFontFamily,
			},
			Right: counter.State{
				Value:      f.RightCount,
				Label:      f.RightLabelText,
				FontColor:  f.RightFontColor,
				FontSize:   f.RightFontSize,
				FontFamily: f.RightFontFamily,
			},
			Viewer: counter.Viewer{
				BackgroundColor: f.LeftBgColor,
				BackgroundImage: f.LeftBgImagePath,
				IncludeRight:    f.RightIncludeInViewer,
				Spacing:         f.ViewerSpacing,
			},
		}),
		Bindings: hotkeys.DefaultBindings(),
	}

	var warnings []error
	for name, entry := range f.Hotkeys {
		action, err := hotkeys.ParseAction(name)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		b, err := entry.binding()
		if err != nil {
			warnings = append(warnings, fmt.Errorf("hotkey %s: %w", name, err))
			continue
		}
		s.Bindings[action] = b
	}
	return s, warnings
}

func (e HotkeyEntry) binding() (hotkeys.Binding, error) {
	key, err := hotkeys.ParseKey(e.Key)
	if err != nil {
		return hotkeys.Binding{}, err
	}
	b := hotkeys.Binding{Ctrl: e.Ctrl, Shift: e.Shift, Alt: e.Alt, Key: key}
	if !b.Valid() {
		return hotkeys.Binding{}, fmt.Errorf("key %q cannot trigger a hotkey", e.Key)
	}
	return b, nil
}

// Load reads the settings file at path. A missing file yields defaults and a
// nil error. A file that cannot be read or parsed yields defaults and an
// error wrapping ErrInvalidSettingsFile; nothing from it is merged.
func Load(path string) (Snapshot, error) {
	defaults := Defaults()
	if strings.TrimSpace(path) == "" {
		return defaults, errors.New("settings path required")
	}

	raw, err := fileutil.ReadLimited(path, maxSettingsFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("[DEBUG-SETTINGS] settings file not found, using defaults", "path", path)
			return defaults, nil
		}
		return defaults, fmt.Errorf("%w: read %s: %w", ErrInvalidSettingsFile, path, err)
	}

	// Absent fields keep their default values; hotkeys start empty so only
	// entries present in the file override the default bindings.
	f := Encode(defaults)
	f.Hotkeys = nil
	if err := json.Unmarshal(raw, &f); err != nil {
		return defaults, fmt.Errorf("%w: parse %s: %w", ErrInvalidSettingsFile, path, err)
	}

	s, warnings := Decode(f)
	for _, w := range warnings {
		slog.Warn("[WARN-SETTINGS] ignoring hotkey entry, keeping default", "path", path, "error", w)
	}
	slog.Debug("[DEBUG-SETTINGS] settings loaded", "path", path)
	return s, nil
}

// Save writes s to path as indented JSON with 0600 permissions.
func Save(path string, s Snapshot) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("settings path required")
	}
	raw, err := json.MarshalIndent(Encode(s), "", "  ")
	if err != nil {
		return fmt.Errorf("save settings: marshal: %w", err)
	}
	if err := fileutil.WriteAtomic(path, append(raw, '\n'), 0o600); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	slog.Debug("[DEBUG-SETTINGS] settings saved", "path", path)
	return nil
}
