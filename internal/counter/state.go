package counter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidColor is returned for colors that are not #rgb or #rrggbb.
var ErrInvalidColor = errors.New("color must be #rgb or #rrggbb")

const (
	MinFontSize = 8
	MaxFontSize = 72
	MinSpacing  = 0
	MaxSpacing  = 100

	DefaultLeftLabel  = "Deaths:"
	DefaultRightLabel = "Deaths Today:"
	DefaultFontColor  = "#000000"
	DefaultFontSize   = 12
	DefaultFontFamily = "Arial"
	DefaultBackground = "#ffffff"
	DefaultSpacing    = 10
)

// State is one counter with its label and font styling.
type State struct {
	Value      int    `json:"value"`
	Label      string `json:"label"`
	FontColor  string `json:"fontColor"`
	FontSize   int    `json:"fontSize"`
	FontFamily string `json:"fontFamily"`
}

// Viewer holds the styling of the combined viewer panel. The background is
// shared by both counters.
type Viewer struct {
	BackgroundColor string `json:"backgroundColor"`
	BackgroundImage string `json:"backgroundImage"`
	IncludeRight    bool   `json:"includeRight"`
	Spacing         int    `json:"spacing"`
}

// Snapshot is a copy of the whole store.
type Snapshot struct {
	Left   State  `json:"left"`
	Right  State  `json:"right"`
	Viewer Viewer `json:"viewer"`
}

// Counter returns the state of side. Unknown sides yield the zero State.
func (s Snapshot) Counter(side Side) State {
	switch side {
	case Left:
		return s.Left
	case Right:
		return s.Right
	default:
		return State{}
	}
}

func (s *Snapshot) counter(side Side) *State {
	switch side {
	case Left:
		return &s.Left
	case Right:
		return &s.Right
	default:
		return nil
	}
}

// DefaultSnapshot returns the first-run state.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Left:  defaultState(DefaultLeftLabel),
		Right: defaultState(DefaultRightLabel),
		Viewer: Viewer{
			BackgroundColor: DefaultBackground,
			IncludeRight:    true,
			Spacing:         DefaultSpacing,
		},
	}
}

func defaultState(label string) State {
	return State{
		Label:      label,
		FontColor:  DefaultFontColor,
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
	}
}

// Normalize clamps numeric fields into range and replaces invalid colors and
// empty font families with defaults. Labels are kept as-is, including empty.
func Normalize(s Snapshot) Snapshot {
	for _, side := range Sides() {
		st := s.counter(side)
		st.Value = max(0, st.Value)
		st.FontSize = ClampFontSize(st.FontSize)
		if color, err := NormalizeColor(st.FontColor); err == nil {
			st.FontColor = color
		} else {
			st.FontColor = DefaultFontColor
		}
		if strings.TrimSpace(st.FontFamily) == "" {
			st.FontFamily = DefaultFontFamily
		}
	}
	if color, err := NormalizeColor(s.Viewer.BackgroundColor); err == nil {
		s.Viewer.BackgroundColor = color
	} else {
		s.Viewer.BackgroundColor = DefaultBackground
	}
	s.Viewer.Spacing = ClampSpacing(s.Viewer.Spacing)
	return s
}

// ClampFontSize limits size to [MinFontSize, MaxFontSize].
func ClampFontSize(size int) int {
	return min(max(size, MinFontSize), MaxFontSize)
}

// ClampSpacing limits spacing to [MinSpacing, MaxSpacing].
func ClampSpacing(spacing int) int {
	return min(max(spacing, MinSpacing), MaxSpacing)
}

// NormalizeColor validates a hex color and returns it lower-cased. "#rgb" is
// kept in its short form.
func NormalizeColor(raw string) (string, error) {
	color := strings.ToLower(strings.TrimSpace(raw))
	if (len(color) != 4 && len(color) != 7) || color[0] != '#' {
		return "", fmt.Errorf("color %q: %w", raw, ErrInvalidColor)
	}
	for _, c := range color[1:] {
		if !isHexDigit(c) {
			return "", fmt.Errorf("color %q: %w", raw, ErrInvalidColor)
		}
	}
	return color, nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}
