package counter

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Store guards the counter and viewer state. Every setter returns the
// updated value so the caller can render it without a second lock.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore creates a store holding the normalized initial snapshot.
func NewStore(initial Snapshot) *Store {
	return &Store{snap: Normalize(initial)}
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Counter returns a copy of one counter.
func (s *Store) Counter(side Side) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Counter(side)
}

// Viewer returns a copy of the viewer styling.
func (s *Store) Viewer() Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Viewer
}

// Replace swaps in a new normalized snapshot.
func (s *Store) Replace(next Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Normalize(next)
	return s.snap
}

func (s *Store) updateCounter(side Side, fn func(*State) error) (State, error) {
	if !side.Valid() {
		return State{}, fmt.Errorf("update counter: unknown side %d", uint8(side))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.snap.counter(side)
	next := *st
	if err := fn(&next); err != nil {
		return *st, err
	}
	*st = next
	return next, nil
}

func (s *Store) updateViewer(fn func(*Viewer) error) (Viewer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap.Viewer
	if err := fn(&next); err != nil {
		return s.snap.Viewer, err
	}
	s.snap.Viewer = next
	return next, nil
}

// Apply runs op on the value of side.
func (s *Store) Apply(side Side, op Op) (State, error) {
	return s.updateCounter(side, func(st *State) error {
		st.Value = Apply(op, st.Value)
		return nil
	})
}

// SetCount sets the value from typed text. On ErrInvalidCountEntry the
// returned state carries the last valid value.
func (s *Store) SetCount(side Side, raw string) (State, error) {
	return s.updateCounter(side, func(st *State) error {
		value, err := ParseCount(raw)
		if err != nil {
			slog.Debug("[DEBUG-COUNTER] rejected count entry", "side", side.String(), "input", raw)
			return err
		}
		st.Value = value
		return nil
	})
}

// SetLabel replaces the label text.
func (s *Store) SetLabel(side Side, label string) (State, error) {
	return s.updateCounter(side, func(st *State) error {
		st.Label = label
		return nil
	})
}

// SetFontColor sets the font color after validating it.
func (s *Store) SetFontColor(side Side, color string) (State, error) {
	return s.updateCounter(side, func(st *State) error {
		normalized, err := NormalizeColor(color)
		if err != nil {
			return err
		}
		st.FontColor = normalized
		return nil
	})
}

// SetFontSize sets the font size, clamped to the supported range.
func (s *Store) SetFontSize(side Side, size int) (State, error) {
	return s.updateCounter(side, func(st *State) error {
		st.FontSize = ClampFontSize(size)
		return nil
	})
}

// SetFontFamily sets the font family. Blank input restores the default.
func (s *Store) SetFontFamily(side Side, family string) (State, error) {
	return s.updateCounter(side, func(st *State) error {
		family = strings.TrimSpace(family)
		if family == "" {
			family = DefaultFontFamily
		}
		st.FontFamily = family
		return nil
	})
}

// CopyStyleLeftToRight copies the font color, size and family of the left
// counter to the right counter and returns the right counter.
func (s *Store) CopyStyleLeftToRight() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Right.FontColor = s.snap.Left.FontColor
	s.snap.Right.FontSize = s.snap.Left.FontSize
	s.snap.Right.FontFamily = s.snap.Left.FontFamily
	return s.snap.Right
}

// SetBackgroundColor sets the viewer background and drops any background
// image.
func (s *Store) SetBackgroundColor(color string) (Viewer, error) {
	return s.updateViewer(func(v *Viewer) error {
		normalized, err := NormalizeColor(color)
		if err != nil {
			return err
		}
		v.BackgroundColor = normalized
		v.BackgroundImage = ""
		return nil
	})
}

// SetBackgroundImage sets the viewer background image path.
func (s *Store) SetBackgroundImage(path string) (Viewer, error) {
	return s.updateViewer(func(v *Viewer) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return fmt.Errorf("background image path is empty")
		}
		v.BackgroundImage = path
		return nil
	})
}

// RemoveBackgroundImage clears the viewer background image.
func (s *Store) RemoveBackgroundImage() Viewer {
	v, _ := s.updateViewer(func(v *Viewer) error {
		v.BackgroundImage = ""
		return nil
	})
	return v
}

// SetIncludeRight toggles whether the right counter is shown in the viewer.
func (s *Store) SetIncludeRight(include bool) Viewer {
	v, _ := s.updateViewer(func(v *Viewer) error {
		v.IncludeRight = include
		return nil
	})
	return v
}

// SetSpacing sets the vertical spacing between viewer labels.
func (s *Store) SetSpacing(spacing int) Viewer {
	v, _ := s.updateViewer(func(v *Viewer) error {
		v.Spacing = ClampSpacing(spacing)
		return nil
	})
	return v
}
