package counter

import (
	"errors"
	"sync"
	"testing"
)

func TestStoreApply(t *testing.T) {
	s := NewStore(DefaultSnapshot())

	for range 3 {
		if _, err := s.Apply(Left, OpIncrement); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
	}
	got, err := s.Apply(Left, OpDecrement)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got.Value != 2 {
		t.Fatalf("left value = %d, want 2", got.Value)
	}
	if s.Counter(Right).Value != 0 {
		t.Fatal("right counter changed")
	}

	got, _ = s.Apply(Left, OpReset)
	if got.Value != 0 {
		t.Fatalf("value after reset = %d", got.Value)
	}
	got, _ = s.Apply(Left, OpDecrement)
	if got.Value != 0 {
		t.Fatalf("value after decrement at zero = %d", got.Value)
	}

	if _, err := s.Apply(Side(7), OpIncrement); err == nil {
		t.Fatal("Apply(unknown side) expected error")
	}
}

func TestStoreSetCountRevertsOnInvalidEntry(t *testing.T) {
	s := NewStore(DefaultSnapshot())
	if _, err := s.SetCount(Right, "25"); err != nil {
		t.Fatalf("SetCount() error = %v", err)
	}

	got, err := s.SetCount(Right, "twenty")
	if !errors.Is(err, ErrInvalidCountEntry) {
		t.Fatalf("SetCount() error = %v, want ErrInvalidCountEntry", err)
	}
	if got.Value != 25 {
		t.Fatalf("returned value = %d, want last valid 25", got.Value)
	}
	if s.Counter(Right).Value != 25 {
		t.Fatalf("stored value = %d, want 25", s.Counter(Right).Value)
	}

	got, _ = s.SetCount(Right, "-4")
	if got.Value != 0 {
		t.Fatalf("negative entry = %d, want 0", got.Value)
	}
}

func TestStoreStyleSetters(t *testing.T) {
	s := NewStore(DefaultSnapshot())

	if _, err := s.SetLabel(Left, "Wipes:"); err != nil {
		t.Fatalf("SetLabel() error = %v", err)
	}
	if _, err := s.SetFontColor(Left, "#FF0000"); err != nil {
		t.Fatalf("SetFontColor() error = %v", err)
	}
	if _, err := s.SetFontColor(Left, "crimson"); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("SetFontColor(invalid) error = %v, want ErrInvalidColor", err)
	}
	s.SetFontSize(Left, 200)
	s.SetFontFamily(Left, "Courier New")

	want := State{Label: "Wipes:", FontColor: "#ff0000", FontSize: MaxFontSize, FontFamily: "Courier New"}
	if got := s.Counter(Left); got != want {
		t.Fatalf("left = %+v, want %+v", got, want)
	}

	got, _ := s.SetFontFamily(Left, " ")
	if got.FontFamily != DefaultFontFamily {
		t.Fatalf("blank family = %q, want default", got.FontFamily)
	}
	got, _ = s.SetFontSize(Left, 1)
	if got.FontSize != MinFontSize {
		t.Fatalf("font size = %d, want %d", got.FontSize, MinFontSize)
	}
}

func TestStoreCopyStyleLeftToRight(t *testing.T) {
	s := NewStore(DefaultSnapshot())
	s.SetFontColor(Left, "#123456")
	s.SetFontSize(Left, 30)
	s.SetFontFamily(Left, "Verdana")
	s.SetLabel(Right, "Kills:")
	s.SetCount(Right, "4")

	got := s.CopyStyleLeftToRight()
	want := State{Value: 4, Label: "Kills:", FontColor: "#123456", FontSize: 30, FontFamily: "Verdana"}
	if got != want {
		t.Fatalf("right = %+v, want %+v", got, want)
	}
}

func TestStoreViewer(t *testing.T) {
	s := NewStore(DefaultSnapshot())

	v, err := s.SetBackgroundImage("/images/bg.png")
	if err != nil {
		t.Fatalf("SetBackgroundImage() error = %v", err)
	}
	if v.BackgroundImage != "/images/bg.png" {
		t.Fatalf("image = %q", v.BackgroundImage)
	}
	if _, err := s.SetBackgroundImage("  "); err == nil {
		t.Fatal("SetBackgroundImage(blank) expected error")
	}

	// Choosing a color replaces the image.
	v, err = s.SetBackgroundColor("#000")
	if err != nil {
		t.Fatalf("SetBackgroundColor() error = %v", err)
	}
	if v.BackgroundColor != "#000" || v.BackgroundImage != "" {
		t.Fatalf("viewer = %+v", v)
	}

	if _, err := s.SetBackgroundColor("black"); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("SetBackgroundColor(invalid) error = %v", err)
	}
	if s.Viewer().BackgroundColor != "#000" {
		t.Fatal("invalid color changed state")
	}

	s.SetBackgroundImage("/images/other.png")
	if v := s.RemoveBackgroundImage(); v.BackgroundImage != "" || v.BackgroundColor != "#000" {
		t.Fatalf("after remove = %+v", v)
	}

	if v := s.SetIncludeRight(false); v.IncludeRight {
		t.Fatal("SetIncludeRight(false) ignored")
	}
	if v := s.SetSpacing(250); v.Spacing != MaxSpacing {
		t.Fatalf("spacing = %d, want %d", v.Spacing, MaxSpacing)
	}
	if v := s.SetSpacing(-2); v.Spacing != MinSpacing {
		t.Fatalf("spacing = %d, want %d", v.Spacing, MinSpacing)
	}
}

func TestStoreReplaceNormalizes(t *testing.T) {
	s := NewStore(DefaultSnapshot())
	next := DefaultSnapshot()
	next.Left.Value = -10
	next.Viewer.Spacing = 1000

	got := s.Replace(next)
	if got.Left.Value != 0 || got.Viewer.Spacing != MaxSpacing {
		t.Fatalf("Replace() = %+v", got)
	}
	if s.Snapshot() != got {
		t.Fatal("Snapshot() differs from Replace() result")
	}
}

func TestStoreConcurrentApply(t *testing.T) {
	s := NewStore(DefaultSnapshot())
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				s.Apply(Left, OpIncrement)
				_ = s.Snapshot()
			}
		})
	}
	wg.Wait()
	if got := s.Counter(Left).Value; got != 800 {
		t.Fatalf("value = %d, want 800", got)
	}
}
