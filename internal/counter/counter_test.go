package counter

import (
	"errors"
	"math"
	"math/rand/v2"
	"strconv"
	"testing"
)

func TestPureOps(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		in   int
		want int
	}{
		{name: "increment from zero", op: OpIncrement, in: 0, want: 1},
		{name: "increment", op: OpIncrement, in: 41, want: 42},
		{name: "decrement", op: OpDecrement, in: 5, want: 4},
		{name: "decrement at zero", op: OpDecrement, in: 0, want: 0},
		{name: "reset", op: OpReset, in: 17, want: 0},
		{name: "reset at zero", op: OpReset, in: 0, want: 0},
		{name: "increment saturates", op: OpIncrement, in: math.MaxInt, want: math.MaxInt},
		{name: "decrement at max", op: OpDecrement, in: math.MaxInt, want: math.MaxInt - 1},
		{name: "unknown op", op: Op(9), in: 3, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.op, tt.in); got != tt.want {
				t.Errorf("Apply(%s, %d) = %d, want %d", tt.op, tt.in, got, tt.want)
			}
		})
	}
}

func TestDecrementAfterResetStaysZero(t *testing.T) {
	if got := Decrement(Reset(Increment(0))); got != 0 {
		t.Fatalf("Decrement(Reset(Increment(0))) = %d, want 0", got)
	}
}

func TestRandomOpSequencesStayNonNegative(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ops := []Op{OpIncrement, OpDecrement, OpReset}
	for run := range 50 {
		v := 0
		for range 200 {
			v = Apply(ops[rng.IntN(len(ops))], v)
			if v < 0 {
				t.Fatalf("run %d: value went negative: %d", run, v)
			}
		}
	}
}

func TestOpSequencesNearMaxStayNonNegative(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	ops := []Op{OpIncrement, OpIncrement, OpIncrement, OpDecrement}
	v := math.MaxInt - 2
	for step := range 500 {
		v = Apply(ops[rng.IntN(len(ops))], v)
		if v < 0 {
			t.Fatalf("step %d: value went negative: %d", step, v)
		}
	}
}

func TestStoreIncrementAtMaxCount(t *testing.T) {
	s := NewStore(DefaultSnapshot())
	if _, err := s.SetCount(Left, strconv.Itoa(math.MaxInt)); err != nil {
		t.Fatalf("SetCount() error = %v", err)
	}
	got, err := s.Apply(Left, OpIncrement)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got.Value != math.MaxInt {
		t.Fatalf("value after increment = %d, want %d", got.Value, math.MaxInt)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "12", want: 12},
		{raw: " 7 ", want: 7},
		{raw: "0", want: 0},
		{raw: "-5", want: 0},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCount(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCountEntry) {
					t.Fatalf("ParseCount(%q) error = %v, want ErrInvalidCountEntry", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCount(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseCount(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		raw     string
		want    Side
		wantErr bool
	}{
		{raw: "left", want: Left},
		{raw: " RIGHT ", want: Right},
		{raw: "1", want: Left},
		{raw: "2", want: Right},
		{raw: "middle", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSide(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSide(%q) expected error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSide(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseSide(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "#FFFFFF", want: "#ffffff"},
		{raw: " #a1B2c3 ", want: "#a1b2c3"},
		{raw: "#abc", want: "#abc"},
		{raw: "", wantErr: true},
		{raw: "ffffff", wantErr: true},
		{raw: "#ffff", wantErr: true},
		{raw: "#gggggg", wantErr: true},
		{raw: "red", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeColor(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Fatalf("NormalizeColor(%q) error = %v, want ErrInvalidColor", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeColor(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeColor(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDefaultSnapshot(t *testing.T) {
	s := DefaultSnapshot()
	if s.Left.Label != "Deaths:" || s.Right.Label != "Deaths Today:" {
		t.Fatalf("labels = %q / %q", s.Left.Label, s.Right.Label)
	}
	for _, side := range Sides() {
		st := s.Counter(side)
		if st.Value != 0 || st.FontColor != "#000000" || st.FontSize != 12 || st.FontFamily != "Arial" {
			t.Errorf("%s default = %+v", side, st)
		}
	}
	want := Viewer{BackgroundColor: "#ffffff", IncludeRight: true, Spacing: 10}
	if s.Viewer != want {
		t.Fatalf("viewer default = %+v, want %+v", s.Viewer, want)
	}
	if Normalize(s) != s {
		t.Fatal("defaults are not already normalized")
	}
}

func TestNormalize(t *testing.T) {
	in := Snapshot{
		Left:   State{Value: -3, Label: "", FontColor: "nope", FontSize: 2, FontFamily: "  "},
		Right:  State{Value: 9, Label: "Wins", FontColor: "#ABC", FontSize: 500, FontFamily: "Consolas"},
		Viewer: Viewer{BackgroundColor: "", BackgroundImage: "/tmp/bg.png", Spacing: -1},
	}
	got := Normalize(in)

	wantLeft := State{Value: 0, Label: "", FontColor: DefaultFontColor, FontSize: MinFontSize, FontFamily: DefaultFontFamily}
	if got.Left != wantLeft {
		t.Errorf("Left = %+v, want %+v", got.Left, wantLeft)
	}
	wantRight := State{Value: 9, Label: "Wins", FontColor: "#abc", FontSize: MaxFontSize, FontFamily: "Consolas"}
	if got.Right != wantRight {
		t.Errorf("Right = %+v, want %+v", got.Right, wantRight)
	}
	wantViewer := Viewer{BackgroundColor: DefaultBackground, BackgroundImage: "/tmp/bg.png", Spacing: 0}
	if got.Viewer != wantViewer {
		t.Errorf("Viewer = %+v, want %+v", got.Viewer, wantViewer)
	}
}
