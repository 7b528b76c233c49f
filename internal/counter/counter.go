// Package counter holds the two on-screen counters and the shared viewer
// styling. All mutation goes through Store.
package counter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCountEntry is returned when typed count text is not an integer.
var ErrInvalidCountEntry = errors.New("count must be a whole number")

// Side selects one of the two counters.
type Side uint8

const (
	Left Side = iota
	Right
	sideCount
)

// Sides returns both sides in display order.
func Sides() []Side {
	return []Side{Left, Right}
}

// Valid reports whether s is Left or Right.
func (s Side) Valid() bool {
	return s < sideCount
}

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// ParseSide accepts "left"/"right" and the counter numbers "1"/"2".
func ParseSide(raw string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "left", "1":
		return Left, nil
	case "right", "2":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown counter side %q", raw)
	}
}

// Op is a counter mutation.
type Op uint8

const (
	OpIncrement Op = iota
	OpDecrement
	OpReset
)

func (o Op) String() string {
	switch o {
	case OpIncrement:
		return "increment"
	case OpDecrement:
		return "decrement"
	case OpReset:
		return "reset"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Increment returns v+1, saturating at math.MaxInt.
func Increment(v int) int {
	if v >= math.MaxInt {
		return math.MaxInt
	}
	return max(0, v) + 1
}

// Decrement returns v-1, never going below zero.
func Decrement(v int) int {
	return max(0, v-1)
}

// Reset returns zero.
func Reset(int) int {
	return 0
}

// Apply runs op on v. Unknown ops leave v unchanged.
func Apply(op Op, v int) int {
	switch op {
	case OpIncrement:
		return Increment(v)
	case OpDecrement:
		return Decrement(v)
	case OpReset:
		return Reset(v)
	default:
		return v
	}
}

// ParseCount parses typed count text. Negative values clamp to zero.
func ParseCount(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", raw, ErrInvalidCountEntry)
	}
	return max(0, value), nil
}
