package editable

import (
	"fmt"
	"strings"

	"github.com/npillmayer/splines"
)

// Basis is the curve family of a spline.
type Basis int

// Curve families.
const (
	Bezier Basis = iota
	CatmullRom
	Linear
)

var basisNames = [...]string{"bezier", "catmullrom", "linear"}

func (b Basis) String() string {
	if b < 0 || int(b) >= len(basisNames) {
		return fmt.Sprintf("Basis(%d)", int(b))
	}
	return basisNames[b]
}

// ParseBasis returns the basis with name s (case insensitive).
func ParseBasis(s string) (Basis, error) {
	s = strings.ToLower(strings.ReplaceAll(s, "-", ""))
	for i, name := range basisNames {
		if s == name {
			return Basis(i), nil
		}
	}
	return Bezier, fmt.Errorf("unknown spline basis %q", s)
}

// Mode is the tangent mode of a Bezier knot.
type Mode int

// Tangent modes.
const (
	ModeLinear Mode = iota
	ModeMirrored
	ModeContinuous
	ModeBroken
)

var modeNames = [...]string{"linear", "mirrored", "continuous", "broken"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode returns the tangent mode with name s (case insensitive).
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(s)
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return ModeBroken, fmt.Errorf("unknown tangent mode %q", s)
}

// TangentIndex identifies one of the two tangents of a knot.
type TangentIndex int

// The incoming and the outgoing tangent.
const (
	In TangentIndex = iota
	Out
)

// Opposite returns the index of the other tangent.
func (i TangentIndex) Opposite() TangentIndex {
	return 1 - i
}

func (i TangentIndex) String() string {
	if i == In {
		return "in"
	}
	return "out"
}

// Modified tells which properties of a knot an operation has changed.
type Modified uint8

// Knot properties.
const (
	PositionModified Modified = 1 << iota
	RotationModified
	TangentsModified
	ModeModified
	KnotInserted
	KnotRemoved
)

var modifiedNames = [...]string{"position", "rotation", "tangents", "mode", "inserted", "removed"}

func (m Modified) String() string {
	var names []string
	for i, name := range modifiedNames {
		if m&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Change reports the modifications an operation made to knot number Knot.
type Change struct {
	Knot int
	What Modified
}

// Changes is the change list returned by mutating operations of a spline.
// Callers redraw or record undo information from it.
type Changes []Change

func (c Changes) add(knot int, what Modified) Changes {
	if what == 0 {
		return c
	}
	for i := range c {
		if c[i].Knot == knot {
			c[i].What |= what
			return c
		}
	}
	return append(c, Change{Knot: knot, What: what})
}

// Has is a predicate: does the change list contain modification what for
// knot number knot?
func (c Changes) Has(knot int, what Modified) bool {
	for _, ch := range c {
		if ch.Knot == knot && ch.What&what == what {
			return true
		}
	}
	return false
}

func (c Changes) String() string {
	parts := make([]string, len(c))
	for i, ch := range c {
		parts[i] = fmt.Sprintf("%d:%s", ch.Knot, ch.What)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Transform places a spline in the world. Implementations are provided by
// the host (e.g., a scene graph) and are only read.
type Transform interface {
	LocalToWorld() splines.AT
}

type fixedTransform splines.AT

func (ft fixedTransform) LocalToWorld() splines.AT {
	return splines.AT(ft)
}

// FixedTransform returns a Transform which always reports m.
func FixedTransform(m splines.AT) Transform {
	return fixedTransform(m)
}
