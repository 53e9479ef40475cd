package bezier

import (
	"github.com/npillmayer/splines"
)

// Segment is the contribution of one spline segment to a Builder: the end
// point positions, the outgoing tangent at Start and the incoming tangent
// at End (both in spline space), and the rotations of both knots.
type Segment struct {
	Start, End                 splines.Float3
	TangentOut, TangentIn      splines.Float3
	StartRotation, EndRotation splines.Quat
}

// Builder accumulates a Bezier knot list from per-segment contributions.
// Segment i writes to knots i and i+1; for closed lists the last segment
// writes to the last and the first knot.
type Builder struct {
	knots  []Knot
	closed bool
}

// NewBuilder creates a builder for a knot list of n knots.
func NewBuilder(n int, closed bool) *Builder {
	b := &Builder{
		knots:  make([]Knot, n),
		closed: closed,
	}
	for i := range b.knots {
		b.knots[i].Rotation = splines.QuatIdentity()
	}
	return b
}

// N returns the number of knots.
func (b *Builder) N() int {
	return len(b.knots)
}

// IsCycle is a predicate: does the builder produce a closed knot list?
func (b *Builder) IsCycle() bool {
	return b.closed
}

// SetSegment writes the contribution of segment i. A later call for an
// adjacent segment overwrites the shared knot's position and rotation, but
// each of its tangents is written by exactly one segment.
// Segment indices out of range are ignored.
func (b *Builder) SetSegment(i int, seg Segment) {
	n := len(b.knots)
	if i < 0 || i >= SegmentCount(n, b.closed) {
		tracer().Errorf("segment %d out of range for %d knots", i, n)
		return
	}
	j := (i + 1) % n
	b.knots[i].Position = seg.Start
	b.knots[i].TangentOut = seg.TangentOut
	b.knots[i].Rotation = seg.StartRotation
	b.knots[j].Position = seg.End
	b.knots[j].TangentIn = seg.TangentIn
	b.knots[j].Rotation = seg.EndRotation
}

// Knots returns the knot list. For open lists the first knot has no
// incoming and the last knot no outgoing segment; their missing tangents
// mirror the present ones.
func (b *Builder) Knots() []Knot {
	knots := make([]Knot, len(b.knots))
	copy(knots, b.knots)
	if !b.closed && len(knots) > 0 {
		first, last := 0, len(knots)-1
		knots[first].TangentIn = knots[first].TangentOut.Neg()
		knots[last].TangentOut = knots[last].TangentIn.Neg()
	}
	return knots
}
