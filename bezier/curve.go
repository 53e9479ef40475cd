package bezier

import (
	"github.com/npillmayer/splines"
)

// Knot is a knot of a Bezier spline. TangentIn and TangentOut are offsets
// from Position in spline space. Rotation is the orientation of the knot,
// carried along so that conversions between curve families keep a spline's
// twist.
type Knot struct {
	Position   splines.Float3
	TangentIn  splines.Float3
	TangentOut splines.Float3
	Rotation   splines.Quat
}

// Curve is a cubic Bezier segment with control points P0 … P3.
type Curve struct {
	P0, P1, P2, P3 splines.Float3
}

// CurveFromKnots returns the segment spanning from knot a to knot b.
func CurveFromKnots(a, b Knot) Curve {
	return Curve{
		P0: a.Position,
		P1: a.Position.Add(a.TangentOut),
		P2: b.Position.Add(b.TangentIn),
		P3: b.Position,
	}
}

// SegmentCount returns the number of segments of a spline with n knots.
func SegmentCount(n int, closed bool) int {
	if n < 2 {
		return 0
	}
	if closed {
		return n
	}
	return n - 1
}

// CurveAt returns segment i of a knot list, wrapping around for closed lists.
// The second return value is false if there is no such segment.
func CurveAt(knots []Knot, i int, closed bool) (Curve, bool) {
	if i < 0 || i >= SegmentCount(len(knots), closed) {
		return Curve{}, false
	}
	return CurveFromKnots(knots[i], knots[(i+1)%len(knots)]), true
}

// Evaluate returns the point on the curve at parameter t ∈ [0,1].
func (c Curve) Evaluate(t float32) splines.Float3 {
	mt := 1 - t
	a := c.P0.Scaled(mt * mt * mt)
	b := c.P1.Scaled(3 * mt * mt * t)
	d := c.P2.Scaled(3 * mt * t * t)
	e := c.P3.Scaled(t * t * t)
	return a.Add(b).Add(d).Add(e)
}

// EvaluateTangent returns the first derivative of the curve at parameter t.
func (c Curve) EvaluateTangent(t float32) splines.Float3 {
	mt := 1 - t
	a := c.P1.Sub(c.P0).Scaled(3 * mt * mt)
	b := c.P2.Sub(c.P1).Scaled(6 * mt * t)
	d := c.P3.Sub(c.P2).Scaled(3 * t * t)
	return a.Add(b).Add(d)
}

// Split subdivides the curve at parameter t, using de Casteljau. The left
// curve ends and the right curve starts at c.Evaluate(t).
func (c Curve) Split(t float32) (Curve, Curve) {
	p01 := c.P0.Lerp(c.P1, t)
	p12 := c.P1.Lerp(c.P2, t)
	p23 := c.P2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	m := p012.Lerp(p123, t)
	return Curve{c.P0, p01, p012, m}, Curve{m, p123, p23, c.P3}
}

// IsLinear is a predicate: are both inner control points placed on the
// end points?
func (c Curve) IsLinear() bool {
	return c.P1.Sub(c.P0).IsZero() && c.P2.Sub(c.P3).IsZero()
}

// CatmullRomTangent returns the Catmull-Rom tangent at a knot between
// positions prev and next.
func CatmullRomTangent(prev, next splines.Float3) splines.Float3 {
	return next.Sub(prev).Scaled(0.5)
}

// LinearTangent returns the Bezier tangent at from which makes the segment
// towards to a straight line with uniform speed.
func LinearTangent(from, to splines.Float3) splines.Float3 {
	return to.Sub(from).Scaled(1.0 / 3.0)
}
