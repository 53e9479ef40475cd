package editable

import (
	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/bezier"
)

// basisAdapter is implemented once per curve family.
type basisAdapter interface {
	// localTangents returns the tangents of knot i in the knot's frame.
	localTangents(s *Spline, i int) (in, out splines.Float3)
	toBezier(s *Spline) []bezier.Knot
	// fromBezier completes knots which already carry position and rotation.
	fromBezier(s *Spline, knots []bezier.Knot)
	// onKnotInsertedOnCurve completes knot i, just inserted at parameter t
	// of curve, which spanned from knot i-1 to knot i+1 before insertion.
	onKnotInsertedOnCurve(s *Spline, i int, curve bezier.Curve, t float32) Changes
	// onKnotAddedAtEnd completes knot i, just appended to the spline.
	onKnotAddedAtEnd(s *Spline, i int, normal, tangentOut splines.Float3) Changes
}

func adapterFor(b Basis) basisAdapter {
	switch b {
	case CatmullRom:
		return catmullRomBasis{}
	case Linear:
		return linearBasis{}
	}
	return bezierBasis{}
}

// --- Bezier ----------------------------------------------------------------

type bezierBasis struct{}

func (bezierBasis) localTangents(s *Spline, i int) (in, out splines.Float3) {
	k := &s.knots[i]
	return k.tangents[In].LocalPosition, k.tangents[Out].LocalPosition
}

func (bezierBasis) toBezier(s *Spline) []bezier.Knot {
	knots := make([]bezier.Knot, s.N())
	for i := range s.knots {
		knots[i] = s.knots[i].bezierKnot()
	}
	return knots
}

func (bezierBasis) fromBezier(s *Spline, knots []bezier.Knot) {
	for i, bk := range knots {
		k := &s.knots[i]
		k.tangents[In].LocalPosition = k.toLocal(bk.TangentIn.Sanitized())
		k.tangents[Out].LocalPosition = k.toLocal(bk.TangentOut.Sanitized())
		k.mode = k.CalculateMode()
	}
}

func (bezierBasis) onKnotInsertedOnCurve(s *Spline, i int, _ bezier.Curve, t float32) Changes {
	p, _ := s.Previous(i)
	n, _ := s.Next(i)
	prevMod, nextMod := s.knots[i].OnKnotInsertedOnCurve(&s.knots[p], &s.knots[n], t)
	return Changes{}.
		add(i, KnotInserted|PositionModified|RotationModified|TangentsModified|ModeModified).
		add(p, prevMod).
		add(n, nextMod)
}

func (bezierBasis) onKnotAddedAtEnd(s *Spline, i int, normal, tangentOut splines.Float3) Changes {
	prev, _ := s.neighbours(i)
	m := s.knots[i].OnKnotAddedAtEnd(prev, normal, tangentOut)
	return Changes{}.add(i, KnotInserted|m)
}

// --- Catmull-Rom -----------------------------------------------------------

type catmullRomBasis struct{}

// tangentOut returns the Bezier tangent (spline space) leaving knot i.
func (catmullRomBasis) tangentOut(s *Spline, i int) splines.Float3 {
	prev, next := s.neighbours(i)
	return catmullRomTangentOut(&s.knots[i], prev, next).Scaled(1.0 / 3.0)
}

func (cr catmullRomBasis) localTangents(s *Spline, i int) (in, out splines.Float3) {
	out = s.knots[i].toLocal(cr.tangentOut(s, i))
	return out.Neg(), out
}

func (cr catmullRomBasis) toBezier(s *Spline) []bezier.Knot {
	n := s.N()
	if n < 2 {
		return singleBezierKnot(s, cr)
	}
	b := bezier.NewBuilder(n, s.closed)
	for i := 0; i < bezier.SegmentCount(n, s.closed); i++ {
		j := (i + 1) % n
		b.SetSegment(i, bezier.Segment{
			Start:         s.knots[i].Position,
			End:           s.knots[j].Position,
			TangentOut:    cr.tangentOut(s, i),
			TangentIn:     cr.tangentOut(s, j).Neg(),
			StartRotation: s.knots[i].Rotation,
			EndRotation:   s.knots[j].Rotation,
		})
	}
	return b.Knots()
}

func (catmullRomBasis) fromBezier(*Spline, []bezier.Knot) {}

func (catmullRomBasis) onKnotInsertedOnCurve(s *Spline, i int, curve bezier.Curve, t float32) Changes {
	return insertDerived(s, i, curve, t)
}

func (catmullRomBasis) onKnotAddedAtEnd(s *Spline, i int, normal, tangentOut splines.Float3) Changes {
	return addDerived(s, i, normal, tangentOut)
}

// --- Linear ----------------------------------------------------------------

type linearBasis struct{}

// tangents returns the Bezier tangents (spline space) of knot i. At the
// ends of an open spline the missing tangent mirrors the present one.
func (linearBasis) tangents(s *Spline, i int) (in, out splines.Float3) {
	k := &s.knots[i]
	prev, next := s.neighbours(i)
	switch {
	case prev != nil && next != nil:
		in = bezier.LinearTangent(k.Position, prev.Position)
		out = bezier.LinearTangent(k.Position, next.Position)
	case prev != nil:
		in = bezier.LinearTangent(k.Position, prev.Position)
		out = in.Neg()
	case next != nil:
		out = bezier.LinearTangent(k.Position, next.Position)
		in = out.Neg()
	}
	return
}

func (lb linearBasis) localTangents(s *Spline, i int) (in, out splines.Float3) {
	in, out = lb.tangents(s, i)
	k := &s.knots[i]
	return k.toLocal(in), k.toLocal(out)
}

func (lb linearBasis) toBezier(s *Spline) []bezier.Knot {
	n := s.N()
	if n < 2 {
		return singleBezierKnot(s, lb)
	}
	b := bezier.NewBuilder(n, s.closed)
	for i := 0; i < bezier.SegmentCount(n, s.closed); i++ {
		j := (i + 1) % n
		tangent := bezier.LinearTangent(s.knots[i].Position, s.knots[j].Position)
		b.SetSegment(i, bezier.Segment{
			Start:         s.knots[i].Position,
			End:           s.knots[j].Position,
			TangentOut:    tangent,
			TangentIn:     tangent.Neg(),
			StartRotation: s.knots[i].Rotation,
			EndRotation:   s.knots[j].Rotation,
		})
	}
	return b.Knots()
}

func (linearBasis) fromBezier(*Spline, []bezier.Knot) {}

func (linearBasis) onKnotInsertedOnCurve(s *Spline, i int, curve bezier.Curve, t float32) Changes {
	return insertDerived(s, i, curve, t)
}

func (linearBasis) onKnotAddedAtEnd(s *Spline, i int, normal, tangentOut splines.Float3) Changes {
	return addDerived(s, i, normal, tangentOut)
}

// --- Helpers for bases with derived tangents --------------------------------

// singleBezierKnot converts a spline of at most one knot.
func singleBezierKnot(s *Spline, a basisAdapter) []bezier.Knot {
	knots := make([]bezier.Knot, s.N())
	for i := range s.knots {
		k := &s.knots[i]
		in, out := a.localTangents(s, i)
		knots[i] = bezier.Knot{
			Position:   k.Position,
			TangentIn:  k.Rotation.Rotate(in),
			TangentOut: k.Rotation.Rotate(out),
			Rotation:   k.Rotation,
		}
	}
	return knots
}

// insertDerived places knot i on the curve. Its neighbours' derived
// tangents change implicitly with the new knot.
func insertDerived(s *Spline, i int, curve bezier.Curve, t float32) Changes {
	t = clamp01(t)
	p, _ := s.Previous(i)
	n, _ := s.Next(i)
	k := &s.knots[i]
	k.Position = curve.Evaluate(t)
	k.Rotation = interpolatedRotation(&s.knots[p], &s.knots[n], curve, t)
	return Changes{}.
		add(i, KnotInserted|PositionModified|RotationModified).
		add(p, TangentsModified).
		add(n, TangentsModified)
}

// addDerived orients appended knot i along tangentOut, or along its derived
// tangent if tangentOut is zero.
func addDerived(s *Spline, i int, normal, tangentOut splines.Float3) Changes {
	normal = normal.Sanitized()
	if normal.IsZero() {
		normal = splines.Up
	}
	k := &s.knots[i]
	dir := tangentOut.Sanitized()
	if dir.IsZero() {
		if prev, ok := s.Previous(i); ok && prev != i {
			dir = k.Position.Sub(s.knots[prev].Position)
		}
	}
	k.Rotation = splines.LookRotation(dir, normal)
	changes := Changes{}.add(i, KnotInserted|RotationModified)
	if prev, ok := s.Previous(i); ok {
		changes = changes.add(prev, TangentsModified)
	}
	return changes
}
