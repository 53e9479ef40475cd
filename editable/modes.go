package editable

import (
	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/bezier"
)

// SetMode changes the tangent mode of the knot and reconciles the tangents
// with the new mode. prev and next are the neighbouring knots, either of
// which may be nil at the ends of an open spline.
//
// Switching to Linear collapses both tangents. Leaving Linear synthesizes
// tangents from the neighbours: towards each neighbour for Broken, along
// the neighbours' Catmull-Rom direction for Mirrored and Continuous.
// Switching between Broken, Mirrored and Continuous keeps tangents which
// already satisfy the new mode and otherwise re-aligns the knot to a
// common direction.
func (k *Knot) SetMode(mode Mode, prev, next *Knot) Modified {
	if k.mode == mode {
		return 0
	}
	previous := k.mode
	k.mode = mode
	tracer().Debugf("knot mode %s → %s", previous, mode)
	return ModeModified | k.forceUpdateTangentsFromMode(previous, prev, next)
}

func (k *Knot) forceUpdateTangentsFromMode(previous Mode, prev, next *Knot) Modified {
	switch k.mode {
	case ModeLinear:
		if k.tangents[In].LocalPosition == splines.Zero3 && k.tangents[Out].LocalPosition == splines.Zero3 {
			return 0
		}
		k.tangents[In].LocalPosition = splines.Zero3
		k.tangents[Out].LocalPosition = splines.Zero3
		return TangentsModified
	case ModeBroken:
		if previous == ModeLinear {
			return k.synthesizeLinearTangents(prev, next)
		}
		return 0
	case ModeMirrored, ModeContinuous:
		if previous == ModeLinear {
			return k.synthesizeSmoothTangents(prev, next)
		}
		return k.realignTangents()
	}
	return 0
}

// synthesizeLinearTangents lets each tangent point a third of the way to the
// corresponding neighbour, which keeps both segments looking straight.
// At the ends of an open spline the missing tangent mirrors the present one.
func (k *Knot) synthesizeLinearTangents(prev, next *Knot) Modified {
	var in, out splines.Float3
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
	default:
		return 0
	}
	k.tangents[In].LocalPosition = k.toLocal(in)
	k.tangents[Out].LocalPosition = k.toLocal(out)
	return TangentsModified
}

// synthesizeSmoothTangents seeds the tangents with a third of the
// Catmull-Rom tangent through the neighbours.
func (k *Knot) synthesizeSmoothTangents(prev, next *Knot) Modified {
	seed := catmullRomTangentOut(k, prev, next).Scaled(1.0 / 3.0)
	l := seed.Length()
	if splines.Is0(l) {
		seed = k.Rotation.Forward().Scaled(1.0 / 3.0)
		l = seed.Length()
	}
	return k.alignTangents(seed, l, l)
}

// realignTangents makes Broken-looking tangents satisfy mode Mirrored or
// Continuous. Both tangents are turned to a common direction, the average
// of out and -in, and the knot is rotated to face that direction.
func (k *Knot) realignTangents() Modified {
	if k.modeHolds() {
		return 0
	}
	in, out := k.SplineTangent(In), k.SplineTangent(Out)
	lin, lout := in.Length(), out.Length()
	if isNull(in) && isNull(out) {
		return 0
	}
	var dir splines.Float3
	switch { // a null tangent has neither direction nor length worth keeping
	case isNull(in):
		dir, lin = out, lout
	case isNull(out):
		dir, lout = in.Neg(), lin
	default:
		dir = out.Normalized().Sub(in.Normalized())
		if dir.IsZero() { // tangents pointing in the same direction
			dir = out
		}
	}
	if k.mode == ModeMirrored {
		l := (lin + lout) / 2
		lin, lout = l, l
	}
	return k.alignTangents(dir, lin, lout)
}

// alignTangents rotates the knot so that its forward axis points along dir
// (spline space) and sets the tangents to lengths lin and lout along that
// axis. A rotation which would only roll the knot around dir is skipped,
// as it would snap the knot's twist without changing the tangents.
func (k *Knot) alignTangents(dir splines.Float3, lin, lout float32) Modified {
	mod := TangentsModified
	dir = dir.Normalized()
	if dir.IsZero() {
		dir = k.Rotation.Forward()
	}
	if k.Rotation.Forward().Dot(dir) < 1-splines.RollEpsilon {
		k.Rotation = splines.LookRotation(dir, k.Rotation.Up())
		mod |= RotationModified
	}
	local := k.toLocal(dir)
	k.tangents[Out].LocalPosition = local.Scaled(lout)
	k.tangents[In].LocalPosition = local.Scaled(-lin)
	return mod
}

// catmullRomTangentOut derives the outgoing tangent of a knot (spline space)
// from its neighbours: the central difference if both exist, a one-sided
// difference at the ends of an open spline, and the knot's forward axis
// for an isolated knot.
func catmullRomTangentOut(k, prev, next *Knot) splines.Float3 {
	switch {
	case prev != nil && next != nil:
		return bezier.CatmullRomTangent(prev.Position, next.Position)
	case next != nil:
		return next.Position.Sub(k.Position)
	case prev != nil:
		return k.Position.Sub(prev.Position)
	}
	return k.Rotation.Forward()
}

// OnKnotInsertedOnCurve computes the geometry of knot k, which is inserted at
// parameter t on the Bezier segment between prev and next. The segment is
// split with de Casteljau, so the curve keeps its shape: prev's outgoing
// and next's incoming tangent are shortened, and k receives the inner
// control points of the split. A mirrored neighbour whose tangents lost
// their symmetry becomes continuous.
func (k *Knot) OnKnotInsertedOnCurve(prev, next *Knot, t float32) (prevMod, nextMod Modified) {
	t = clamp01(t)
	curve := bezier.CurveFromKnots(prev.bezierKnot(), next.bezierKnot())
	left, right := curve.Split(t)
	prev.tangents[Out].LocalPosition = prev.toLocal(left.P1.Sub(left.P0))
	next.tangents[In].LocalPosition = next.toLocal(right.P2.Sub(right.P3))
	prevMod = TangentsModified | prev.demoteAfterSplit()
	nextMod = TangentsModified | next.demoteAfterSplit()

	k.Position = left.P3
	k.Rotation = interpolatedRotation(prev, next, curve, t)
	if prev.mode == ModeLinear && next.mode == ModeLinear {
		k.mode = ModeLinear
		k.tangents[In].LocalPosition = splines.Zero3
		k.tangents[Out].LocalPosition = splines.Zero3
		return
	}
	k.tangents[In].LocalPosition = k.toLocal(left.P2.Sub(left.P3))
	k.tangents[Out].LocalPosition = k.toLocal(right.P1.Sub(right.P0))
	k.mode = k.CalculateMode()
	return
}

func (k *Knot) demoteAfterSplit() Modified {
	if k.mode == ModeMirrored && !k.AreTangentsMirrored() && k.AreTangentsContinuous() {
		tracer().Debugf("split broke mirrored tangents, demoting to continuous")
		k.mode = ModeContinuous
		return ModeModified
	}
	return k.ValidateMode()
}

// interpolatedRotation orients a knot at parameter t of curve so that it
// faces along the curve, with its up axis interpolated between the up axes
// of prev and next.
func interpolatedRotation(prev, next *Knot, curve bezier.Curve, t float32) splines.Quat {
	up := prev.Rotation.Slerp(next.Rotation, t).Up()
	forward := curve.EvaluateTangent(t)
	if forward.IsZero() {
		forward = next.Position.Sub(prev.Position)
	}
	return splines.LookRotation(forward, up)
}

// OnKnotAddedAtEnd computes the geometry of knot k, which is appended after
// knot prev (nil for the first knot of a spline). A zero tangentOut makes k
// a linear knot facing away from prev; otherwise k faces along tangentOut
// with mirrored tangents of its length. normal is the desired up axis.
func (k *Knot) OnKnotAddedAtEnd(prev *Knot, normal, tangentOut splines.Float3) Modified {
	normal = normal.Sanitized()
	if normal.IsZero() {
		normal = splines.Up
	}
	tangentOut = tangentOut.Sanitized()
	if tangentOut.IsZero() {
		dir := splines.Forward
		if prev != nil && !k.Position.Sub(prev.Position).IsZero() {
			dir = k.Position.Sub(prev.Position)
		}
		k.Rotation = splines.LookRotation(dir, normal)
		k.mode = ModeLinear
		k.tangents[In].LocalPosition = splines.Zero3
		k.tangents[Out].LocalPosition = splines.Zero3
		return RotationModified | ModeModified | TangentsModified
	}
	k.Rotation = splines.LookRotation(tangentOut, normal)
	l := tangentOut.Length()
	k.mode = ModeMirrored
	k.tangents[Out].LocalPosition = splines.F3(0, 0, l)
	k.tangents[In].LocalPosition = splines.F3(0, 0, -l)
	return RotationModified | ModeModified | TangentsModified
}

func clamp01(t float32) float32 {
	if t != t || t < 0 { // NaN
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
