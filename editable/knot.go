package editable

import (
	"github.com/chewxy/math32"
	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/bezier"
)

// Tangent is one of the two tangents of a knot. LocalPosition is relative to
// the knot's position, in the knot's local frame.
type Tangent struct {
	LocalPosition splines.Float3
	index         TangentIndex
}

// Index tells whether this is the incoming or the outgoing tangent.
func (t Tangent) Index() TangentIndex {
	return t.index
}

// Knot is a control point of a spline. Position and Rotation are relative to
// the spline. Tangents and mode are meaningful for Bezier splines only; for
// other curve families see Spline.LocalTangents.
type Knot struct {
	Position splines.Float3
	Rotation splines.Quat
	mode     Mode
	tangents [2]Tangent
}

// NewKnot creates a knot without tangents, i.e., in mode Linear.
func NewKnot(pos splines.Float3, rot splines.Quat) Knot {
	return Knot{
		Position: pos,
		Rotation: rot.Normalized(),
		mode:     ModeLinear,
		tangents: [2]Tangent{{index: In}, {index: Out}},
	}
}

// Mode returns the tangent mode of the knot.
func (k *Knot) Mode() Mode {
	return k.mode
}

// Tangent returns tangent i.
func (k *Knot) Tangent(i TangentIndex) Tangent {
	return k.tangents[i]
}

// TangentIn returns the incoming tangent.
func (k *Knot) TangentIn() Tangent {
	return k.tangents[In]
}

// TangentOut returns the outgoing tangent.
func (k *Knot) TangentOut() Tangent {
	return k.tangents[Out]
}

// SplineTangent returns tangent i in spline space.
func (k *Knot) SplineTangent(i TangentIndex) splines.Float3 {
	return k.Rotation.Rotate(k.tangents[i].LocalPosition)
}

// toLocal converts a spline space direction into the knot's frame.
func (k *Knot) toLocal(v splines.Float3) splines.Float3 {
	return k.Rotation.Inverse().Rotate(v)
}

func (k *Knot) bezierKnot() bezier.Knot {
	return bezier.Knot{
		Position:   k.Position,
		TangentIn:  k.SplineTangent(In),
		TangentOut: k.SplineTangent(Out),
		Rotation:   k.Rotation,
	}
}

// suspendModes lifts all tangent coupling until the returned function is
// called. On exit the previous mode is restored if the tangents still agree
// with it; otherwise the mode is derived from the tangents.
func (k *Knot) suspendModes() func() Modified {
	previous := k.mode
	k.mode = ModeBroken
	return func() Modified {
		k.mode = previous
		if k.modeHolds() {
			return 0
		}
		k.mode = k.CalculateMode()
		tracer().Debugf("tangent edit changed mode %s → %s", previous, k.mode)
		return ModeModified
	}
}

// SetLocalTangents sets both tangents at once, in the knot's local frame.
// Neither write is propagated to the other tangent. Use it when the caller
// supplies authoritative values for both tangents.
func (k *Knot) SetLocalTangents(in, out splines.Float3) Modified {
	restore := k.suspendModes()
	k.tangents[In].LocalPosition = in.Sanitized()
	k.tangents[Out].LocalPosition = out.Sanitized()
	return TangentsModified | restore()
}

// SetTangents is SetLocalTangents for tangents given in world space. The
// spline is placed in the world by localToWorld.
func (k *Knot) SetTangents(worldIn, worldOut splines.Float3, localToWorld splines.AT) Modified {
	worldToSpline := localToWorld.Inverse()
	in := k.toLocal(worldToSpline.TransformVector(worldIn.Sanitized()))
	out := k.toLocal(worldToSpline.TransformVector(worldOut.Sanitized()))
	return k.SetLocalTangents(in, out)
}

// SetTangentLocalPosition edits tangent i, as a user dragging a tangent
// handle would, and propagates the edit according to the knot's mode.
func (k *Knot) SetTangentLocalPosition(i TangentIndex, v splines.Float3) Modified {
	k.tangents[i].LocalPosition = v
	return TangentsModified | k.TangentChanged(i, k.mode)
}

// TangentChanged propagates an edit of tangent i to the opposite tangent.
// The knot adopts mode desired, which usually is its current mode.
//
//	Continuous: the opposite tangent turns to point against tangent i, keeping its length
//	Mirrored:   the opposite tangent becomes the negation of tangent i
//	Linear:     nothing to propagate; the mode is validated
//	Broken:     no coupling
//
// An edited tangent containing NaN is reset to zero first.
func (k *Knot) TangentChanged(i TangentIndex, desired Mode) Modified {
	var mod Modified
	changed := &k.tangents[i]
	if changed.LocalPosition.HasNaN() {
		changed.LocalPosition = changed.LocalPosition.Sanitized()
		mod |= TangentsModified
	}
	opposite := &k.tangents[i.Opposite()]
	if k.mode != desired {
		k.mode = desired
		mod |= ModeModified
	}
	switch k.mode {
	case ModeContinuous:
		dir := changed.LocalPosition.Normalized()
		if !dir.IsZero() {
			opposite.LocalPosition = dir.Neg().Scaled(opposite.LocalPosition.Length())
			mod |= TangentsModified
		}
	case ModeMirrored:
		opposite.LocalPosition = changed.LocalPosition.Neg()
		mod |= TangentsModified
	}
	return mod | k.ValidateMode()
}

// ValidateMode demotes the knot to mode Broken if its tangents do not agree
// with its mode.
func (k *Knot) ValidateMode() Modified {
	if k.modeHolds() {
		return 0
	}
	tracer().Infof("tangents disagree with mode %s, demoting to broken", k.mode)
	k.mode = ModeBroken
	return ModeModified
}

// modeHolds is a predicate: do the tangents satisfy the knot's mode?
// Mirrored tangents satisfy mode Continuous as well.
func (k *Knot) modeHolds() bool {
	switch k.mode {
	case ModeLinear:
		return k.AreTangentsLinear()
	case ModeMirrored:
		return k.AreTangentsMirrored()
	case ModeContinuous:
		return k.AreTangentsContinuous()
	}
	return true
}

// CalculateMode returns the strictest mode the current tangents satisfy.
func (k *Knot) CalculateMode() Mode {
	switch {
	case k.AreTangentsLinear():
		return ModeLinear
	case k.AreTangentsMirrored():
		return ModeMirrored
	case k.AreTangentsContinuous():
		return ModeContinuous
	}
	return ModeBroken
}

// AreTangentsLinear is a predicate: are both tangents of length zero?
func (k *Knot) AreTangentsLinear() bool {
	return isNull(k.tangents[In].LocalPosition) && isNull(k.tangents[Out].LocalPosition)
}

// AreTangentsMirrored is a predicate: are the tangents opposite and of
// equal length?
func (k *Knot) AreTangentsMirrored() bool {
	in, out := k.tangents[In].LocalPosition, k.tangents[Out].LocalPosition
	if isNull(in) && isNull(out) {
		return true
	}
	return antiparallel(in, out) && math32.Abs(in.Length()-out.Length()) <= splines.ModeEpsilon
}

// AreTangentsContinuous is a predicate: are the tangents opposite?
func (k *Knot) AreTangentsContinuous() bool {
	in, out := k.tangents[In].LocalPosition, k.tangents[Out].LocalPosition
	if isNull(in) && isNull(out) {
		return true
	}
	return antiparallel(in, out)
}

func isNull(v splines.Float3) bool {
	return v.Length() <= splines.ModeEpsilon
}

func antiparallel(a, b splines.Float3) bool {
	if isNull(a) || isNull(b) {
		return false
	}
	return a.Normalized().Dot(b.Normalized()) <= -1+splines.ModeEpsilon
}
