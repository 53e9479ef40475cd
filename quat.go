package splines

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Quat is a unit quaternion describing an orientation in 3D space.
// W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatAxisAngle creates a rotation of angle (radians) around axis.
func QuatAxisAngle(axis Float3, angle float32) Quat {
	axis = axis.Normalized()
	if axis.IsZero() {
		return QuatIdentity()
	}
	s := math32.Sin(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: math32.Cos(angle / 2)}
}

// LookRotation creates a rotation which maps the local forward axis (0,0,1)
// onto forward and the local up axis (0,1,0) as close as possible onto up.
// A zero forward vector results in the identity rotation. If forward and
// up are parallel, the shortest rotation from Forward to forward is used.
func LookRotation(forward, up Float3) Quat {
	f := forward.Sanitized().Normalized()
	if f.IsZero() {
		return QuatIdentity()
	}
	r := up.Sanitized().Cross(f)
	if r.LengthSq() <= Epsilon*Epsilon {
		return FromToRotation(Forward, f)
	}
	r = r.Normalized()
	u := f.Cross(r)
	return quatFromBasis(r, u, f)
}

// quatFromBasis converts an orthonormal basis (the columns of a rotation matrix)
// to a quaternion.
func quatFromBasis(r, u, f Float3) Quat {
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z
	var q Quat
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		q = Quat{X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s, W: 0.25 * s}
	case m00 > m11 && m00 > m22:
		s := math32.Sqrt(1+m00-m11-m22) * 2
		q = Quat{X: 0.25 * s, Y: (m01 + m10) / s, Z: (m02 + m20) / s, W: (m21 - m12) / s}
	case m11 > m22:
		s := math32.Sqrt(1+m11-m00-m22) * 2
		q = Quat{X: (m01 + m10) / s, Y: 0.25 * s, Z: (m12 + m21) / s, W: (m02 - m20) / s}
	default:
		s := math32.Sqrt(1+m22-m00-m11) * 2
		q = Quat{X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: 0.25 * s, W: (m10 - m01) / s}
	}
	return q.Normalized()
}

// FromToRotation returns the shortest rotation which turns direction from
// into direction to.
func FromToRotation(from, to Float3) Quat {
	from, to = from.Normalized(), to.Normalized()
	if from.IsZero() || to.IsZero() {
		return QuatIdentity()
	}
	d := from.Dot(to)
	if d >= 1-Epsilon {
		return QuatIdentity()
	}
	if d <= -1+Epsilon {
		axis := Right.Cross(from)
		if axis.LengthSq() <= Epsilon {
			axis = Up.Cross(from)
		}
		return QuatAxisAngle(axis, math32.Pi)
	}
	c := from.Cross(to)
	return Quat{X: c.X, Y: c.Y, Z: c.Z, W: 1 + d}.Normalized()
}

// Pretty Stringer for quaternions.
func (q Quat) String() string {
	return fmt.Sprintf("(%g,%g,%g,%g)", q.X, q.Y, q.Z, q.W)
}

// Dot returns the 4D dot product of two quaternions.
func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Normalized returns q scaled to unit length. Degenerate quaternions
// (including those holding NaN) become the identity.
func (q Quat) Normalized() Quat {
	l := math32.Sqrt(q.Dot(q))
	if l < Epsilon || math32.IsNaN(l) {
		return QuatIdentity()
	}
	return Quat{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

// Mul combines two rotations: the result applies o first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Conjugate returns the conjugate of q.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Inverse returns the inverse rotation of q.
func (q Quat) Inverse() Quat {
	d := q.Dot(q)
	if d < Epsilon {
		return QuatIdentity()
	}
	c := q.Conjugate()
	return Quat{X: c.X / d, Y: c.Y / d, Z: c.Z / d, W: c.W / d}
}

// Rotate applies the rotation q to vector v.
func (q Quat) Rotate(v Float3) Float3 {
	u := Float3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scaled(2)
	return v.Add(t.Scaled(q.W)).Add(u.Cross(t))
}

// Forward returns the local forward axis (0,0,1) rotated by q.
func (q Quat) Forward() Float3 {
	return q.Rotate(Forward)
}

// Up returns the local up axis (0,1,0) rotated by q.
func (q Quat) Up() Float3 {
	return q.Rotate(Up)
}

// Approximately is a predicate: do q and o describe the same rotation?
func (q Quat) Approximately(o Quat) bool {
	return math32.Abs(q.Normalized().Dot(o.Normalized())) >= 1-RollEpsilon
}

// Slerp interpolates spherically between q (t=0) and o (t=1), taking the
// shorter path.
func (q Quat) Slerp(o Quat, t float32) Quat {
	dot := q.Dot(o)
	if dot < 0 {
		o = Quat{X: -o.X, Y: -o.Y, Z: -o.Z, W: -o.W}
		dot = -dot
	}
	if dot > 0.9995 {
		return Quat{
			X: q.X + t*(o.X-q.X),
			Y: q.Y + t*(o.Y-q.Y),
			Z: q.Z + t*(o.Z-q.Z),
			W: q.W + t*(o.W-q.W),
		}.Normalized()
	}
	theta0 := math32.Acos(dot)
	theta := theta0 * t
	sinTheta := math32.Sin(theta)
	sinTheta0 := math32.Sin(theta0)
	s0 := math32.Cos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0
	return Quat{
		X: q.X*s0 + o.X*s1,
		Y: q.Y*s0 + o.Y*s1,
		Z: q.Z*s0 + o.Z*s1,
		W: q.W*s0 + o.W*s1,
	}
}
