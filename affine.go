package splines

import "fmt"

// === Affine Transformations ================================================

// AT is an affine transform, a 3x4 matrix type used for transforming
// points and vectors. The last column holds the translation.
type AT [12]float32 // flattened by rows

func (m AT) get(row, col int) float32 {
	return m[row*4+col]
}

func (m *AT) set(row, col int, value float32) {
	m[row*4+col] = value
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	var m AT
	m.set(0, 0, 1)
	m.set(1, 1, 1)
	m.set(2, 2, 1)
	return m
}

// Translation transform. Translate a point by v.
func Translation(v Float3) AT {
	m := Identity()
	m.set(0, 3, v.X)
	m.set(1, 3, v.Y)
	m.set(2, 3, v.Z)
	return m
}

// Scaling transform. Scale a point component-wise by s.
func Scaling(s Float3) AT {
	var m AT
	m.set(0, 0, s.X)
	m.set(1, 1, s.Y)
	m.set(2, 2, s.Z)
	return m
}

// RotationQ transform. Rotate a point around the origin by q.
func RotationQ(q Quat) AT {
	q = q.Normalized()
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	var m AT
	m.set(0, 0, 1-2*(yy+zz))
	m.set(0, 1, 2*(xy-wz))
	m.set(0, 2, 2*(xz+wy))
	m.set(1, 0, 2*(xy+wz))
	m.set(1, 1, 1-2*(xx+zz))
	m.set(1, 2, 2*(yz-wx))
	m.set(2, 0, 2*(xz-wy))
	m.set(2, 1, 2*(yz+wx))
	m.set(2, 2, 1-2*(xx+yy))
	return m
}

// TRS is the usual transform of scene objects: scale first, then rotate,
// then translate.
func TRS(t Float3, r Quat, s Float3) AT {
	return Scaling(s).Combine(RotationQ(r)).Combine(Translation(t))
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g|%g,%g,%g,%g|%g,%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8], m[9], m[10], m[11])
}

// Combine 2 affine transformation to a new one, applying m first and n
// second. Returns a new transformation without changing the argument(s).
func (m AT) Combine(n AT) AT {
	var o AT
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			var v float32
			for k := 0; k < 3; k++ {
				v += n.get(row, k) * m.get(k, col)
			}
			if col == 3 {
				v += n.get(row, 3)
			}
			o.set(row, col, v)
		}
	}
	return o
}

// Transform a point. The argument is unchanged and a new point is returned.
func (m AT) Transform(p Float3) Float3 {
	return m.TransformVector(p).Add(Float3{m.get(0, 3), m.get(1, 3), m.get(2, 3)})
}

// TransformVector transforms a direction, ignoring translation.
func (m AT) TransformVector(v Float3) Float3 {
	return Float3{
		m.get(0, 0)*v.X + m.get(0, 1)*v.Y + m.get(0, 2)*v.Z,
		m.get(1, 0)*v.X + m.get(1, 1)*v.Y + m.get(1, 2)*v.Z,
		m.get(2, 0)*v.X + m.get(2, 1)*v.Y + m.get(2, 2)*v.Z,
	}
}

// Inverse returns the inverse transform. A singular transform has no
// inverse; Identity is returned in this case.
func (m AT) Inverse() AT {
	a, b, c := m.get(0, 0), m.get(0, 1), m.get(0, 2)
	d, e, f := m.get(1, 0), m.get(1, 1), m.get(1, 2)
	g, h, i := m.get(2, 0), m.get(2, 1), m.get(2, 2)
	A := e*i - f*h
	B := -(d*i - f*g)
	C := d*h - e*g
	det := a*A + b*B + c*C
	if Is0(det) {
		tracer().Errorf("cannot invert singular transform %s", m)
		return Identity()
	}
	inv := 1 / det
	var o AT
	o.set(0, 0, A*inv)
	o.set(0, 1, -(b*i-c*h)*inv)
	o.set(0, 2, (b*f-c*e)*inv)
	o.set(1, 0, B*inv)
	o.set(1, 1, (a*i-c*g)*inv)
	o.set(1, 2, -(a*f-c*d)*inv)
	o.set(2, 0, C*inv)
	o.set(2, 1, -(a*h-b*g)*inv)
	o.set(2, 2, (a*e-b*d)*inv)
	t := o.TransformVector(Float3{m.get(0, 3), m.get(1, 3), m.get(2, 3)})
	o.set(0, 3, -t.X)
	o.set(1, 3, -t.Y)
	o.set(2, 3, -t.Z)
	return o
}
