/*
Package splines implements float32 vectors, quaternions and affine transforms
for editing splines in 3D space. Sub-packages build on these primitives:
package bezier deals with cubic Bezier segments and the basis-neutral knot
list, package editable keeps knot tangents consistent while they are edited,
and package polygon computes planar footprints of splines.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package splines

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'splines'
func tracer() tracing.Trace {
	return tracing.Select("splines")
}

// === Numeric Predicates ====================================================

// Is0 is a predicate: is n = 0 ?
func Is0(n float32) bool {
	return math32.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float32) bool {
	return math32.Abs(1-n) <= Epsilon
}

// Approximately compares two floats within Epsilon, relative to their magnitude
// for large values.
func Approximately(a, b float32) bool {
	d := math32.Abs(a - b)
	m := math32.Max(math32.Abs(a), math32.Abs(b))
	return d <= Epsilon || d <= Epsilon*m
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float32) float32 {
	if Is0(n) {
		n = 0
	}
	return n
}

// === Float3 Data Type ======================================================

// Float3 is a 3D vector or point.
type Float3 struct {
	X, Y, Z float32
}

// Frequently used constant vectors.
var (
	Zero3   = Float3{}
	Forward = Float3{0, 0, 1}
	Up      = Float3{0, 1, 0}
	Right   = Float3{1, 0, 0}
)

// F3 is a quick notation for constructing a vector from floats.
func F3(x, y, z float32) Float3 {
	return Float3{X: x, Y: y, Z: z}
}

// Pretty Stringer for vectors.
func (v Float3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}

// Add returns v + w.
func (v Float3) Add(w Float3) Float3 {
	return Float3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Float3) Sub(w Float3) Float3 {
	return Float3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Neg returns -v.
func (v Float3) Neg() Float3 {
	return Float3{-v.X, -v.Y, -v.Z}
}

// Scaled returns a new vector scaled by factor a.
func (v Float3) Scaled(a float32) Float3 {
	return Float3{v.X * a, v.Y * a, v.Z * a}
}

// Dot returns the dot product of v and w.
func (v Float3) Dot(w Float3) float32 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v × w.
func (v Float3) Cross(w Float3) Float3 {
	return Float3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// LengthSq returns the squared length of v.
func (v Float3) LengthSq() float32 {
	return v.Dot(v)
}

// Length returns the length of v.
func (v Float3) Length() float32 {
	return math32.Sqrt(v.LengthSq())
}

// Normalized returns v with length 1. A zero-length vector stays zero.
func (v Float3) Normalized() Float3 {
	l := v.Length()
	if l <= Epsilon*Epsilon || math32.IsNaN(l) {
		return Zero3
	}
	return v.Scaled(1 / l)
}

// HasNaN is a predicate: does any component of v hold NaN?
func (v Float3) HasNaN() bool {
	return math32.IsNaN(v.X) || math32.IsNaN(v.Y) || math32.IsNaN(v.Z)
}

// Sanitized returns the zero vector for vectors containing NaN, v otherwise.
func (v Float3) Sanitized() Float3 {
	if v.HasNaN() {
		tracer().Errorf("sanitized vector containing NaN")
		return Zero3
	}
	return v
}

// IsZero is a predicate: is v of length 0 (within Epsilon)?
func (v Float3) IsZero() bool {
	return Is0(v.X) && Is0(v.Y) && Is0(v.Z)
}

// Equal compares two vectors component-wise within Epsilon.
func (v Float3) Equal(w Float3) bool {
	return Approximately(v.X, w.X) && Approximately(v.Y, w.Y) && Approximately(v.Z, w.Z)
}

// Lerp interpolates linearly between v (t=0) and w (t=1).
func (v Float3) Lerp(w Float3, t float32) Float3 {
	return v.Add(w.Sub(v).Scaled(t))
}
