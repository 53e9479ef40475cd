/*
Package bezier deals with cubic Bezier segments in 3D space and with the
basis-neutral knot list every spline can be converted to.

A Bezier spline is represented as a slice of Knot values. Each knot carries
its position, an incoming and an outgoing tangent, and a rotation. Two
consecutive knots a and b span the cubic segment

	a.Position .. controls a.Position+a.TangentOut and b.Position+b.TangentIn .. b.Position

Tangents are offsets from the knot position, expressed in spline space.
Splines using other curve families (Catmull-Rom, linear) fill a Builder
segment by segment to produce such a knot list.

Curves are split with de Casteljau's algorithm, see Curve.Split.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bezier

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splines"
)

// tracer writes to trace with key 'splines.bezier'
func tracer() tracing.Trace {
	return tracing.Select("splines.bezier")
}

// AsString returns a knot list as a (debugging) string, in a format close to
// MetaPost's:
//
//	(0,0,0) .. controls (1.0000,0.0000,0.0000) and (2.0000,1.0000,0.0000)
//	  .. (3,1,0) .. cycle
//
// Open lists omit the trailing cycle.
func AsString(knots []Knot, closed bool) string {
	var s string
	for i, k := range knots {
		if i > 0 {
			s += fmt.Sprintf(" and %s\n  .. ", ptstring(k.Position.Add(k.TangentIn), true))
		}
		s += ptstring(k.Position, false)
		if i < len(knots)-1 || (closed && len(knots) > 1) {
			s += fmt.Sprintf(" .. controls %s", ptstring(k.Position.Add(k.TangentOut), true))
		}
	}
	if closed && len(knots) > 1 {
		first := knots[0]
		s += fmt.Sprintf(" and %s\n  .. cycle", ptstring(first.Position.Add(first.TangentIn), true))
	}
	return s
}

func ptstring(p splines.Float3, iscontrol bool) string {
	if p.HasNaN() {
		return "(<unknown>)"
	}
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f,%.4f)", p.X, p.Y, p.Z)
	}
	return fmt.Sprintf("(%.4g,%.4g,%.4g)", p.X, p.Y, p.Z)
}
