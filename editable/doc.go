/*
Package editable keeps the tangents of spline knots consistent while they
are edited interactively.

A Bezier knot owns two tangents, "in" and "out", and a tangent mode:

	Linear      both tangents are zero, segments are straight
	Mirrored    tangents are opposite and of equal length
	Continuous  tangents are opposite, lengths are independent
	Broken      tangents are independent

Editing one tangent propagates to the opposite one according to the mode
(see Knot.TangentChanged); changing the mode reconciles the tangents with
the new mode (see Knot.SetMode). Whenever geometry is changed in a way the
mode cannot express, the mode is demoted rather than left stale.

Catmull-Rom and linear splines store no tangents at all. Their tangents are
derived from neighbouring knot positions. Every spline converts to a list of
bezier.Knot (Spline.ToBezier), which is the interchange format between the
curve families.

Tangents are stored in the local frame of their knot, given by the knot's
rotation. Knot positions and rotations are relative to the spline, which in
turn is placed in the world by an external Transform.

All operations are synchronous and not safe for concurrent use. Editing a
knot reads its neighbours, so callers must serialize all mutations of a
spline.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package editable

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'splines.editable'
func tracer() tracing.Trace {
	return tracing.Select("splines.editable")
}

var (
	// ErrIndexOutOfRange indicates a knot or segment index outside the spline.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrTooFewKnots indicates a spline without any segment to operate on.
	ErrTooFewKnots = errors.New("spline has too few knots")
	// ErrDerivedTangents indicates an attempt to edit tangents of a spline
	// whose tangents are derived from knot positions.
	ErrDerivedTangents = errors.New("tangents of this basis are derived from knot positions")
)
