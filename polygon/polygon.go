/*
Package polygon computes planar footprints of splines.

A footprint is a closed polygon in one of the coordinate planes. Editing tools
use footprints for coarse overlap tests, e.g. whether a closed road loop
overlaps a building lot. Clipping is done by polyclip, an implementation of
the Martinez-Rueda-Feito algorithm.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"fmt"
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/bezier"
)

// L writes to trace with key 'splines.polygon'
func L() tracing.Trace {
	return tracing.Select("splines.polygon")
}

// Point is a point in the plane.
type Point = polyclip.Point

// P is a short constructor for planar points.
func P(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Plane selects the coordinate plane a 3D point is projected onto.
type Plane int

// Projection planes. XZ is the ground plane of a y-up world.
const (
	XY Plane = iota
	XZ
	YZ
)

// Project drops the coordinate orthogonal to the plane.
func (pl Plane) Project(v splines.Float3) Point {
	switch pl {
	case XZ:
		return P(float64(v.X), float64(v.Z))
	case YZ:
		return P(float64(v.Y), float64(v.Z))
	}
	return P(float64(v.X), float64(v.Y))
}

func (pl Plane) String() string {
	switch pl {
	case XZ:
		return "XZ"
	case YZ:
		return "YZ"
	}
	return "XY"
}

// ParsePlane returns the plane with name s (case insensitive).
func ParsePlane(s string) (Plane, error) {
	switch strings.ToUpper(s) {
	case "XY":
		return XY, nil
	case "XZ":
		return XZ, nil
	case "YZ":
		return YZ, nil
	}
	return XY, fmt.Errorf("unknown projection plane %q", s)
}

// Polygon is a sequence of knots connected by straight lines. Only cyclic
// polygons enclose an area.
type Polygon struct {
	contour polyclip.Contour
	cycle   bool
}

// NullPolygon creates an empty polygon, ready to receive knots.
func NullPolygon() *Polygon {
	return &Polygon{contour: make(polyclip.Contour, 0, 4)}
}

// Knot appends a knot to the polygon.
func (pg *Polygon) Knot(pt Point) *Polygon {
	pg.contour.Add(pt)
	return pg
}

// End closes an open polygon.
func (pg *Polygon) End() *Polygon {
	pg.cycle = false
	return pg
}

// Cycle connects the last knot with the first one.
func (pg *Polygon) Cycle() *Polygon {
	pg.cycle = true
	return pg
}

// Box creates a rectangle from two opposing corners.
func Box(a, b Point) *Polygon {
	lx, hx := math.Min(a.X, b.X), math.Max(a.X, b.X)
	ly, hy := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return NullPolygon().Knot(P(lx, ly)).Knot(P(hx, ly)).Knot(P(hx, hy)).Knot(P(lx, hy)).Cycle()
}

// N returns the number of knots.
func (pg *Polygon) N() int {
	return len(pg.contour)
}

// IsCycle is a predicate: is this polygon closed?
func (pg *Polygon) IsCycle() bool {
	return pg.cycle
}

// Pt returns knot i, wrapping around.
func (pg *Polygon) Pt(i int) Point {
	n := len(pg.contour)
	return pg.contour[((i%n)+n)%n]
}

// Area returns the unsigned area enclosed by a cyclic polygon. Open polygons
// have no area.
func (pg *Polygon) Area() float64 {
	if !pg.cycle || len(pg.contour) < 3 {
		return 0
	}
	var a float64
	for i, p := range pg.contour {
		q := pg.Pt(i + 1)
		a += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(a) / 2
}

// BoundingBox returns the axis-aligned bounds of the polygon.
func (pg *Polygon) BoundingBox() polyclip.Rectangle {
	return pg.contour.BoundingBox()
}

// Contains checks if a point lies inside a cyclic polygon.
func (pg *Polygon) Contains(pt Point) bool {
	if !pg.cycle || len(pg.contour) < 3 {
		return false
	}
	return pg.contour.Contains(pt)
}

// Intersection returns the regions covered by both polygons. Open polygons
// take part as if they were closed.
func (pg *Polygon) Intersection(other *Polygon) []*Polygon {
	return pg.clip(polyclip.INTERSECTION, other)
}

// Union returns the regions covered by either polygon.
func (pg *Polygon) Union(other *Polygon) []*Polygon {
	return pg.clip(polyclip.UNION, other)
}

// Difference returns the regions of pg not covered by other.
func (pg *Polygon) Difference(other *Polygon) []*Polygon {
	return pg.clip(polyclip.DIFFERENCE, other)
}

func (pg *Polygon) clip(op polyclip.Op, other *Polygon) []*Polygon {
	subject := polyclip.Polygon{pg.contour}
	clipping := polyclip.Polygon{other.contour}
	result := subject.Construct(op, clipping)
	regions := make([]*Polygon, 0, len(result))
	for _, c := range result {
		if len(c) < 3 {
			continue
		}
		regions = append(regions, &Polygon{contour: c, cycle: true})
	}
	L().Debugf("clipping %d x %d knots: %d region(s)", pg.N(), other.N(), len(regions))
	return regions
}

// Overlaps is a predicate: do two cyclic polygons share a region of non-zero
// area?
func (pg *Polygon) Overlaps(other *Polygon) bool {
	if !pg.cycle || !other.cycle || pg.N() < 3 || other.N() < 3 {
		return false
	}
	if !pg.BoundingBox().Overlaps(other.BoundingBox()) {
		return false
	}
	for _, r := range pg.Intersection(other) {
		if !splines.Is0(float32(r.Area())) {
			return true
		}
	}
	return false
}

// FromBezier flattens a Bezier knot list into a polygon in the given plane.
// Every segment contributes samplesPerSegment knots (at least one), starting
// at the segment's start knot. Open lists additionally get their last knot.
func FromBezier(knots []bezier.Knot, closed bool, plane Plane, samplesPerSegment int) *Polygon {
	if samplesPerSegment < 1 {
		samplesPerSegment = 1
	}
	pg := NullPolygon()
	segcnt := bezier.SegmentCount(len(knots), closed)
	if segcnt == 0 {
		for _, k := range knots {
			pg.Knot(plane.Project(k.Position))
		}
		return pg.End()
	}
	for i := 0; i < segcnt; i++ {
		c, _ := bezier.CurveAt(knots, i, closed)
		for s := 0; s < samplesPerSegment; s++ {
			t := float32(s) / float32(samplesPerSegment)
			pg.Knot(plane.Project(c.Evaluate(t)))
		}
	}
	if closed {
		return pg.Cycle()
	}
	return pg.Knot(plane.Project(knots[len(knots)-1].Position)).End()
}

// AsString returns a polygon as a (debugging) string, in a format close to
// MetaPost's.
func AsString(pg *Polygon) string {
	var sb strings.Builder
	for i, p := range pg.contour {
		if i > 0 {
			sb.WriteString(" -- ")
		}
		fmt.Fprintf(&sb, "(%g,%g)", p.X, p.Y)
	}
	if pg.cycle {
		sb.WriteString(" -- cycle")
	}
	return sb.String()
}
