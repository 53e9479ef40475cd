package bezier

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/splines"
	"github.com/stretchr/testify/assert"
)

func linearSegment(a, b splines.Float3) Segment {
	tangent := LinearTangent(a, b)
	return Segment{
		Start:         a,
		End:           b,
		TangentOut:    tangent,
		TangentIn:     tangent.Neg(),
		StartRotation: splines.QuatIdentity(),
		EndRotation:   splines.QuatIdentity(),
	}
}

func TestBuilderOpenEdgeRule(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []splines.Float3{splines.F3(0, 0, 0), splines.F3(3, 0, 0), splines.F3(3, 3, 0)}
	b := NewBuilder(len(pts), false)
	for i := 0; i < SegmentCount(len(pts), false); i++ {
		b.SetSegment(i, linearSegment(pts[i], pts[i+1]))
	}
	knots := b.Knots()
	assert.Len(t, knots, 3)
	assertNear(t, splines.F3(1, 0, 0), knots[0].TangentOut)
	assertNear(t, splines.F3(-1, 0, 0), knots[0].TangentIn)
	assertNear(t, splines.F3(-1, 0, 0), knots[1].TangentIn)
	assertNear(t, splines.F3(0, 1, 0), knots[1].TangentOut)
	assertNear(t, splines.F3(0, -1, 0), knots[2].TangentIn)
	assertNear(t, splines.F3(0, 1, 0), knots[2].TangentOut)
}

func TestBuilderClosedWraps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []splines.Float3{splines.F3(0, 0, 0), splines.F3(3, 0, 0), splines.F3(3, 3, 0)}
	b := NewBuilder(len(pts), true)
	for i := 0; i < SegmentCount(len(pts), true); i++ {
		b.SetSegment(i, linearSegment(pts[i], pts[(i+1)%len(pts)]))
	}
	b.SetSegment(7, linearSegment(pts[0], pts[1])) // ignored
	knots := b.Knots()
	assertNear(t, splines.F3(1, 1, 0), knots[0].TangentIn)
	assertNear(t, splines.F3(1, 0, 0), knots[0].TangentOut)
	assertNear(t, splines.F3(-1, -1, 0), knots[2].TangentOut)
}
