package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/editable"
	"github.com/npillmayer/splines/polygon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const road = `
basis: bezier
closed: false
knots:
  - position: [0, 0, 0]
    tangents: {in: [0, 0, -1], out: [0, 0, 1]}
  - position: [3, 0, 3]
  - position: [6, 0, 0]
    mode: broken
edits:
  - {op: set_mode, knot: 1, mode: continuous}
  - {op: drag_tangent, knot: 0, tangent: out, to: [0, 0, 2]}
  - {op: insert, segment: 0, t: 0.5}
  - {op: append, position: [9, 0, 0], to: [1, 0, 0]}
  - {op: refresh}
`

func parse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestBuildAndApply(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	doc := parse(t, road)
	s, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, s.N())
	assert.Equal(t, editable.ModeMirrored, s.Z(0).Mode())
	assert.Equal(t, editable.ModeBroken, s.Z(2).Mode())

	s, steps, err := doc.Apply(s)
	require.NoError(t, err)
	require.Len(t, steps, 5)
	assert.Equal(t, 5, s.N())
	assert.True(t, steps[0].Changes.Has(1, editable.ModeModified))
	assert.True(t, steps[2].Changes.Has(1, editable.KnotInserted))
	assert.True(t, steps[3].Changes.Has(4, editable.KnotInserted))

	in, out, err := s.LocalTangents(0)
	require.NoError(t, err)
	assert.Equal(t, editable.ModeContinuous, s.Z(0).Mode(), "split demotes mirrored")
	assert.InDelta(t, 1, out.Z, 1e-4)
	assert.InDelta(t, -2, in.Z, 1e-4)
}

func TestDragTangentWithMode(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	doc := parse(t, `
knots:
  - position: [0, 0, 0]
    tangents: {in: [0, 0, -1], out: [0, 0, 1]}
edits:
  - {op: drag_tangent, knot: 0, tangent: in, to: [0, 0, -3], mode: continuous}
`)
	s, err := doc.Build()
	require.NoError(t, err)
	s, _, err = doc.Apply(s)
	require.NoError(t, err)
	in, out, _ := s.LocalTangents(0)
	assert.Equal(t, editable.ModeContinuous, s.Z(0).Mode())
	assert.Equal(t, splines.F3(0, 0, -3), in)
	assert.InDelta(t, 1, out.Z, 1e-5)
}

func TestConvertEdit(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	doc := parse(t, `
basis: catmull-rom
closed: true
knots:
  - position: [0, 0, 0]
  - position: [4, 0, 0]
  - position: [4, 0, 4]
  - position: [0, 0, 4]
edits:
  - {op: move, knot: 2, position: [5, 0, 5]}
  - {op: convert, basis: bezier}
  - {op: set_mode, knot: 0, mode: broken}
  - {op: set_closed, closed: false}
`)
	s, err := doc.Build()
	require.NoError(t, err)
	s, steps, err := doc.Apply(s)
	require.NoError(t, err)
	assert.Len(t, steps, 4)
	assert.Equal(t, editable.Bezier, s.Basis())
	assert.False(t, s.IsCycle())
	assert.Equal(t, splines.F3(5, 0, 5), s.Z(2).Position)
}

func TestScriptErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Parse(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrScript))
	_, err = Parse(strings.NewReader("knots: []\nflavour: sweet\n"))
	assert.True(t, errors.Is(err, ErrScript), "unknown fields are rejected")

	_, err = parse(t, "basis: nurbs\n").Build()
	assert.True(t, errors.Is(err, ErrScript))
	_, err = parse(t, "knots:\n  - position: [1, 2]\n").Build()
	assert.True(t, errors.Is(err, ErrScript))
	_, err = parse(t, "basis: linear\nknots:\n  - position: [0, 0, 0]\n    tangents: {in: [1, 0, 0], out: [1, 0, 0]}\n").Build()
	assert.True(t, errors.Is(err, ErrScript))
	_, err = parse(t, "knots:\n  - position: [0, 0, 0]\n    mode: wobbly\n").Build()
	assert.True(t, errors.Is(err, ErrScript))

	doc := parse(t, `
knots:
  - position: [0, 0, 0]
  - position: [1, 0, 0]
edits:
  - {op: refresh}
  - {op: remove, knot: 5}
  - {op: refresh}
`)
	s, err := doc.Build()
	require.NoError(t, err)
	_, steps, err := doc.Apply(s)
	assert.True(t, errors.Is(err, editable.ErrIndexOutOfRange))
	assert.Len(t, steps, 1)

	_, _, err = parse(t, "edits:\n  - {op: twirl}\n").Apply(s)
	assert.True(t, errors.Is(err, ErrScript))
	_, _, err = parse(t, "edits:\n  - {op: drag_tangent, knot: 0, tangent: sideways, to: [1, 0, 0]}\n").Apply(s)
	assert.True(t, errors.Is(err, ErrScript))
}

func TestTolerancesFromScript(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	saved := splines.CurrentTolerances()
	defer func() { require.NoError(t, saved.Apply()) }()

	_, err := parse(t, "tolerances:\n  mode_epsilon: 0.01\nknots: []\n").Build()
	require.NoError(t, err)
	assert.Equal(t, float32(0.01), splines.ModeEpsilon)
	assert.Equal(t, saved.RollEpsilon, splines.RollEpsilon)

	_, err = parse(t, "tolerances:\n  roll_epsilon: 0\n").Build()
	assert.True(t, errors.Is(err, splines.ErrInvalidTolerance))
}

func TestReport(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := editable.NewSpline(editable.Linear).
		Knot(splines.F3(0, 0, 0)).Knot(splines.F3(2, 0, 0)).
		Knot(splines.F3(2, 0, 2)).Knot(splines.F3(0, 0, 2)).Cycle()
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, s, FormatKnots, ReportOptions{}))
	assert.Contains(t, buf.String(), "linear spline, 4 knots, closed=true")

	buf.Reset()
	require.NoError(t, Report(&buf, s, FormatBezier, ReportOptions{}))
	assert.Contains(t, buf.String(), "cycle")

	buf.Reset()
	opts := ReportOptions{Plane: polygon.XZ, Samples: 4}
	require.NoError(t, Report(&buf, s, FormatFootprint, opts))
	assert.True(t, strings.HasPrefix(buf.String(), "XZ footprint, area=4.0000\n"), buf.String())

	assert.True(t, errors.Is(Report(&buf, s, Format("svg"), opts), ErrScript))
}
