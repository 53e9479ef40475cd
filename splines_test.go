package splines

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNear(t *testing.T, want, got Float3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, "x of %v vs %v", want, got)
	assert.InDelta(t, want.Y, got.Y, 1e-4, "y of %v vs %v", want, got)
	assert.InDelta(t, want.Z, got.Z, 1e-4, "z of %v vs %v", want, got)
}

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if !Is0(0.000001) {
		t.Errorf("Expected a to be zero, is not")
	}
	assert.True(t, Is1(0.999999))
	assert.Equal(t, float32(0), Zap(-0.000001))
	assert.True(t, Approximately(1000000, 1000001))
}

func TestFloat3Basic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	v := F3(3, 2, 1)
	assert.True(t, v.Add(v.Neg()).IsZero())
	assert.Equal(t, F3(0, 0, 1), Right.Cross(Up))
	assert.InDelta(t, 5, F3(3, 4, 0).Length(), 1e-6)
	assert.Equal(t, Zero3, Zero3.Normalized())
	assert.Equal(t, "(3,2,1)", v.String())
	assertNear(t, F3(1.5, 1, 0.5), Zero3.Lerp(v, 0.5))
}

func TestSanitize(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	v := F3(float32(math.NaN()), 1, 2)
	assert.True(t, v.HasNaN())
	assert.Equal(t, Zero3, v.Sanitized())
	assert.Equal(t, Zero3, v.Normalized())
	assert.Equal(t, F3(1, 2, 3), F3(1, 2, 3).Sanitized())
}

func TestQuatRotate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q := QuatAxisAngle(Up, math.Pi/2)
	assertNear(t, F3(1, 0, 0), q.Rotate(Forward))
	assertNear(t, Forward, q.Inverse().Rotate(F3(1, 0, 0)))
	assertNear(t, F3(1, 0, 0), q.Forward())
	assertNear(t, Up, q.Up())
	r := QuatAxisAngle(Right, math.Pi/2)
	v := F3(1, 2, 3)
	assertNear(t, q.Rotate(r.Rotate(v)), q.Mul(r).Rotate(v))
}

func TestLookRotation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.True(t, LookRotation(Forward, Up).Approximately(QuatIdentity()))
	dir := F3(1, 1, 0).Normalized()
	q := LookRotation(dir, Up)
	assertNear(t, dir, q.Forward())
	assert.InDelta(t, 0, q.Up().Dot(dir), 1e-5)
	assert.Greater(t, q.Up().Y, float32(0))
	// forward parallel to up
	q = LookRotation(Up, Up)
	assertNear(t, Up, q.Forward())
	assert.Equal(t, QuatIdentity(), LookRotation(Zero3, Up))
}

func TestFromToRotation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, c := range [][2]Float3{
		{Forward, Right},
		{Forward, Forward.Neg()},
		{F3(1, 2, 3), F3(-2, 0, 1)},
	} {
		q := FromToRotation(c[0], c[1])
		assertNear(t, c[1].Normalized(), q.Rotate(c[0].Normalized()))
	}
}

func TestSlerp(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q1 := QuatIdentity()
	q2 := QuatAxisAngle(Up, math.Pi/2)
	assert.True(t, q1.Slerp(q2, 0).Approximately(q1))
	assert.True(t, q1.Slerp(q2, 1).Approximately(q2))
	assert.True(t, q1.Slerp(q2, 0.5).Approximately(QuatAxisAngle(Up, math.Pi/4)))
}

func TestAffineTransforms(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if !Translation(F3(-1, -1, -1)).Transform(F3(1, 1, 1)).IsZero() {
		t.Errorf("Expected (1,1,1) shifted (-1,-1,-1) to be origin, is not")
	}
	m := TRS(F3(1, 2, 3), QuatAxisAngle(Up, math.Pi/2), F3(2, 2, 2))
	assertNear(t, F3(3, 2, 3), m.Transform(Forward))
	assertNear(t, F3(2, 0, 0), m.TransformVector(Forward))
	p := F3(4, -1, 7)
	assertNear(t, p, m.Inverse().Transform(m.Transform(p)))
	assertNear(t, p, m.Combine(m.Inverse()).Transform(p))
	assert.Equal(t, Identity(), Scaling(Zero3).Inverse())
}

func TestLoadTolerances(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	saved := CurrentTolerances()
	defer func() { require.NoError(t, saved.Apply()) }()

	tol, err := LoadTolerances(strings.NewReader("mode_epsilon: 0.01\n"))
	require.NoError(t, err)
	assert.Equal(t, float32(0.01), tol.ModeEpsilon)
	assert.Equal(t, saved.Epsilon, tol.Epsilon)
	require.NoError(t, tol.Apply())
	assert.Equal(t, float32(0.01), ModeEpsilon)

	_, err = LoadTolerances(strings.NewReader("roll_epsilon: -1\n"))
	assert.True(t, errors.Is(err, ErrInvalidTolerance))
	_, err = LoadTolerances(strings.NewReader("epsilon: [1, 2]\n"))
	assert.Error(t, err)
	tol, err = LoadTolerances(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, CurrentTolerances(), tol)
}
