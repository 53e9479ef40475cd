package editable

import (
	"math"
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/splines"
	"github.com/stretchr/testify/assert"
)

func assertNear(t *testing.T, want, got splines.Float3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, "x of %v vs %v", want, got)
	assert.InDelta(t, want.Y, got.Y, 1e-4, "y of %v vs %v", want, got)
	assert.InDelta(t, want.Z, got.Z, 1e-4, "z of %v vs %v", want, got)
}

// consistent is a predicate: does the knot's mode agree with its tangents?
// CalculateMode reports the strictest mode, so a continuous knot whose
// tangents happen to be of equal length is consistent as well.
func consistent(k *Knot) bool {
	return k.Mode() == ModeBroken || k.CalculateMode() == k.Mode() || k.modeHolds()
}

func tangentKnot(in, out splines.Float3) *Knot {
	k := NewKnot(splines.Zero3, splines.QuatIdentity())
	k.SetLocalTangents(in, out)
	return &k
}

func TestCalculateMode(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, c := range []struct {
		in, out splines.Float3
		mode    Mode
	}{
		{splines.Zero3, splines.Zero3, ModeLinear},
		{splines.F3(-1, 0, 0), splines.F3(1, 0, 0), ModeMirrored},
		{splines.F3(-1.0005, 0, 0), splines.F3(1, 0, 0), ModeMirrored},
		{splines.F3(-2, 0, 0), splines.F3(1, 0, 0), ModeContinuous},
		{splines.F3(0, 1, 0), splines.F3(1, 0, 0), ModeBroken},
		{splines.Zero3, splines.F3(1, 0, 0), ModeBroken},
	} {
		k := tangentKnot(c.in, c.out)
		assert.Equal(t, c.mode, k.CalculateMode(), "tangents %v / %v", c.in, c.out)
		assert.Equal(t, c.mode, k.Mode(), "tangents %v / %v", c.in, c.out)
	}
}

func TestMirroredInvariant(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := NewKnot(splines.Zero3, splines.QuatIdentity())
	k.SetMode(ModeMirrored, nil, nil)
	v := splines.F3(1, 2, 3)
	k.tangents[Out].LocalPosition = v
	k.TangentChanged(Out, ModeMirrored)
	assert.Equal(t, v.Neg(), k.TangentIn().LocalPosition)
	assert.Equal(t, ModeMirrored, k.Mode())
}

func TestContinuousInvariant(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := NewKnot(splines.Zero3, splines.QuatIdentity())
	k.SetMode(ModeContinuous, nil, nil)
	l := k.TangentIn().LocalPosition.Length()
	assert.InDelta(t, 1.0/3.0, l, 1e-5)
	k.tangents[Out].LocalPosition = splines.F3(2, 0, 0)
	k.TangentChanged(Out, ModeContinuous)
	in := k.TangentIn().LocalPosition
	assert.InDelta(t, l, in.Length(), 1e-5)
	assert.InDelta(t, -1, in.Normalized().Dot(k.TangentOut().LocalPosition.Normalized()), 1e-5)
	assert.Equal(t, ModeContinuous, k.Mode())
}

func TestLinearCollapse(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := tangentKnot(splines.F3(0, 1, 0), splines.F3(1, 0, 0))
	mod := k.SetMode(ModeLinear, nil, nil)
	assert.Equal(t, splines.Zero3, k.TangentIn().LocalPosition)
	assert.Equal(t, splines.Zero3, k.TangentOut().LocalPosition)
	assert.Equal(t, ModeModified|TangentsModified, mod)
	assert.Equal(t, Modified(0), k.SetMode(ModeLinear, nil, nil))
}

func TestNaNSanitization(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	nan := float32(math.NaN())
	for _, mode := range []Mode{ModeLinear, ModeMirrored, ModeContinuous, ModeBroken} {
		k := tangentKnot(splines.F3(-1, 0, 0), splines.F3(1, 0, 0))
		k.SetMode(mode, nil, nil)
		k.tangents[Out].LocalPosition = splines.F3(nan, 0, 1)
		k.TangentChanged(Out, mode)
		assert.Equal(t, splines.Zero3, k.TangentOut().LocalPosition, "mode %s", mode)
		assert.False(t, k.TangentIn().LocalPosition.HasNaN(), "mode %s", mode)
		assert.True(t, consistent(k), "mode %s", mode)
	}
}

func TestBrokenScenario(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := NewKnot(splines.Zero3, splines.QuatIdentity())
	k.SetMode(ModeMirrored, nil, nil)
	k.SetTangentLocalPosition(Out, splines.F3(1, 0, 0))
	assert.Equal(t, splines.F3(-1, 0, 0), k.TangentIn().LocalPosition)
	assert.Equal(t, Modified(ModeModified), k.SetMode(ModeBroken, nil, nil))
	assert.Equal(t, splines.F3(1, 0, 0), k.TangentOut().LocalPosition)
	assert.Equal(t, splines.F3(-1, 0, 0), k.TangentIn().LocalPosition)
	k.SetTangentLocalPosition(Out, splines.F3(2, 0, 0))
	assert.Equal(t, splines.F3(-1, 0, 0), k.TangentIn().LocalPosition)
	assert.Equal(t, ModeBroken, k.Mode())
}

func TestTangentEditDemotesLinear(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := NewKnot(splines.Zero3, splines.QuatIdentity())
	mod := k.SetTangentLocalPosition(Out, splines.F3(1, 0, 0))
	assert.Equal(t, ModeBroken, k.Mode())
	assert.Equal(t, TangentsModified|ModeModified, mod)
	assert.Equal(t, splines.Zero3, k.TangentIn().LocalPosition)
}

func TestSetLocalTangentsDoesNotCouple(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := tangentKnot(splines.F3(-1, 0, 0), splines.F3(1, 0, 0))
	assert.Equal(t, ModeMirrored, k.Mode())
	k.SetLocalTangents(splines.F3(-2, 0, 0), splines.F3(1, 0, 0))
	assert.Equal(t, splines.F3(-2, 0, 0), k.TangentIn().LocalPosition)
	assert.Equal(t, splines.F3(1, 0, 0), k.TangentOut().LocalPosition)
	assert.Equal(t, ModeContinuous, k.Mode())
	k.SetLocalTangents(splines.F3(0, 1, 0), splines.F3(1, 0, 0))
	assert.Equal(t, ModeBroken, k.Mode())
	// a mode which still holds is kept
	k.SetMode(ModeContinuous, nil, nil)
	k.SetLocalTangents(splines.F3(-1, 0, 0), splines.F3(1, 0, 0))
	assert.Equal(t, ModeContinuous, k.Mode())
}

func TestSetTangentsFromWorld(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := splines.TRS(splines.F3(5, 0, 0), splines.QuatAxisAngle(splines.Up, math.Pi/2), splines.F3(2, 2, 2))
	rot := splines.QuatAxisAngle(splines.Right, 0.3)
	k := NewKnot(splines.Zero3, rot)
	in, out := splines.F3(0, 0, -1), splines.F3(0, 0, 2)
	worldIn := m.TransformVector(rot.Rotate(in))
	worldOut := m.TransformVector(rot.Rotate(out))
	k.SetTangents(worldIn, worldOut, m)
	assertNear(t, in, k.TangentIn().LocalPosition)
	assertNear(t, out, k.TangentOut().LocalPosition)
	assert.Equal(t, ModeContinuous, k.Mode())
}

func TestLeavingLinearToBroken(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	prev := NewKnot(splines.F3(-3, 0, 0), splines.QuatIdentity())
	next := NewKnot(splines.F3(0, 3, 0), splines.QuatIdentity())
	k := NewKnot(splines.Zero3, splines.QuatIdentity())
	k.SetMode(ModeBroken, &prev, &next)
	assertNear(t, splines.F3(-1, 0, 0), k.TangentIn().LocalPosition)
	assertNear(t, splines.F3(0, 1, 0), k.TangentOut().LocalPosition)
	// open end: the missing tangent mirrors the present one
	k = NewKnot(splines.Zero3, splines.QuatIdentity())
	k.SetMode(ModeBroken, nil, &next)
	assertNear(t, splines.F3(0, 1, 0), k.TangentOut().LocalPosition)
	assertNear(t, splines.F3(0, -1, 0), k.TangentIn().LocalPosition)
}

func TestLeavingLinearToMirrored(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	prev := NewKnot(splines.F3(-3, 0, 0), splines.QuatIdentity())
	next := NewKnot(splines.F3(3, 0, 0), splines.QuatIdentity())
	k := NewKnot(splines.Zero3, splines.QuatIdentity())
	mod := k.SetMode(ModeMirrored, &prev, &next)
	assert.Equal(t, ModeModified|TangentsModified|RotationModified, mod)
	assertNear(t, splines.F3(1, 0, 0), k.SplineTangent(Out))
	assertNear(t, splines.F3(-1, 0, 0), k.SplineTangent(In))
	assertNear(t, splines.F3(0, 0, 1), k.TangentOut().LocalPosition)
	assertNear(t, splines.F3(1, 0, 0), k.Rotation.Forward())
	assert.True(t, k.AreTangentsMirrored())
}

func TestRealignBrokenToMirrored(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := tangentKnot(splines.F3(-1, 0, 0), splines.F3(0, 1, 0))
	assert.Equal(t, ModeBroken, k.Mode())
	k.SetMode(ModeMirrored, nil, nil)
	d := float32(math.Sqrt(0.5))
	assertNear(t, splines.F3(d, d, 0), k.SplineTangent(Out))
	assertNear(t, splines.F3(-d, -d, 0), k.SplineTangent(In))
	assertNear(t, splines.F3(d, d, 0), k.Rotation.Forward())
	assert.Equal(t, ModeMirrored, k.Mode())
	assert.True(t, consistent(k))
}

func TestRealignBrokenToContinuousKeepsLengths(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := tangentKnot(splines.F3(-2, 0, 0), splines.F3(0, 1, 0))
	k.SetMode(ModeContinuous, nil, nil)
	d := float32(math.Sqrt(0.5))
	assertNear(t, splines.F3(d, d, 0), k.SplineTangent(Out))
	assertNear(t, splines.F3(-2*d, -2*d, 0), k.SplineTangent(In))
	assert.True(t, k.AreTangentsContinuous())
}

func TestRealignSkipsRollOnly(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	roll := splines.QuatAxisAngle(splines.Forward, 0.5)
	k := NewKnot(splines.Zero3, roll)
	before := k.Rotation
	k.SetLocalTangents(splines.F3(0.6, 0, -0.8), splines.F3(0.6, 0, 0.8))
	assert.Equal(t, ModeBroken, k.Mode())
	mod := k.SetMode(ModeContinuous, nil, nil)
	assert.Equal(t, ModeModified|TangentsModified, mod)
	assert.Equal(t, before, k.Rotation)
	assertNear(t, splines.F3(0, 0, 1), k.TangentOut().LocalPosition)
	assertNear(t, splines.F3(0, 0, -1), k.TangentIn().LocalPosition)
}

func TestSwitchToSatisfiedModeKeepsTangents(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := tangentKnot(splines.F3(-1, 0, 0), splines.F3(1, 0, 0))
	mod := k.SetMode(ModeContinuous, nil, nil)
	assert.Equal(t, Modified(ModeModified), mod)
	assert.Equal(t, splines.F3(-1, 0, 0), k.TangentIn().LocalPosition)
	assert.Equal(t, ModeMirrored, k.CalculateMode())
	assert.True(t, consistent(k))
}

func TestModeConsistencyUnderRandomEdits(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	rnd := rand.New(rand.NewSource(7))
	vec := func() splines.Float3 {
		if rnd.Intn(8) == 0 {
			return splines.Zero3
		}
		return splines.F3(rnd.Float32()*4-2, rnd.Float32()*4-2, rnd.Float32()*4-2)
	}
	prev := NewKnot(splines.F3(-3, 0, 1), splines.QuatIdentity())
	next := NewKnot(splines.F3(2, 2, 0), splines.QuatAxisAngle(splines.Up, 1))
	k := NewKnot(splines.Zero3, splines.QuatAxisAngle(splines.Right, 0.2))
	for step := 0; step < 500; step++ {
		switch rnd.Intn(4) {
		case 0:
			k.SetMode(Mode(rnd.Intn(4)), &prev, &next)
		case 1:
			k.SetTangentLocalPosition(TangentIndex(rnd.Intn(2)), vec())
		case 2:
			k.SetLocalTangents(vec(), vec())
		case 3:
			k.tangents[Out].LocalPosition = vec()
			k.TangentChanged(Out, Mode(rnd.Intn(4)))
		}
		if !consistent(&k) {
			t.Fatalf("step %d: mode %s disagrees with tangents %v / %v", step, k.Mode(),
				k.TangentIn().LocalPosition, k.TangentOut().LocalPosition)
		}
	}
}
