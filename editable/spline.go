package editable

import (
	"fmt"
	"slices"

	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/bezier"
)

// Spline is an ordered sequence of knots of one curve family. Neighbours of
// a knot are found by index, wrapping around for closed splines.
//
// Pointers returned by Z are invalidated by inserting or removing knots.
type Spline struct {
	knots     []Knot
	closed    bool
	basis     Basis
	adapter   basisAdapter
	transform Transform
}

// NewSpline creates an empty spline of the given curve family, placed at
// the world origin. Extend it with Knot, TangentKnot and Cycle or End.
//
//	s := NewSpline(Bezier).Knot(splines.F3(0, 0, 0)).Knot(splines.F3(3, 2, 0)).End()
func NewSpline(basis Basis) *Spline {
	return &Spline{
		basis:     basis,
		adapter:   adapterFor(basis),
		transform: FixedTransform(splines.Identity()),
	}
}

// Knot appends a knot without tangents. Part of builder functionality.
func (s *Spline) Knot(pos splines.Float3) *Spline {
	s.knots = append(s.knots, NewKnot(pos, splines.QuatIdentity()))
	return s
}

// TangentKnot appends a knot with the given rotation and local tangents.
// The knot's mode is derived from the tangents. Part of builder functionality.
func (s *Spline) TangentKnot(pos splines.Float3, rot splines.Quat, in, out splines.Float3) *Spline {
	k := NewKnot(pos, rot)
	k.tangents[In].LocalPosition = in.Sanitized()
	k.tangents[Out].LocalPosition = out.Sanitized()
	k.mode = k.CalculateMode()
	s.knots = append(s.knots, k)
	return s
}

// End an open spline. Part of builder functionality.
func (s *Spline) End() *Spline {
	return s
}

// Cycle closes a spline. Part of builder functionality.
func (s *Spline) Cycle() *Spline {
	s.closed = true
	return s
}

// SetClosed opens or closes the spline.
func (s *Spline) SetClosed(closed bool) {
	s.closed = closed
}

// IsCycle is a predicate: is this spline closed?
func (s *Spline) IsCycle() bool {
	return s.closed
}

// Basis returns the curve family of the spline.
func (s *Spline) Basis() Basis {
	return s.basis
}

// SetTransform sets the provider of the spline's local-to-world transform.
func (s *Spline) SetTransform(t Transform) {
	if t == nil {
		t = FixedTransform(splines.Identity())
	}
	s.transform = t
}

// N returns the number of knots.
func (s *Spline) N() int {
	return len(s.knots)
}

// Z returns the knot at position (i mod N). Z panics on an empty spline.
func (s *Spline) Z(i int) *Knot {
	n := s.N()
	i = ((i % n) + n) % n
	return &s.knots[i]
}

// Previous returns the index of the knot before knot i. The second return
// value is false at the start of an open spline.
func (s *Spline) Previous(i int) (int, bool) {
	n := s.N()
	switch {
	case i < 0 || i >= n:
		return -1, false
	case i > 0:
		return i - 1, true
	case s.closed && n > 1:
		return n - 1, true
	}
	return -1, false
}

// Next returns the index of the knot after knot i. The second return
// value is false at the end of an open spline.
func (s *Spline) Next(i int) (int, bool) {
	n := s.N()
	switch {
	case i < 0 || i >= n:
		return -1, false
	case i < n-1:
		return i + 1, true
	case s.closed && n > 1:
		return 0, true
	}
	return -1, false
}

// neighbours returns the knots before and after knot i, nil if missing.
func (s *Spline) neighbours(i int) (prev, next *Knot) {
	if j, ok := s.Previous(i); ok {
		prev = &s.knots[j]
	}
	if j, ok := s.Next(i); ok {
		next = &s.knots[j]
	}
	return
}

func (s *Spline) checkIndex(i int) error {
	if i < 0 || i >= s.N() {
		return fmt.Errorf("%w: knot %d of %d", ErrIndexOutOfRange, i, s.N())
	}
	return nil
}

// checkEditable checks that knot i exists and stores its own tangents.
func (s *Spline) checkEditable(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if s.basis != Bezier {
		return fmt.Errorf("%w: %s", ErrDerivedTangents, s.basis)
	}
	return nil
}

// LocalTangents returns the tangents of knot i in the knot's frame. For
// Catmull-Rom and linear splines they are derived from the neighbours.
func (s *Spline) LocalTangents(i int) (in, out splines.Float3, err error) {
	if err = s.checkIndex(i); err != nil {
		return
	}
	in, out = s.adapter.localTangents(s, i)
	return
}

// SetMode changes the tangent mode of knot i, see Knot.SetMode.
func (s *Spline) SetMode(i int, mode Mode) (Changes, error) {
	if err := s.checkEditable(i); err != nil {
		return nil, err
	}
	prev, next := s.neighbours(i)
	return Changes{}.add(i, s.knots[i].SetMode(mode, prev, next)), nil
}

// TangentChanged propagates an edit of tangent which of knot i, see
// Knot.TangentChanged.
func (s *Spline) TangentChanged(i int, which TangentIndex, desired Mode) (Changes, error) {
	if err := s.checkEditable(i); err != nil {
		return nil, err
	}
	return Changes{}.add(i, s.knots[i].TangentChanged(which, desired)), nil
}

// SetTangentLocalPosition edits tangent which of knot i, see
// Knot.SetTangentLocalPosition.
func (s *Spline) SetTangentLocalPosition(i int, which TangentIndex, v splines.Float3) (Changes, error) {
	if err := s.checkEditable(i); err != nil {
		return nil, err
	}
	return Changes{}.add(i, s.knots[i].SetTangentLocalPosition(which, v)), nil
}

// DragTangent moves tangent which of knot i to local position v and
// propagates the edit with the knot adopting mode desired, see
// Knot.TangentChanged.
func (s *Spline) DragTangent(i int, which TangentIndex, v splines.Float3, desired Mode) (Changes, error) {
	if err := s.checkEditable(i); err != nil {
		return nil, err
	}
	k := &s.knots[i]
	k.tangents[which].LocalPosition = v
	return Changes{}.add(i, TangentsModified|k.TangentChanged(which, desired)), nil
}

// SetLocalTangents sets both tangents of knot i, see Knot.SetLocalTangents.
func (s *Spline) SetLocalTangents(i int, in, out splines.Float3) (Changes, error) {
	if err := s.checkEditable(i); err != nil {
		return nil, err
	}
	return Changes{}.add(i, s.knots[i].SetLocalTangents(in, out)), nil
}

// SetTangents sets both tangents of knot i from world space vectors.
func (s *Spline) SetTangents(i int, worldIn, worldOut splines.Float3) (Changes, error) {
	if err := s.checkEditable(i); err != nil {
		return nil, err
	}
	m := s.knots[i].SetTangents(worldIn, worldOut, s.transform.LocalToWorld())
	return Changes{}.add(i, m), nil
}

// SetPosition moves knot i.
func (s *Spline) SetPosition(i int, pos splines.Float3) (Changes, error) {
	if err := s.checkIndex(i); err != nil {
		return nil, err
	}
	s.knots[i].Position = pos.Sanitized()
	return Changes{}.add(i, PositionModified), nil
}

// WorldPosition returns the position of knot i in world space.
func (s *Spline) WorldPosition(i int) (splines.Float3, error) {
	if err := s.checkIndex(i); err != nil {
		return splines.Zero3, err
	}
	return s.transform.LocalToWorld().Transform(s.knots[i].Position), nil
}

// InsertKnot inserts a knot at parameter t on segment seg, i.e., between
// knot seg and its successor, without changing the shape of the curve.
// It returns the index of the new knot.
func (s *Spline) InsertKnot(seg int, t float32) (int, Changes, error) {
	n := s.N()
	if n < 2 {
		return -1, nil, fmt.Errorf("%w: cannot insert into spline of %d knots", ErrTooFewKnots, n)
	}
	curve, ok := bezier.CurveAt(s.ToBezier(), seg, s.closed)
	if !ok {
		return -1, nil, fmt.Errorf("%w: segment %d of %d", ErrIndexOutOfRange, seg, bezier.SegmentCount(n, s.closed))
	}
	at := seg + 1
	s.knots = slices.Insert(s.knots, at, NewKnot(splines.Zero3, splines.QuatIdentity()))
	changes := s.adapter.onKnotInsertedOnCurve(s, at, curve, t)
	tracer().Debugf("inserted knot %d at t = %g on segment %d: %s", at, t, seg, changes)
	return at, changes, nil
}

// AddKnotAtEnd appends a knot at pos. See Knot.OnKnotAddedAtEnd for the
// meaning of normal and tangentOut (spline space).
func (s *Spline) AddKnotAtEnd(pos, normal, tangentOut splines.Float3) (int, Changes) {
	s.knots = append(s.knots, NewKnot(pos.Sanitized(), splines.QuatIdentity()))
	at := s.N() - 1
	changes := s.adapter.onKnotAddedAtEnd(s, at, normal, tangentOut)
	return at, changes
}

// RemoveKnot removes knot i. The neighbours are left unchanged.
func (s *Spline) RemoveKnot(i int) (Changes, error) {
	if err := s.checkIndex(i); err != nil {
		return nil, err
	}
	s.knots = slices.Delete(s.knots, i, i+1)
	return Changes{}.add(i, KnotRemoved), nil
}

// OnPathUpdatedFromTarget re-derives the mode of every knot from its
// tangents. Call it after the knots have been changed by other means than
// the editing operations of this package.
func (s *Spline) OnPathUpdatedFromTarget() Changes {
	var changes Changes
	if s.basis != Bezier {
		return changes
	}
	for i := range s.knots {
		k := &s.knots[i]
		if m := k.CalculateMode(); m != k.mode {
			tracer().Debugf("knot %d: mode %s → %s", i, k.mode, m)
			k.mode = m
			changes = changes.add(i, ModeModified)
		}
	}
	return changes
}

// ToBezier converts the spline to a list of Bezier knots.
func (s *Spline) ToBezier() []bezier.Knot {
	return s.adapter.toBezier(s)
}

// FromBezier replaces all knots of the spline by knots converted from a
// list of Bezier knots.
func (s *Spline) FromBezier(knots []bezier.Knot, closed bool) {
	s.closed = closed
	s.knots = make([]Knot, len(knots))
	for i, bk := range knots {
		s.knots[i] = NewKnot(bk.Position.Sanitized(), bk.Rotation)
	}
	s.adapter.fromBezier(s, knots)
}

// ConvertTo returns a copy of the spline in curve family basis, converted
// through the Bezier interchange format.
func (s *Spline) ConvertTo(basis Basis) *Spline {
	c := NewSpline(basis)
	c.transform = s.transform
	c.FromBezier(s.ToBezier(), s.closed)
	return c
}
