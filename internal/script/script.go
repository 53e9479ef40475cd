// Package script reads spline edit scripts and replays them on editable
// splines.
//
// A script is a YAML document describing a spline and a sequence of edits:
//
//	basis: bezier
//	closed: false
//	tolerances:
//	  mode_epsilon: 0.001
//	knots:
//	  - position: [0, 0, 0]
//	    tangents: {in: [0, 0, -1], out: [0, 0, 1]}
//	  - position: [3, 0, 3]
//	    rotation: [0, 0.3827, 0, 0.9239]
//	    mode: continuous
//	edits:
//	  - {op: drag_tangent, knot: 0, tangent: out, to: [0, 1, 2]}
//	  - {op: insert, segment: 0, t: 0.5}
//
// Tangents and rotations are given in the knot-local frame, as (x, y, z)
// and (x, y, z, w) respectively.
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/editable"
	"gopkg.in/yaml.v3"
)

// ErrScript is wrapped by all errors concerning the structure of a script.
var ErrScript = errors.New("invalid spline script")

// Document is a parsed spline script.
type Document struct {
	Basis      string              `yaml:"basis"`
	Closed     bool                `yaml:"closed"`
	Tolerances *yaml.Node `yaml:"tolerances,omitempty"`
	Knots      []KnotSpec          `yaml:"knots"`
	Edits      []Edit              `yaml:"edits"`
}

// KnotSpec describes an initial knot.
type KnotSpec struct {
	Position []float32    `yaml:"position"`
	Rotation []float32    `yaml:"rotation,omitempty"`
	Mode     string       `yaml:"mode,omitempty"`
	Tangents *TangentSpec `yaml:"tangents,omitempty"`
}

// TangentSpec holds a pair of local tangents.
type TangentSpec struct {
	In  []float32 `yaml:"in"`
	Out []float32 `yaml:"out"`
}

// Op names an edit operation.
type Op string

// Edit operations.
const (
	OpSetMode      Op = "set_mode"
	OpDragTangent  Op = "drag_tangent"
	OpSetTangents  Op = "set_tangents"
	OpMove         Op = "move"
	OpInsert       Op = "insert"
	OpAppend       Op = "append"
	OpRemove       Op = "remove"
	OpRefresh      Op = "refresh"
	OpConvert      Op = "convert"
	OpSetClosed    Op = "set_closed"
	OpSetTransform Op = "set_transform"
)

// Edit is a single edit step. Which fields are used depends on Op.
type Edit struct {
	Op       Op        `yaml:"op"`
	Knot     int       `yaml:"knot"`
	Segment  int       `yaml:"segment"`
	T        float32   `yaml:"t"`
	Mode     string    `yaml:"mode,omitempty"`
	Tangent  string    `yaml:"tangent,omitempty"`
	To       []float32 `yaml:"to,omitempty"`
	In       []float32 `yaml:"in,omitempty"`
	Out      []float32 `yaml:"out,omitempty"`
	Position []float32 `yaml:"position,omitempty"`
	Normal   []float32 `yaml:"normal,omitempty"`
	Rotation []float32 `yaml:"rotation,omitempty"`
	Scale    []float32 `yaml:"scale,omitempty"`
	Basis    string    `yaml:"basis,omitempty"`
	Closed   bool      `yaml:"closed"`
	World    bool      `yaml:"world"`
}

func (e Edit) String() string {
	switch e.Op {
	case OpInsert:
		return fmt.Sprintf("%s segment=%d t=%g", e.Op, e.Segment, e.T)
	case OpAppend, OpRefresh, OpSetTransform:
		return string(e.Op)
	case OpConvert:
		return fmt.Sprintf("%s basis=%s", e.Op, e.Basis)
	case OpSetClosed:
		return fmt.Sprintf("%s closed=%v", e.Op, e.Closed)
	}
	return fmt.Sprintf("%s knot=%d", e.Op, e.Knot)
}

// Parse reads a script document.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrScript)
		}
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return doc, nil
}

// Build creates the spline described by the document. If the document
// carries tolerances, they are applied globally, on top of the current ones.
func (doc *Document) Build() (*editable.Spline, error) {
	if doc.Tolerances != nil {
		tol := splines.CurrentTolerances()
		if err := doc.Tolerances.Decode(&tol); err != nil {
			return nil, fmt.Errorf("%w: tolerances: %v", ErrScript, err)
		}
		if err := tol.Apply(); err != nil {
			return nil, err
		}
	}
	basis := editable.Bezier
	if doc.Basis != "" {
		b, err := editable.ParseBasis(doc.Basis)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScript, err)
		}
		basis = b
	}
	s := editable.NewSpline(basis)
	for i, ks := range doc.Knots {
		pos, err := vec3(ks.Position, "position", i)
		if err != nil {
			return nil, err
		}
		rot, err := quat(ks.Rotation, i)
		if err != nil {
			return nil, err
		}
		var in, out splines.Float3
		if ks.Tangents != nil {
			if basis != editable.Bezier {
				return nil, fmt.Errorf("%w: knot %d: %v", ErrScript, i, editable.ErrDerivedTangents)
			}
			if in, err = vec3(ks.Tangents.In, "tangent in", i); err != nil {
				return nil, err
			}
			if out, err = vec3(ks.Tangents.Out, "tangent out", i); err != nil {
				return nil, err
			}
		}
		s.TangentKnot(pos, rot, in, out)
	}
	if doc.Closed {
		s.Cycle()
	}
	for i, ks := range doc.Knots {
		if ks.Mode == "" {
			continue
		}
		mode, err := editable.ParseMode(ks.Mode)
		if err != nil {
			return nil, fmt.Errorf("%w: knot %d: %v", ErrScript, i, err)
		}
		if _, err := s.SetMode(i, mode); err != nil {
			return nil, fmt.Errorf("knot %d: %w", i, err)
		}
	}
	return s, nil
}

// Step is the outcome of one edit.
type Step struct {
	Edit    Edit
	Changes editable.Changes
}

// Apply replays the document's edits on s and returns the resulting spline,
// which differs from s after a basis conversion. Replay stops at the first
// failing edit; the steps done so far are returned in any case.
func (doc *Document) Apply(s *editable.Spline) (*editable.Spline, []Step, error) {
	steps := make([]Step, 0, len(doc.Edits))
	for n, e := range doc.Edits {
		var changes editable.Changes
		var err error
		s, changes, err = apply(s, e)
		if err != nil {
			return s, steps, fmt.Errorf("edit #%d (%s): %w", n, e, err)
		}
		steps = append(steps, Step{Edit: e, Changes: changes})
	}
	return s, steps, nil
}

func apply(s *editable.Spline, e Edit) (*editable.Spline, editable.Changes, error) {
	var changes editable.Changes
	var err error
	switch e.Op {
	case OpSetMode:
		var mode editable.Mode
		if mode, err = editable.ParseMode(e.Mode); err != nil {
			return s, nil, fmt.Errorf("%w: %v", ErrScript, err)
		}
		changes, err = s.SetMode(e.Knot, mode)
	case OpDragTangent:
		changes, err = dragTangent(s, e)
	case OpSetTangents:
		var in, out splines.Float3
		if in, err = vec3(e.In, "in", e.Knot); err != nil {
			return s, nil, err
		}
		if out, err = vec3(e.Out, "out", e.Knot); err != nil {
			return s, nil, err
		}
		if e.World {
			changes, err = s.SetTangents(e.Knot, in, out)
		} else {
			changes, err = s.SetLocalTangents(e.Knot, in, out)
		}
	case OpMove:
		var pos splines.Float3
		if pos, err = vec3(e.Position, "position", e.Knot); err != nil {
			return s, nil, err
		}
		changes, err = s.SetPosition(e.Knot, pos)
	case OpInsert:
		_, changes, err = s.InsertKnot(e.Segment, e.T)
	case OpAppend:
		var pos, normal, tangent splines.Float3
		if pos, err = vec3(e.Position, "position", s.N()); err != nil {
			return s, nil, err
		}
		normal = splines.Up
		if e.Normal != nil {
			if normal, err = vec3(e.Normal, "normal", s.N()); err != nil {
				return s, nil, err
			}
		}
		if e.To != nil {
			if tangent, err = vec3(e.To, "tangent", s.N()); err != nil {
				return s, nil, err
			}
		}
		_, changes = s.AddKnotAtEnd(pos, normal, tangent)
	case OpRemove:
		changes, err = s.RemoveKnot(e.Knot)
	case OpRefresh:
		changes = s.OnPathUpdatedFromTarget()
	case OpConvert:
		var basis editable.Basis
		if basis, err = editable.ParseBasis(e.Basis); err != nil {
			return s, nil, fmt.Errorf("%w: %v", ErrScript, err)
		}
		s = s.ConvertTo(basis)
	case OpSetClosed:
		s.SetClosed(e.Closed)
	case OpSetTransform:
		err = setTransform(s, e)
	default:
		return s, nil, fmt.Errorf("%w: unknown edit operation %q", ErrScript, e.Op)
	}
	return s, changes, err
}

// dragTangent moves one tangent, in local coordinates, and lets the knot
// couple the opposite one. Without an explicit mode the knot keeps its own.
func dragTangent(s *editable.Spline, e Edit) (editable.Changes, error) {
	var which editable.TangentIndex
	switch strings.ToLower(e.Tangent) {
	case "in":
		which = editable.In
	case "out", "":
		which = editable.Out
	default:
		return nil, fmt.Errorf("%w: unknown tangent %q", ErrScript, e.Tangent)
	}
	to, err := vec3(e.To, "to", e.Knot)
	if err != nil {
		return nil, err
	}
	if e.Mode == "" {
		return s.SetTangentLocalPosition(e.Knot, which, to)
	}
	mode, err := editable.ParseMode(e.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return s.DragTangent(e.Knot, which, to, mode)
}

func setTransform(s *editable.Spline, e Edit) error {
	pos, rot, scale := splines.Zero3, splines.QuatIdentity(), splines.F3(1, 1, 1)
	var err error
	if e.Position != nil {
		if pos, err = vec3(e.Position, "position", -1); err != nil {
			return err
		}
	}
	if e.Rotation != nil {
		if rot, err = quat(e.Rotation, -1); err != nil {
			return err
		}
	}
	if e.Scale != nil {
		if scale, err = vec3(e.Scale, "scale", -1); err != nil {
			return err
		}
	}
	s.SetTransform(editable.FixedTransform(splines.TRS(pos, rot, scale)))
	return nil
}

func vec3(v []float32, what string, knot int) (splines.Float3, error) {
	if v == nil {
		return splines.Zero3, nil
	}
	if len(v) != 3 {
		return splines.Zero3, fmt.Errorf("%w: knot %d: %s needs 3 components, has %d",
			ErrScript, knot, what, len(v))
	}
	return splines.F3(v[0], v[1], v[2]), nil
}

func quat(v []float32, knot int) (splines.Quat, error) {
	if v == nil {
		return splines.QuatIdentity(), nil
	}
	if len(v) != 4 {
		return splines.QuatIdentity(), fmt.Errorf("%w: knot %d: rotation needs 4 components, has %d",
			ErrScript, knot, len(v))
	}
	return splines.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}.Normalized(), nil
}
