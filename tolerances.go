package splines

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Epsilon : numbers below ε are considered 0
var Epsilon float32 = 0.00001

// ModeEpsilon is the tolerance for classifying a pair of tangents as
// mirrored or continuous.
var ModeEpsilon float32 = 0.001

// RollEpsilon is the tolerance for treating two directions as identical
// when re-aligning a knot's rotation. A re-alignment which would only roll
// the knot around an unchanged direction is skipped.
var RollEpsilon float32 = 0.0001

// ErrInvalidTolerance indicates a tolerance which is not a positive number.
var ErrInvalidTolerance = errors.New("tolerance must be a positive number")

// Tolerances collects the numeric tunables of this module. It may be loaded
// from YAML:
//
//	epsilon: 0.00001
//	mode_epsilon: 0.001
//	roll_epsilon: 0.0001
type Tolerances struct {
	Epsilon     float32 `yaml:"epsilon"`
	ModeEpsilon float32 `yaml:"mode_epsilon"`
	RollEpsilon float32 `yaml:"roll_epsilon"`
}

// CurrentTolerances returns the tolerances currently in effect.
func CurrentTolerances() Tolerances {
	return Tolerances{
		Epsilon:     Epsilon,
		ModeEpsilon: ModeEpsilon,
		RollEpsilon: RollEpsilon,
	}
}

// Validate checks that every tolerance is a positive number.
func (tol Tolerances) Validate() error {
	for _, v := range []struct {
		name  string
		value float32
	}{
		{"epsilon", tol.Epsilon},
		{"mode_epsilon", tol.ModeEpsilon},
		{"roll_epsilon", tol.RollEpsilon},
	} {
		if !(v.value > 0) {
			return fmt.Errorf("%w: %s = %g", ErrInvalidTolerance, v.name, v.value)
		}
	}
	return nil
}

// Apply makes tol the tolerances in effect. Callers must not apply tolerances
// while splines are being edited on other goroutines.
func (tol Tolerances) Apply() error {
	if err := tol.Validate(); err != nil {
		return err
	}
	Epsilon, ModeEpsilon, RollEpsilon = tol.Epsilon, tol.ModeEpsilon, tol.RollEpsilon
	tracer().Infof("tolerances: ε = %g, mode ε = %g, roll ε = %g", Epsilon, ModeEpsilon, RollEpsilon)
	return nil
}

// LoadTolerances reads tolerances in YAML format from r. Keys missing in the
// input keep their current values. The result is not applied.
func LoadTolerances(r io.Reader) (Tolerances, error) {
	tol := CurrentTolerances()
	if err := yaml.NewDecoder(r).Decode(&tol); err != nil && !errors.Is(err, io.EOF) {
		return tol, fmt.Errorf("decoding tolerances: %w", err)
	}
	if err := tol.Validate(); err != nil {
		return tol, err
	}
	return tol, nil
}
