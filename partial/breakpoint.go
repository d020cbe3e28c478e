// Package partial implements the Breakpoint and Partial types at the
// center of the sound model: a Partial is a time-ordered, strictly
// increasing sequence of Breakpoints (frequency, amplitude, bandwidth,
// phase) plus an integer harmonic label. It is the universal currency
// passed between the Analyzer, every manipulation component, and the
// Synthesizer.
package partial

import (
	"math"

	"github.com/partialmodel/rbeas/rerror"
)

// Breakpoint is the 4-tuple (frequency, amplitude, bandwidth, phase)
// sampled at one instant. Frequency and Amplitude are non-negative,
// Bandwidth is the noise-energy fraction in [0,1], and Phase is
// unwrapped radians, never reduced modulo 2*pi for storage.
type Breakpoint struct {
	Frequency float64
	Amplitude float64
	Bandwidth float64
	Phase     float64
}

// Validate reports an *rerror.Error of kind InvalidPartial if bp
// violates a Breakpoint invariant: negative frequency or amplitude,
// bandwidth outside [0,1], or a non-finite parameter.
func (bp Breakpoint) Validate(op string) error {
	if bp.Frequency < 0 {
		return rerror.Newf(rerror.InvalidPartial, op, nil, "negative frequency %g", bp.Frequency)
	}
	if bp.Amplitude < 0 {
		return rerror.Newf(rerror.InvalidPartial, op, nil, "negative amplitude %g", bp.Amplitude)
	}
	if bp.Bandwidth < 0 || bp.Bandwidth > 1 {
		return rerror.Newf(rerror.InvalidPartial, op, nil, "bandwidth %g out of [0,1]", bp.Bandwidth)
	}
	if math.IsNaN(bp.Frequency) || math.IsNaN(bp.Amplitude) || math.IsNaN(bp.Bandwidth) || math.IsNaN(bp.Phase) ||
		math.IsInf(bp.Frequency, 0) || math.IsInf(bp.Amplitude, 0) || math.IsInf(bp.Phase, 0) {
		return rerror.New(rerror.InvalidPartial, op, "non-finite breakpoint parameter", nil)
	}
	return nil
}

// WrapPi reduces an unwrapped phase to the principal interval
// [-pi, pi], for comparison only — never store a wrapped phase.
func WrapPi(phase float64) float64 {
	twoPi := 2 * math.Pi
	wrapped := math.Mod(phase+math.Pi, twoPi)
	if wrapped < 0 {
		wrapped += twoPi
	}
	return wrapped - math.Pi
}
