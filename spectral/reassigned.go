package spectral

import (
	"math"
	"math/cmplx"
)

// BinEstimate is the reassigned estimate at one FFT bin: the plain
// bin frequency reassigns to ReassignedFreqHz and the frame center
// time reassigns to ReassignedTime, with Magnitude/Phase taken from
// the plain-window spectrum and Convergence a [0, +inf) measure of how
// far the bin departs from an ideal stationary sinusoid (0 = pure
// tone), used by the convergence bandwidth mode.
type BinEstimate struct {
	Magnitude        float64
	Phase            float64
	ReassignedFreqHz float64
	ReassignedTime   float64
	Convergence      float64
	Finite           bool
}

// ReassignedSpectrum computes the three-DFT Auger-Flandrin
// reassignment: one DFT each of the segment windowed by the plain
// window W, the time-ramped window t*W, and the derivative window
// dW/dt (all three supplied pre-multiplied by the caller, one per
// call, since the Analyzer owns the scratch buffers).
type ReassignedSpectrum struct {
	fft        *FFT
	sampleRate float64
}

// NewReassignedSpectrum creates a reassignment calculator for the
// given sample rate.
func NewReassignedSpectrum(sampleRate float64) *ReassignedSpectrum {
	return &ReassignedSpectrum{fft: NewFFT(), sampleRate: sampleRate}
}

// Compute runs the three DFTs and derives the per-bin reassignment.
// frameCenterTime is the time in seconds, in the caller's global
// timeline, that the window is centered on. windowed, timeRamped and
// derivative must be the same length (the analysis window length) and
// already have the signal segment multiplied in.
func (r *ReassignedSpectrum) Compute(windowed, timeRamped, derivative []float64, frameCenterTime float64) []BinEstimate {
	n := len(windowed)
	xw := r.fft.Compute(windowed)
	xtw := r.fft.Compute(timeRamped)
	xdw := r.fft.Compute(derivative)

	bins := n/2 + 1
	out := make([]BinEstimate, bins)

	for k := 0; k < bins; k++ {
		w := xw[k]
		mag := cmplx.Abs(w)
		phase := cmplx.Phase(w)

		binFreqRad := 2 * math.Pi * float64(k) * r.sampleRate / float64(n)

		if mag < 1e-300 {
			out[k] = BinEstimate{Magnitude: mag, Phase: phase, Finite: false}
			continue
		}

		tRatio := xtw[k] / w
		dRatio := xdw[k] / w

		reassignedTime := frameCenterTime + real(tRatio)
		reassignedFreqRad := binFreqRad - imag(dRatio)
		reassignedFreqHz := reassignedFreqRad / (2 * math.Pi)

		// Convergence: magnitude of the cross term between the
		// derivative and time-ramped ratios, normalized by the bin
		// angular frequency. For an ideal stationary sinusoid exactly
		// on a bin, X_dW/X_W is purely imaginary and X_tW/X_W is
		// purely real, so this cross term vanishes; energy that is
		// not well described by a single reassigned point (noise,
		// transients) produces non-zero real/imaginary leakage here.
		convergence := math.Abs(real(dRatio)) + math.Abs(imag(tRatio))
		if binFreqRad > 0 {
			convergence /= binFreqRad
		}

		finite := !math.IsNaN(reassignedTime) && !math.IsInf(reassignedTime, 0) &&
			!math.IsNaN(reassignedFreqHz) && !math.IsInf(reassignedFreqHz, 0)

		out[k] = BinEstimate{
			Magnitude:        mag,
			Phase:            phase,
			ReassignedFreqHz: reassignedFreqHz,
			ReassignedTime:   reassignedTime,
			Convergence:      convergence,
			Finite:           finite,
		}
	}
	return out
}
