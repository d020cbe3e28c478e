// Package spectral computes the reassigned short-time spectrum the
// Analyzer drives frame by frame: three DFTs of the same windowed
// segment (plain window, time-ramped window, derivative window)
// combined into per-bin reassigned time, reassigned frequency, and a
// phase mixed-partial convergence measure (Auger-Flandrin
// reassignment).
package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps github.com/mjibson/go-dsp/fft, which handles arbitrary
// lengths rather than just powers of two. That matters here: window
// lengths are derived from a Hz target and are rarely power-of-two
// sized.
type FFT struct{}

// NewFFT creates an FFT calculator.
func NewFFT() *FFT { return &FFT{} }

// Compute returns the full complex spectrum of a real input.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}
