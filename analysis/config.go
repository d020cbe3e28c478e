// Package analysis implements the Analyzer: frame-by-frame reassigned
// spectral analysis (spectral.ReassignedSpectrum over a
// window.Kaiser-shaped segment), peak picking, greedy partial
// tracking, bandwidth assignment, and optional fundamental tracking.
package analysis

import (
	"math"

	"github.com/partialmodel/rbeas/rerror"
)

// BandwidthMode selects how a Breakpoint's bandwidth value is derived
// from the analysis frame.
type BandwidthMode int

const (
	// BWResidue distributes the region's noise energy (spectral energy
	// not accounted for by sinusoidal peaks) proportionally across the
	// region's peaks.
	BWResidue BandwidthMode = iota
	// BWConvergence derives bandwidth from how far a peak's reassigned
	// estimate departs from an ideal stationary sinusoid.
	BWConvergence
	// BWNone disables bandwidth assignment; every breakpoint gets 0.
	BWNone
)

func (m BandwidthMode) String() string {
	switch m {
	case BWResidue:
		return "residue"
	case BWConvergence:
		return "convergence"
	case BWNone:
		return "none"
	default:
		return "unknown"
	}
}

// Config holds every Analyzer option, with defaults filled in by
// NewConfig.
type Config struct {
	FreqResolutionHz       float64
	WindowWidthHz          float64
	SidelobeLevelDB        float64
	AmpFloorDB             float64
	FreqFloorHz            float64
	FreqDriftHz            float64
	HopTimeS               float64
	CropTimeS              float64
	BWMode                 BandwidthMode
	BWRegionWidthHz        float64
	BWConvergenceTolerance float64
	FundamentalEnabled     bool
	FMin                   float64
	FMax                   float64
	// PreEmphasisAlpha, when non-zero, pre-filters the signal with a
	// one-zero pre-emphasis filter (y[n] = x[n] - alpha*x[n-1]) before
	// analysis, flattening typical -6dB/octave spectral tilt so high
	// partials clear AmpFloorDB as readily as low ones.
	PreEmphasisAlpha float64
}

// NewConfig returns a Config with every default filled in from the one
// required parameter, freqResolutionHz.
func NewConfig(freqResolutionHz float64) Config {
	c := Config{FreqResolutionHz: freqResolutionHz}
	c.WindowWidthHz = 2 * freqResolutionHz
	c.SidelobeLevelDB = 90
	c.AmpFloorDB = -90
	c.FreqFloorHz = 0
	c.FreqDriftHz = freqResolutionHz / 2
	c.HopTimeS = 1 / c.WindowWidthHz
	c.CropTimeS = c.HopTimeS
	c.BWMode = BWResidue
	c.BWRegionWidthHz = 2000
	c.BWConvergenceTolerance = 0.01
	c.FundamentalEnabled = false
	return c
}

// Validate reports an InvalidArgument error for any out-of-range
// option.
func (c Config) Validate(op string) error {
	if c.FreqResolutionHz <= 0 {
		return rerror.New(rerror.InvalidArgument, op, "freq resolution must be positive", nil)
	}
	if c.WindowWidthHz <= 0 {
		return rerror.New(rerror.InvalidArgument, op, "window width must be positive", nil)
	}
	if c.SidelobeLevelDB <= 0 {
		return rerror.New(rerror.InvalidArgument, op, "sidelobe level must be positive", nil)
	}
	if c.FreqFloorHz < 0 {
		return rerror.New(rerror.InvalidArgument, op, "freq floor must be non-negative", nil)
	}
	if c.FreqDriftHz <= 0 {
		return rerror.New(rerror.InvalidArgument, op, "freq drift must be positive", nil)
	}
	if c.HopTimeS <= 0 {
		return rerror.New(rerror.InvalidArgument, op, "hop time must be positive", nil)
	}
	if c.CropTimeS <= 0 {
		return rerror.New(rerror.InvalidArgument, op, "crop time must be positive", nil)
	}
	if c.BWMode == BWResidue && c.BWRegionWidthHz <= 0 {
		return rerror.New(rerror.InvalidArgument, op, "bandwidth region width must be positive in residue mode", nil)
	}
	if c.BWMode == BWConvergence && (c.BWConvergenceTolerance <= 0 || c.BWConvergenceTolerance >= 1 || math.IsNaN(c.BWConvergenceTolerance)) {
		return rerror.New(rerror.InvalidArgument, op, "bandwidth convergence tolerance must be in (0,1) in convergence mode", nil)
	}
	if c.FundamentalEnabled && (c.FMin <= 0 || c.FMax <= c.FMin) {
		return rerror.New(rerror.InvalidArgument, op, "invalid fundamental bracket", nil)
	}
	return nil
}
