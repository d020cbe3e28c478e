package analysis

import (
	"math"

	"github.com/partialmodel/rbeas/rbeaslog"
	"github.com/partialmodel/rbeas/spectral"
	"gonum.org/v1/gonum/floats"
)

// spectralPeak is a candidate sinusoid picked from one analysis frame,
// before it has been assigned to a partial.
type spectralPeak struct {
	binIndex int
	time     float64
	freq     float64
	amp      float64
	phase    float64
	bw       float64
}

// ampFromMagnitude converts a raw FFT bin magnitude to a linear
// amplitude: a real cosine of peak amplitude A, windowed by the
// unit-mean window Analyze builds and transformed, produces a bin
// magnitude of roughly A*N/2, so A = 2*mag/N recovers
// it (exact for a tone exactly on a bin; reassignment makes off-bin
// peaks close enough for amp-floor comparison purposes).
func ampFromMagnitude(mag float64, n int) float64 {
	return 2 * mag / float64(n)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// pickPeaks finds local maxima of the plain-window magnitude spectrum,
// filters them against AmpFloorDB/FreqFloorHz/CropTimeS, and returns
// the survivors described by their reassigned time/frequency rather
// than their raw bin center.
func pickPeaks(bins []spectral.BinEstimate, n int, frameCenterTime float64, cfg Config) ([]*spectralPeak, int) {
	out := make([]*spectralPeak, 0, len(bins)/4+1)
	dropped := 0
	if len(bins) < 3 {
		return out, dropped
	}
	for k := 1; k < len(bins)-1; k++ {
		b := bins[k]
		if !(b.Magnitude > bins[k-1].Magnitude && b.Magnitude > bins[k+1].Magnitude) {
			continue
		}
		if !b.Finite {
			// Reassignment at a spectral null produced a non-finite
			// time/frequency. Drop the peak and keep a tally instead
			// of aborting.
			dropped++
			continue
		}
		if b.ReassignedFreqHz < cfg.FreqFloorHz {
			continue
		}
		if math.Abs(b.ReassignedTime-frameCenterTime) > cfg.CropTimeS {
			continue
		}
		amp := ampFromMagnitude(b.Magnitude, n)
		if amp <= 0 {
			continue
		}
		ampDB := 20 * math.Log10(amp)
		if ampDB < cfg.AmpFloorDB {
			continue
		}
		out = append(out, &spectralPeak{
			binIndex: k,
			time:     b.ReassignedTime,
			freq:     b.ReassignedFreqHz,
			amp:      amp,
			phase:    b.Phase,
		})
	}
	return out, dropped
}

// logDroppedPeaks reports a frame's count of dropped non-finite peaks
// at Warn level; the condition is recovered locally, never surfaced as
// an error.
func logDroppedPeaks(logger rbeaslog.Logger, frameCenterTime float64, dropped int) {
	if dropped == 0 || logger == nil {
		return
	}
	logger.Warn("dropped non-finite reassignment peaks",
		rbeaslog.Fields{"frame_time_s": frameCenterTime, "count": dropped})
}

// assignBandwidth fills in peaks' bw field per the configured
// BandwidthMode.
func assignBandwidth(peaks []*spectralPeak, bins []spectral.BinEstimate, n int, sampleRate float64, cfg Config) {
	switch cfg.BWMode {
	case BWNone:
		for _, p := range peaks {
			p.bw = 0
		}
	case BWConvergence:
		for _, p := range peaks {
			conv := bins[p.binIndex].Convergence
			p.bw = clamp01(1 - conv/cfg.BWConvergenceTolerance)
		}
	case BWResidue:
		assignResidueBandwidth(peaks, bins, n, sampleRate, cfg)
	}
}

// assignResidueBandwidth groups peaks into BWRegionWidthHz-wide
// frequency regions, computes each region's total spectral energy
// (from every bin in range, sinusoidal and noise alike) minus the
// energy its peaks already account for, and distributes that residual
// noise energy across the region's peaks in proportion to each peak's
// own energy, then converts each peak's noise share into a bandwidth
// ratio noise/(noise+sinusoid).
func assignResidueBandwidth(peaks []*spectralPeak, bins []spectral.BinEstimate, n int, sampleRate float64, cfg Config) {
	if len(peaks) == 0 {
		return
	}
	regionOf := func(freq float64) int {
		return int(freq / cfg.BWRegionWidthHz)
	}

	regions := map[int][]*spectralPeak{}
	for _, p := range peaks {
		r := regionOf(p.freq)
		regions[r] = append(regions[r], p)
	}

	freqRes := sampleRate / float64(n)
	for r, rpeaks := range regions {
		lo := float64(r) * cfg.BWRegionWidthHz
		hi := lo + cfg.BWRegionWidthHz

		binEnergies := make([]float64, 0, len(bins))
		for k, b := range bins {
			f := float64(k) * freqRes
			if f < lo || f >= hi {
				continue
			}
			a := ampFromMagnitude(b.Magnitude, n)
			binEnergies = append(binEnergies, a*a)
		}
		totalBinEnergy := floats.Sum(binEnergies)

		peakEnergies := make([]float64, len(rpeaks))
		for i, p := range rpeaks {
			peakEnergies[i] = p.amp * p.amp
		}
		totalPeakEnergy := floats.Sum(peakEnergies)

		noiseEnergy := totalBinEnergy - totalPeakEnergy
		if noiseEnergy < 0 {
			noiseEnergy = 0
		}

		if totalPeakEnergy <= 0 {
			for _, p := range rpeaks {
				p.bw = 0
			}
			continue
		}
		for _, p := range rpeaks {
			peakEnergy := p.amp * p.amp
			share := noiseEnergy * (peakEnergy / totalPeakEnergy)
			p.bw = clamp01(share / (share + peakEnergy))
		}
	}
}
