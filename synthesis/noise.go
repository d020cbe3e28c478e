// Package synthesis renders a PartialList back to samples: each
// partial contributes a sinusoid at its interpolated frequency and
// phase, amplitude-modulated by a deterministic noise sequence in
// proportion to its bandwidth value, so a bandwidth of 0 gives a pure
// tone and a bandwidth near 1 gives noise banded around the partial's
// frequency (bandwidth-enhanced synthesis).
package synthesis

import "golang.org/x/exp/rand"

// noiseWindowRadius sets how many neighboring raw samples smooth each
// noise value. The box average is recomputed from scratch per call, so
// the result depends only on the sample index and never on call order,
// keeping the Synthesizer safe to parallelize across partials.
const noiseWindowRadius = 4

// rawNoise returns a deterministic pseudo-random value in [-1, 1] for
// a sample index, seeded from the index itself rather than any shared
// generator state.
func rawNoise(index int64) float64 {
	seed := uint64(index)*2654435761 + 0x9E3779B97F4A7C15
	src := rand.NewSource(seed)
	r := rand.New(src)
	return 2*r.Float64() - 1
}

// NoiseModulator returns a smoothed deterministic noise value for
// sample index, box-averaged over a small neighborhood of indices so
// consecutive samples correlate the way band-limited noise does,
// rather than jumping independently sample to sample.
func NoiseModulator(index int64) float64 {
	sum := 0.0
	for k := -noiseWindowRadius; k <= noiseWindowRadius; k++ {
		sum += rawNoise(index + int64(k))
	}
	return sum / float64(2*noiseWindowRadius+1)
}
