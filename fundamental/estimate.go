// Package fundamental estimates an F0 envelope either from an already
// analyzed partial list or directly from samples. Both variants share
// the same candidate-ranking kernel: score every candidate F0 on a
// precision-controlled grid by how well a set of (frequency,
// amplitude) peaks explain it as a harmonic series, a candidate-then-
// score shape applied here to a continuous frequency grid rather than
// autocorrelation lags.
package fundamental

import (
	"math"

	"github.com/partialmodel/rbeas/envelope"
	"github.com/partialmodel/rbeas/partial"
	"github.com/partialmodel/rbeas/rerror"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Peak is a (frequency, amplitude) pair the ranking kernel scores
// candidates against.
type Peak struct {
	Freq float64
	Amp  float64
}

// Config controls candidate search and scoring.
type Config struct {
	FMin          float64 // Hz, lower bracket bound
	FMax          float64 // Hz, upper bracket bound
	Precision     float64 // Hz, candidate grid step
	AmpRangeDB    float64 // peaks within this many dB of the loudest peak count as support
	AmpFloorDB    float64 // reject candidates whose supporting energy (dB) is below this
	FreqCeilingHz float64 // ignore peaks above this frequency when scoring (0 = no ceiling)
}

// Validate reports an InvalidArgument error for an out-of-range Config.
func (c Config) Validate(op string) error {
	if c.FMin <= 0 || c.FMax <= c.FMin {
		return rerror.Newf(rerror.InvalidArgument, op, nil, "invalid F0 bracket [%g, %g]", c.FMin, c.FMax)
	}
	if c.Precision <= 0 {
		return rerror.New(rerror.InvalidArgument, op, "precision must be positive", nil)
	}
	return nil
}

// RankCandidates scores every candidate on the [FMin, FMax] grid
// (step Precision) against peaks and returns the best-scoring
// candidate; among equally scored candidates the highest wins, so an
// exact subharmonic never displaces the true fundamental. ok is false
// if no candidate clears AmpFloorDB.
func RankCandidates(peaks []Peak, cfg Config) (f0 float64, ok bool) {
	if len(peaks) == 0 {
		return 0, false
	}

	loudest := 0.0
	for _, p := range peaks {
		if p.Amp > loudest {
			loudest = p.Amp
		}
	}
	if loudest <= 0 {
		return 0, false
	}

	bestScore := math.Inf(-1)
	bestF0 := 0.0
	found := false

	for cand := cfg.FMin; cand <= cfg.FMax; cand += cfg.Precision {
		score, support := scoreCandidate(cand, peaks, loudest, cfg)
		if support <= 0 {
			continue
		}
		supportDB := 20 * math.Log10(support/loudest)
		if supportDB < cfg.AmpFloorDB {
			continue
		}
		if score >= bestScore {
			bestScore = score
			bestF0 = cand
			found = true
		}
	}
	return bestF0, found
}

// scoreCandidate rewards peaks whose frequency is near an integer
// multiple of cand and whose amplitude is within AmpRangeDB of the
// loudest peak, weighting each contribution by amplitude and
// penalizing frequency mismatch. Only the peak-to-harmonic direction
// is scored: harmonics of cand that no peak supplies cost nothing.
func scoreCandidate(cand float64, peaks []Peak, loudest float64, cfg Config) (score, support float64) {
	for _, p := range peaks {
		if cfg.FreqCeilingHz > 0 && p.Freq > cfg.FreqCeilingHz {
			continue
		}
		ampDB := 20 * math.Log10(p.Amp/loudest)
		if ampDB < -cfg.AmpRangeDB {
			continue
		}
		harmonic := math.Round(p.Freq / cand)
		if harmonic < 1 {
			continue
		}
		expected := cand * harmonic
		mismatch := math.Abs(p.Freq-expected) / cand
		weight := p.Amp / (1 + 10*mismatch)
		score += weight
		support += p.Amp
	}
	return score, support
}

// EstimateFromPartials samples every partial active at t (whatever
// its frequency) and ranks candidate F0 values in the [FMin, FMax]
// bracket against the result.
func EstimateFromPartials(partials partial.List, t float64, cfg Config) (f0 float64, ok bool) {
	peaks := make([]Peak, 0, len(partials))
	for _, p := range partials {
		if p.IsEmpty() || t < p.StartTime() || t > p.EndTime() {
			continue
		}
		bp := p.ParamsAt(t)
		if bp.Amplitude <= 0 {
			continue
		}
		peaks = append(peaks, Peak{Freq: bp.Frequency, Amp: bp.Amplitude})
	}
	return RankCandidates(peaks, cfg)
}

// EnvelopeFromPartials evaluates EstimateFromPartials at every time in
// grid, producing an F0 envelope with one point per successful
// estimate (unsuccessful grid points are simply omitted, so the
// envelope interpolates across them).
func EnvelopeFromPartials(partials partial.List, grid []float64, cfg Config) *envelope.Envelope {
	out := envelope.New()
	for _, t := range grid {
		if f0, ok := EstimateFromPartials(partials, t, cfg); ok {
			out.Insert(t, f0)
		}
	}
	return out
}

// EstimateFromSamples computes a short-window magnitude spectrum
// centered at centerTime via gonum.org/v1/gonum/dsp/fourier (a second,
// independent FFT backend from the Analyzer's go-dsp/fft — grounded on
// neputevshina-nanowarp/detector.go's use of the same package for
// per-frame spectra) and ranks candidates against its local maxima.
func EstimateFromSamples(samples []float64, sampleRate float64, centerTime float64, windowSamples int, cfg Config) (f0 float64, ok bool) {
	if windowSamples <= 0 {
		windowSamples = 2048
	}
	center := int(math.Round(centerTime * sampleRate))
	half := windowSamples / 2

	segment := make([]float64, windowSamples)
	for i := 0; i < windowSamples; i++ {
		idx := center - half + i
		if idx >= 0 && idx < len(samples) {
			// Hann window, applied inline to avoid a dependency on
			// the analysis-specific Kaiser window sizing.
			hann := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(windowSamples-1))
			segment[i] = samples[idx] * hann
		}
	}

	fft := fourier.NewFFT(windowSamples)
	coeffs := fft.Coefficients(nil, segment)

	freqRes := sampleRate / float64(windowSamples)
	peaks := make([]Peak, 0, 32)
	for k := 1; k < len(coeffs)-1; k++ {
		mag := cmplxAbs(coeffs[k])
		if mag > cmplxAbs(coeffs[k-1]) && mag > cmplxAbs(coeffs[k+1]) {
			peaks = append(peaks, Peak{Freq: float64(k) * freqRes, Amp: mag})
		}
	}
	return RankCandidates(peaks, cfg)
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
