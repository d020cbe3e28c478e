package analysis

import (
	"math"

	"github.com/partialmodel/rbeas/envelope"
	"github.com/partialmodel/rbeas/filter"
	"github.com/partialmodel/rbeas/fundamental"
	"github.com/partialmodel/rbeas/partial"
	"github.com/partialmodel/rbeas/rbeaslog"
	"github.com/partialmodel/rbeas/rerror"
	"github.com/partialmodel/rbeas/spectral"
	"github.com/partialmodel/rbeas/window"
)

// Analyzer turns a sampled signal into a PartialList (and, if
// configured, a fundamental-frequency Envelope) by sliding a
// Kaiser-shaped reassignment window across it frame by frame. An
// Analyzer is stateless between calls to Analyze; every scratch
// buffer it needs is built fresh per call since window length depends
// on the sample rate passed in.
type Analyzer struct {
	cfg    Config
	logger rbeaslog.Logger
}

// New validates cfg and returns an Analyzer. Dropped-peak anomalies
// are reported through rbeaslog.Global() unless SetLogger is called
// with a different logger.
func New(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate("analysis.New"); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg, logger: rbeaslog.Global()}, nil
}

// SetLogger overrides the logger used for non-fatal anomaly reports.
// Passing nil silences them.
func (a *Analyzer) SetLogger(logger rbeaslog.Logger) { a.logger = logger }

// Analyze runs the full frame-by-frame analysis pipeline over samples
// at sampleRate Hz and returns the resulting partials (those that
// ended during analysis in the order they ended, then those still
// active at the last frame), plus a fundamental-frequency envelope
// (empty if FundamentalEnabled is false).
func (a *Analyzer) Analyze(samples []float64, sampleRate float64) (partial.List, *envelope.Envelope, error) {
	const op = "Analyzer.Analyze"
	if sampleRate <= 0 {
		return nil, nil, rerror.New(rerror.InvalidArgument, op, "sample rate must be positive", nil)
	}
	if len(samples) == 0 {
		return partial.List{}, envelope.New(), nil
	}

	work := samples
	if a.cfg.PreEmphasisAlpha != 0 {
		pe, err := filter.NewPreEmphasis(a.cfg.PreEmphasisAlpha)
		if err != nil {
			return nil, nil, err
		}
		work = pe.ApplyBuffer(samples)
	}

	beta := window.BetaFromSidelobeLevel(a.cfg.SidelobeLevelDB)
	n := window.LengthFromWidth(a.cfg.WindowWidthHz, sampleRate, beta)
	kw := window.New(n, beta, sampleRate)
	w, tw, dw := kw.Coefficients(), kw.TimeRamped(), kw.Derivative()

	// Scale all three windows so W has unit mean: a cosine of amplitude
	// A then gives a peak bin magnitude of about A*n/2, which is what
	// ampFromMagnitude inverts. A common factor leaves the reassignment
	// ratios unchanged.
	wSum := 0.0
	for _, v := range w {
		wSum += v
	}
	if wSum > 0 {
		scale := float64(n) / wSum
		for i := range w {
			w[i] *= scale
			tw[i] *= scale
			dw[i] *= scale
		}
	}

	rs := spectral.NewReassignedSpectrum(sampleRate)

	hopSamples := int(math.Round(a.cfg.HopTimeS * sampleRate))
	if hopSamples < 1 {
		hopSamples = 1
	}
	half := n / 2

	windowed := make([]float64, n)
	timeRamped := make([]float64, n)
	derivative := make([]float64, n)

	var live []*liveTrack
	finished := partial.List{}
	var f0Grid []float64

	for center := 0; center < len(work); center += hopSamples {
		frameCenterTime := float64(center) / sampleRate

		for i := 0; i < n; i++ {
			idx := center - half + i
			var s float64
			if idx >= 0 && idx < len(work) {
				s = work[idx]
			}
			windowed[i] = s * w[i]
			timeRamped[i] = s * tw[i]
			derivative[i] = s * dw[i]
		}

		bins := rs.Compute(windowed, timeRamped, derivative, frameCenterTime)
		peaks, dropped := pickPeaks(bins, n, frameCenterTime, a.cfg)
		logDroppedPeaks(a.logger, frameCenterTime, dropped)
		assignBandwidth(peaks, bins, n, sampleRate, a.cfg)

		live, finished = trackFrame(live, finished, peaks, frameCenterTime, a.cfg)

		if a.cfg.FundamentalEnabled {
			f0Grid = append(f0Grid, frameCenterTime)
		}
	}

	for _, lt := range live {
		finished = append(finished, lt.p)
	}

	f0 := envelope.New()
	if a.cfg.FundamentalEnabled {
		f0Cfg := fundamental.Config{
			FMin:       a.cfg.FMin,
			FMax:       a.cfg.FMax,
			Precision:  a.cfg.FreqResolutionHz,
			AmpRangeDB: 30,
			AmpFloorDB: a.cfg.AmpFloorDB,
		}
		f0 = fundamental.EnvelopeFromPartials(finished, f0Grid, f0Cfg)
	}

	return finished, f0, nil
}
