package synthesis

import (
	"math"

	"github.com/partialmodel/rbeas/partial"
	"github.com/partialmodel/rbeas/rerror"
)

// Config holds the Synthesizer's options. FadeTime controls the
// fade-in/fade-out margin prepended/appended around each partial's own
// span (default 1ms).
type Config struct {
	SampleRate float64
	FadeTime   float64
}

// Synthesizer renders a PartialList to a sample buffer. It is
// stateless: Synthesize never mutates the partials it's given and two
// calls with the same arguments always produce byte-identical output.
type Synthesizer struct {
	cfg Config
}

// New validates cfg and returns a Synthesizer.
func New(cfg Config) (*Synthesizer, error) {
	if cfg.SampleRate <= 0 {
		return nil, rerror.New(rerror.InvalidArgument, "synthesis.New", "sample rate must be positive", nil)
	}
	if cfg.FadeTime <= 0 {
		cfg.FadeTime = 0.001
	}
	return &Synthesizer{cfg: cfg}, nil
}

// Synthesize renders partials to a buffer duration seconds long. An
// empty partial list renders to silence, never an error.
func (s *Synthesizer) Synthesize(partials partial.List, duration float64) []float64 {
	if duration < 0 {
		duration = 0
	}
	n := int(math.Round(duration * s.cfg.SampleRate))
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	for _, p := range partials {
		s.renderInto(out, p)
	}
	return out
}

// renderInto treats a fade_time margin before the partial's first
// breakpoint and after its last as an implicit zero-amplitude
// breakpoint, then walks the resulting breakpoint sequence pairwise,
// rendering each interval with a phase-accurate oscillator.
func (s *Synthesizer) renderInto(out []float64, p *partial.Partial) {
	if p.IsEmpty() {
		return
	}

	synthBPs := marginedBreakpoints(p.Entries(), s.cfg.FadeTime)
	for k := 0; k < len(synthBPs)-1; k++ {
		s.renderInterval(out, synthBPs[k], synthBPs[k+1])
	}
}

// marginedBreakpoints prepends a zero-amplitude breakpoint fade before
// entries[0] and appends a symmetric one fade after the last entry,
// holding frequency and bandwidth at the boundary's own value and
// extrapolating phase from it by integrating that constant frequency,
// so the oscillator stays phase-continuous into and out of the fade.
func marginedBreakpoints(entries []partial.Entry, fade float64) []partial.Entry {
	first, last := entries[0], entries[len(entries)-1]

	in := partial.Entry{
		Time: first.Time - fade,
		BP: partial.Breakpoint{
			Frequency: first.BP.Frequency,
			Amplitude: 0,
			Bandwidth: first.BP.Bandwidth,
			Phase:     first.BP.Phase - 2*math.Pi*first.BP.Frequency*fade,
		},
	}
	out := partial.Entry{
		Time: last.Time + fade,
		BP: partial.Breakpoint{
			Frequency: last.BP.Frequency,
			Amplitude: 0,
			Bandwidth: last.BP.Bandwidth,
			Phase:     last.BP.Phase + 2*math.Pi*last.BP.Frequency*fade,
		},
	}

	synth := make([]partial.Entry, 0, len(entries)+2)
	synth = append(synth, in)
	synth = append(synth, entries...)
	synth = append(synth, out)
	return synth
}

// renderInterval accumulates samples ceil(lo.Time*R) up to but not
// including floor(hi.Time*R) into out (when hi.Time*R is fractional,
// the sample at floor(hi.Time*R) is rendered by no interval), using a cubicOscillator for phase and linear interpolation
// for amplitude and bandwidth.
func (s *Synthesizer) renderInterval(out []float64, lo, hi partial.Entry) {
	r := s.cfg.SampleRate
	span := hi.Time - lo.Time
	if span <= 0 {
		return
	}

	start := int(math.Ceil(lo.Time * r))
	end := int(math.Floor(hi.Time * r))
	if start < 0 {
		start = 0
	}
	if end > len(out) {
		end = len(out)
	}
	if start >= end {
		return
	}

	osc := newCubicOscillator(lo.BP.Frequency, hi.BP.Frequency, lo.BP.Phase, hi.BP.Phase, span)

	for i := start; i < end; i++ {
		t := float64(i)/r - lo.Time
		frac := t / span

		amp := lo.BP.Amplitude + frac*(hi.BP.Amplitude-lo.BP.Amplitude)
		if amp <= 0 {
			continue
		}
		bw := lo.BP.Bandwidth + frac*(hi.BP.Bandwidth-lo.BP.Bandwidth)

		carrier := math.Cos(osc.phaseAt(t))
		mod := 1.0
		if bw > 0 {
			voiced := math.Sqrt(1 - bw)
			noisy := math.Sqrt(2 * bw)
			mod = voiced + noisy*NoiseModulator(int64(i))
		}
		out[i] += amp * carrier * mod
	}
}
