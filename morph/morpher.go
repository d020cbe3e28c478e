// Package morph implements cross-fading between two partial lists
// along three independently-shaped control envelopes (frequency,
// amplitude, bandwidth), pairing partials across the two sources by
// label the same way Channelizer assigns labels in the first place.
// Built on Envelope.ValueAt and Partial.ParamsAt in packages envelope
// and partial, generalizing the linear/log pointwise blends those two
// primitives already define.
package morph

import (
	"math"
	"sort"

	"github.com/partialmodel/rbeas/envelope"
	"github.com/partialmodel/rbeas/partial"
)

// Morpher blends src1 toward src2 as each control envelope moves from
// 0 (pure src1) to 1 (pure src2).
type Morpher struct {
	MorphFreq *envelope.Envelope
	MorphAmp  *envelope.Envelope
	MorphBW   *envelope.Envelope

	// ReferenceFreq, if non-nil, overrides the interpolated frequency
	// of every nonzero-label output partial with label*ReferenceFreq
	// at that time, keeping harmonic spacing locked to a shared
	// reference even when the two sources' own trajectories diverge.
	ReferenceFreq *envelope.Envelope

	// MinBreakpointGap drops output breakpoints closer together in
	// time than this, always keeping the first and last of a run. Zero
	// disables thinning.
	MinBreakpointGap float64

	// LinearAmp switches amplitude blending from the default log mix
	// (matching how frequency is blended) to plain linear
	// interpolation.
	LinearAmp bool
}

// New creates a Morpher from its three control envelopes.
func New(morphFreq, morphAmp, morphBW *envelope.Envelope) *Morpher {
	return &Morpher{MorphFreq: morphFreq, MorphAmp: morphAmp, MorphBW: morphBW}
}

// Morph pairs src1 and src2 partials by label and returns one output
// partial per label present in either source.
func (m *Morpher) Morph(src1, src2 partial.List) partial.List {
	g1 := indexByLabel(src1)
	g2 := indexByLabel(src2)

	labels := make(map[int]bool, len(g1)+len(g2))
	var order []int
	for _, p := range src1 {
		if !labels[p.Label()] {
			labels[p.Label()] = true
			order = append(order, p.Label())
		}
	}
	for _, p := range src2 {
		if !labels[p.Label()] {
			labels[p.Label()] = true
			order = append(order, p.Label())
		}
	}

	out := make(partial.List, 0, len(order))
	for _, label := range order {
		out = append(out, m.morphPair(label, g1[label], g2[label]))
	}
	return out
}

func indexByLabel(list partial.List) map[int]*partial.Partial {
	out := make(map[int]*partial.Partial, len(list))
	for _, p := range list {
		out[p.Label()] = p
	}
	return out
}

// morphPair produces one morphed partial for a label, where p1 and/or
// p2 may be nil (the label is absent from that source).
func (m *Morpher) morphPair(label int, p1, p2 *partial.Partial) *partial.Partial {
	times := unionTimes(p1, p2)
	out := partial.New(label)

	var prevPhase float64
	havePrev := false

	for _, t := range times {
		bp := m.blendAt(label, t, p1, p2, prevPhase, havePrev)
		if m.MinBreakpointGap > 0 && havePrev {
			last, ok := out.Last()
			if ok && t-last.Time < m.MinBreakpointGap && t != times[len(times)-1] {
				continue
			}
		}
		_ = out.SetBreakpoint(t, bp)
		prevPhase = bp.Phase
		havePrev = true
	}
	return out
}

func (m *Morpher) blendAt(label int, t float64, p1, p2 *partial.Partial, prevPhase float64, havePrev bool) partial.Breakpoint {
	mf := m.MorphFreq.ValueAt(t)
	ma := m.MorphAmp.ValueAt(t)
	mb := m.MorphBW.ValueAt(t)

	var bp partial.Breakpoint
	switch {
	case p1 == nil:
		bp2 := p2.ParamsAt(t)
		bp = partial.Breakpoint{Frequency: bp2.Frequency, Amplitude: bp2.Amplitude * ma, Bandwidth: bp2.Bandwidth, Phase: bp2.Phase}
	case p2 == nil:
		bp1 := p1.ParamsAt(t)
		bp = partial.Breakpoint{Frequency: bp1.Frequency, Amplitude: bp1.Amplitude * (1 - ma), Bandwidth: bp1.Bandwidth, Phase: bp1.Phase}
	default:
		bp1 := p1.ParamsAt(t)
		bp2 := p2.ParamsAt(t)
		freq := logInterp(bp1.Frequency, bp2.Frequency, mf)
		amp := m.blendAmp(bp1.Amplitude, bp2.Amplitude, ma)
		bw := linInterp(bp1.Bandwidth, bp2.Bandwidth, mb)
		phase := blendPhase(bp1.Phase, bp2.Phase, mf)
		bp = partial.Breakpoint{Frequency: freq, Amplitude: amp, Bandwidth: bw, Phase: phase}
	}

	if m.ReferenceFreq != nil && label > 0 {
		bp.Frequency = float64(label) * m.ReferenceFreq.ValueAt(t)
	}

	if havePrev {
		bp.Phase = nearestEquivalentPhase(prevPhase, bp.Phase)
	}
	return bp
}

// blendAmp mixes two amplitudes logarithmically by default, the same
// perceptual justification as frequency's blend, falling back to
// linInterp when LinearAmp is set or either amplitude is non-positive.
func (m *Morpher) blendAmp(a, b, frac float64) float64 {
	if m.LinearAmp {
		return linInterp(a, b, frac)
	}
	return logInterp(a, b, frac)
}

// logInterp blends two positive frequencies geometrically (linear in
// log space), matching how frequency is perceived. frac in [0,1] not
// required to be clamped by the caller; envelopes may legitimately
// extrapolate beyond that range.
func logInterp(a, b, frac float64) float64 {
	if a <= 0 || b <= 0 {
		return linInterp(a, b, frac)
	}
	return math.Exp(math.Log(a) + frac*(math.Log(b)-math.Log(a)))
}

func linInterp(a, b, frac float64) float64 {
	v := a + frac*(b-a)
	if v < 0 {
		return 0
	}
	return v
}

// blendPhase unwraps b relative to a before blending, so the blend
// never crosses a spurious 2*pi discontinuity.
func blendPhase(a, b, frac float64) float64 {
	bNear := nearestEquivalentPhase(a, b)
	return a + frac*(bNear-a)
}

// nearestEquivalentPhase returns the value equivalent to phase modulo
// 2*pi that is closest to ref.
func nearestEquivalentPhase(ref, phase float64) float64 {
	twoPi := 2 * math.Pi
	k := math.Round((ref - phase) / twoPi)
	return phase + k*twoPi
}

func unionTimes(p1, p2 *partial.Partial) []float64 {
	seen := map[float64]bool{}
	var out []float64
	add := func(p *partial.Partial) {
		if p == nil {
			return
		}
		for _, e := range p.Entries() {
			if !seen[e.Time] {
				seen[e.Time] = true
				out = append(out, e.Time)
			}
		}
	}
	add(p1)
	add(p2)
	sort.Float64s(out)
	return out
}
