package partial

import (
	"math"
	"sort"

	"github.com/partialmodel/rbeas/rerror"
)

// Entry pairs a time with the Breakpoint sampled there.
type Entry struct {
	Time float64
	BP   Breakpoint
}

// Partial is a time-ordered, strictly-increasing sequence of
// Breakpoints plus an integer harmonic label (0 = unlabeled). An empty
// Partial is legal: it has no start/end time and interpolates to the
// zero Breakpoint everywhere. Breakpoints are held in a contiguous
// slice rather than behind an iterator/cursor type, per the
// array-over-iterator design note: access patterns are sequential and
// binary search (sort.Search below) is the common case.
type Partial struct {
	label int
	bps   []Entry
}

// New creates an empty Partial with the given label.
func New(label int) *Partial {
	return &Partial{label: label}
}

// Label returns the partial's harmonic label.
func (p *Partial) Label() int { return p.label }

// SetLabel sets the partial's harmonic label.
func (p *Partial) SetLabel(label int) { p.label = label }

// Len returns the number of breakpoints.
func (p *Partial) Len() int { return len(p.bps) }

// IsEmpty reports whether the partial has no breakpoints.
func (p *Partial) IsEmpty() bool { return len(p.bps) == 0 }

// StartTime returns the time of the first breakpoint, or 0 if empty.
func (p *Partial) StartTime() float64 {
	if len(p.bps) == 0 {
		return 0
	}
	return p.bps[0].Time
}

// EndTime returns the time of the last breakpoint, or 0 if empty.
func (p *Partial) EndTime() float64 {
	if len(p.bps) == 0 {
		return 0
	}
	return p.bps[len(p.bps)-1].Time
}

// Duration returns EndTime - StartTime.
func (p *Partial) Duration() float64 { return p.EndTime() - p.StartTime() }

// At returns the i'th breakpoint entry.
func (p *Partial) At(i int) Entry { return p.bps[i] }

// First returns the first breakpoint entry; valid is false if empty.
func (p *Partial) First() (Entry, bool) {
	if len(p.bps) == 0 {
		return Entry{}, false
	}
	return p.bps[0], true
}

// Last returns the last breakpoint entry; valid is false if empty.
func (p *Partial) Last() (Entry, bool) {
	if len(p.bps) == 0 {
		return Entry{}, false
	}
	return p.bps[len(p.bps)-1], true
}

// Entries returns a copy of the partial's breakpoint sequence.
func (p *Partial) Entries() []Entry {
	out := make([]Entry, len(p.bps))
	copy(out, p.bps)
	return out
}

// lowerBound returns the index of the first entry with Time >= t.
func (p *Partial) lowerBound(t float64) int {
	return sort.Search(len(p.bps), func(i int) bool { return p.bps[i].Time >= t })
}

// IndexAt returns the index of the breakpoint at exactly time t, and
// whether one exists.
func (p *Partial) IndexAt(t float64) (int, bool) {
	i := p.lowerBound(t)
	if i < len(p.bps) && p.bps[i].Time == t {
		return i, true
	}
	return i, false
}

// InsertBreakpoint inserts bp at time t, maintaining strictly
// increasing time order. Inserting at a duplicate time is an
// InvalidPartial error; SetBreakpoint overwrites the existing
// breakpoint instead.
func (p *Partial) InsertBreakpoint(t float64, bp Breakpoint) error {
	const op = "Partial.InsertBreakpoint"
	if err := bp.Validate(op); err != nil {
		return err
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return rerror.New(rerror.InvalidPartial, op, "non-finite time", nil)
	}
	i := p.lowerBound(t)
	if i < len(p.bps) && p.bps[i].Time == t {
		return rerror.Newf(rerror.InvalidPartial, op, nil, "duplicate breakpoint time %g", t)
	}
	p.bps = append(p.bps, Entry{})
	copy(p.bps[i+1:], p.bps[i:])
	p.bps[i] = Entry{Time: t, BP: bp}
	return nil
}

// SetBreakpoint inserts bp at time t, overwriting any existing
// breakpoint at that exact time instead of erroring.
func (p *Partial) SetBreakpoint(t float64, bp Breakpoint) error {
	const op = "Partial.SetBreakpoint"
	if err := bp.Validate(op); err != nil {
		return err
	}
	i, exact := p.IndexAt(t)
	if exact {
		p.bps[i].BP = bp
		return nil
	}
	p.bps = append(p.bps, Entry{})
	copy(p.bps[i+1:], p.bps[i:])
	p.bps[i] = Entry{Time: t, BP: bp}
	return nil
}

// RemoveAt removes the breakpoint at index i.
func (p *Partial) RemoveAt(i int) error {
	if i < 0 || i >= len(p.bps) {
		return rerror.Newf(rerror.InvalidIndex, "Partial.RemoveAt", nil, "index %d out of range [0,%d)", i, len(p.bps))
	}
	p.bps = append(p.bps[:i], p.bps[i+1:]...)
	return nil
}

// Clear removes all breakpoints, leaving the label untouched.
func (p *Partial) Clear() { p.bps = nil }

// SetEntries replaces the partial's entire breakpoint sequence. The
// caller-supplied entries must already be strictly increasing in
// time; this is the bulk-replace primitive used by Resampler and
// Cropper after they compute a wholly new breakpoint set.
func (p *Partial) SetEntries(entries []Entry) error {
	const op = "Partial.SetEntries"
	for i, e := range entries {
		if err := e.BP.Validate(op); err != nil {
			return err
		}
		if i > 0 && entries[i-1].Time >= e.Time {
			return rerror.New(rerror.InvalidPartial, op, "entries not strictly increasing in time", nil)
		}
	}
	p.bps = make([]Entry, len(entries))
	copy(p.bps, entries)
	return nil
}

// Clone returns an independent deep copy of the partial.
func (p *Partial) Clone() *Partial {
	out := &Partial{label: p.label, bps: make([]Entry, len(p.bps))}
	copy(out.bps, p.bps)
	return out
}

// ParamsAt evaluates the partial's parameters at time t: constant-
// frequency fade before the first breakpoint and after the last,
// linear interpolation of frequency/amplitude/bandwidth between
// flanking breakpoints, and phase always derived by integrating the
// (possibly time-varying) frequency trajectory rather than
// interpolated directly, so a synthesizer driven by ParamsAt never
// needs to re-derive phase continuity itself.
func (p *Partial) ParamsAt(t float64) Breakpoint {
	n := len(p.bps)
	if n == 0 {
		return Breakpoint{}
	}
	if n == 1 {
		only := p.bps[0]
		if t == only.Time {
			return only.BP
		}
		return fadeFrom(only, t)
	}

	first, last := p.bps[0], p.bps[n-1]
	if t < first.Time {
		return fadeFrom(first, t)
	}
	if t > last.Time {
		return fadeFrom(last, t)
	}

	i := p.lowerBound(t)
	if i < n && p.bps[i].Time == t {
		return p.bps[i].BP
	}
	// i is the first index with Time > t (lowerBound found none equal,
	// so entries[i-1].Time < t < entries[i].Time).
	lo, hi := p.bps[i-1], p.bps[i]
	return interpolate(lo, hi, t)
}

// fadeFrom extrapolates a single boundary breakpoint to time t: the
// frequency, bandwidth and phase hold at the boundary's values (phase
// back/forward-integrated from the boundary using that constant
// frequency), and amplitude fades to zero away from the boundary.
func fadeFrom(b Entry, t float64) Breakpoint {
	omega := 2 * math.Pi * b.BP.Frequency
	dt := t - b.Time
	return Breakpoint{
		Frequency: b.BP.Frequency,
		Amplitude: 0,
		Bandwidth: b.BP.Bandwidth,
		Phase:     b.BP.Phase + omega*dt,
	}
}

// interpolate computes the breakpoint at t strictly between lo and hi.
// Frequency/amplitude/bandwidth are linear in time; phase is obtained
// by integrating the linearly-varying frequency from lo.Time to t,
// which for a linear frequency trajectory equals the average of the
// endpoint frequencies times elapsed time.
func interpolate(lo, hi Entry, t float64) Breakpoint {
	span := hi.Time - lo.Time
	frac := (t - lo.Time) / span

	freq := lo.BP.Frequency + frac*(hi.BP.Frequency-lo.BP.Frequency)
	amp := lo.BP.Amplitude + frac*(hi.BP.Amplitude-lo.BP.Amplitude)
	bw := lo.BP.Bandwidth + frac*(hi.BP.Bandwidth-lo.BP.Bandwidth)

	avgFreq := (lo.BP.Frequency + freq) / 2
	phase := lo.BP.Phase + 2*math.Pi*avgFreq*(t-lo.Time)

	return Breakpoint{Frequency: freq, Amplitude: amp, Bandwidth: bw, Phase: phase}
}

// List is an order-preserving sequence of partials. Operations that
// produce a new List from scratch (Distiller, Collator) may re-order
// it; routine manipulation (Channelizer, Morpher, Dilator, Resampler,
// Cropper) preserves order.
type List []*Partial

// Clone returns a list of independent deep copies.
func (l List) Clone() List {
	out := make(List, len(l))
	for i, p := range l {
		out[i] = p.Clone()
	}
	return out
}
