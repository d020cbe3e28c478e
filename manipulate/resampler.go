package manipulate

import (
	"math"

	"github.com/partialmodel/rbeas/partial"
	"github.com/partialmodel/rbeas/rerror"
)

// Resampler re-samples partials onto a uniform time grid, snapping the
// grid to multiples of the hop interval rather than to each partial's
// own start time, so resampled partials from the same analysis share
// breakpoint times.
type Resampler struct {
	hopTime float64
	// PhaseCorrect, when true (the default), forward-integrates phase
	// breakpoint to breakpoint from the resampled frequency trajectory
	// instead of taking each new breakpoint's phase independently from
	// ParamsAt, which keeps phase continuous across closely-spaced
	// resampled points even when the source partial's own breakpoints
	// are sparse.
	PhaseCorrect bool
}

// NewResampler builds a Resampler with the given hop interval in
// seconds.
func NewResampler(hopTime float64) (*Resampler, error) {
	if hopTime <= 0 {
		return nil, rerror.New(rerror.InvalidArgument, "manipulate.NewResampler", "hop time must be positive", nil)
	}
	return &Resampler{hopTime: hopTime, PhaseCorrect: true}, nil
}

// Resample replaces p's breakpoints with ones sampled at multiples of
// the hop interval spanning p's original time range (each end rounded
// to the nearest hop multiple), in place.
func (r *Resampler) Resample(p *partial.Partial) error {
	if p.IsEmpty() {
		return nil
	}

	start := math.Round(p.StartTime()/r.hopTime) * r.hopTime
	end := math.Round(p.EndTime()/r.hopTime) * r.hopTime
	if end < start {
		end = start
	}

	var times []float64
	for t := start; t <= end+r.hopTime*1e-6; t += r.hopTime {
		times = append(times, t)
	}
	if len(times) == 0 {
		times = []float64{start}
	}

	entries := make([]partial.Entry, len(times))
	var prevPhase float64
	for i, t := range times {
		bp := p.ParamsAt(t)
		if r.PhaseCorrect && i > 0 {
			prevFreq := entries[i-1].BP.Frequency
			avgFreq := (prevFreq + bp.Frequency) / 2
			bp.Phase = prevPhase + 2*math.Pi*avgFreq*(t-times[i-1])
		}
		entries[i] = partial.Entry{Time: t, BP: bp}
		prevPhase = bp.Phase
	}

	return p.SetEntries(entries)
}

// ResampleAll resamples every partial in list.
func (r *Resampler) ResampleAll(list partial.List) error {
	for _, p := range list {
		if err := r.Resample(p); err != nil {
			return err
		}
	}
	return nil
}
