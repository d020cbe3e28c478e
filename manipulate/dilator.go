// Package manipulate implements operations on an already-analyzed
// PartialList. The time-axis ones leave frequency content untouched:
// Dilator stretches or compresses time by a piecewise-linear
// warp, Resampler re-samples onto a uniform time grid, and Cropper
// truncates to a time window, inserting boundary breakpoints so
// nothing is abruptly cut off mid-amplitude. Grounded on
// original_source/utils/loris_dilate.C for Dilator's control-point
// semantics and original_source/test/test_Cropper.C and
// test_Resampler.C for the others' exact edge-case behavior (neither
// shipped with the distilled spec, since both are described there only
// in prose).
package manipulate

import (
	"sort"

	"github.com/partialmodel/rbeas/envelope"
	"github.com/partialmodel/rbeas/partial"
	"github.com/partialmodel/rbeas/rerror"
)

// Dilator warps time via a piecewise-linear map from initial control
// times to target control times, anchored at (0, 0) unless the
// caller's first control point already is 0. It changes only
// Breakpoint times — frequency, amplitude, and bandwidth are
// untouched, so pitch and loudness survive a tempo change intact.
type Dilator struct {
	xs, ys []float64
}

// NewDilator builds a Dilator from parallel initial/target control
// time slices (same length, initial strictly increasing).
func NewDilator(initial, target []float64) (*Dilator, error) {
	const op = "manipulate.NewDilator"
	if len(initial) != len(target) {
		return nil, rerror.New(rerror.InvalidArgument, op, "initial and target control times must have equal length", nil)
	}
	if len(initial) == 0 {
		return nil, rerror.New(rerror.InvalidArgument, op, "at least one control time pair is required", nil)
	}
	for i := 1; i < len(initial); i++ {
		if initial[i] <= initial[i-1] {
			return nil, rerror.New(rerror.InvalidArgument, op, "initial control times must be strictly increasing", nil)
		}
	}

	xs, ys := initial, target
	if xs[0] != 0 {
		xs = append([]float64{0}, xs...)
		ys = append([]float64{0}, ys...)
	}
	return &Dilator{xs: xs, ys: ys}, nil
}

// WarpTime maps a single time value through the dilation.
func (d *Dilator) WarpTime(t float64) float64 {
	return envelope.PiecewiseLinear(d.xs, d.ys, t, false)
}

// WarpTimes maps every element of ts through the dilation, in place,
// and returns ts.
func (d *Dilator) WarpTimes(ts []float64) []float64 {
	for i, t := range ts {
		ts[i] = d.WarpTime(t)
	}
	sort.Float64s(ts)
	return ts
}

// Dilate time-warps every breakpoint of every partial in list, in
// place, and returns the first error from re-setting a partial's
// breakpoints, if any.
func (d *Dilator) Dilate(list partial.List) error {
	for _, p := range list {
		if p.IsEmpty() {
			continue
		}
		entries := p.Entries()
		for i := range entries {
			entries[i].Time = d.WarpTime(entries[i].Time)
		}
		if err := p.SetEntries(entries); err != nil {
			return err
		}
	}
	return nil
}
