// Package envelope implements the piecewise-linear time->value mapping
// used throughout the sound model: reference frequency envelopes for
// channelizing, morph-control envelopes, and fundamental-frequency
// output envelopes. Outside its defined domain an Envelope extrapolates
// with the nearest boundary value (constant extrapolation).
package envelope

import "sort"

type point struct {
	time  float64
	value float64
}

// Envelope is a sorted, mutable time->value mapping.
type Envelope struct {
	points []point
}

// New creates an empty envelope.
func New() *Envelope {
	return &Envelope{}
}

// NewConstant creates an envelope that is constant at v everywhere.
func NewConstant(v float64) *Envelope {
	e := New()
	e.Insert(0, v)
	return e
}

// Insert adds or overwrites the value at time t, keeping points sorted.
func (e *Envelope) Insert(t, v float64) {
	i := sort.Search(len(e.points), func(i int) bool { return e.points[i].time >= t })
	if i < len(e.points) && e.points[i].time == t {
		e.points[i].value = v
		return
	}
	e.points = append(e.points, point{})
	copy(e.points[i+1:], e.points[i:])
	e.points[i] = point{time: t, value: v}
}

// ValueAt evaluates the envelope at time t via linear interpolation,
// extrapolating constantly outside the defined range. An empty
// envelope evaluates to 0 everywhere.
func (e *Envelope) ValueAt(t float64) float64 {
	n := len(e.points)
	if n == 0 {
		return 0
	}
	if n == 1 || t <= e.points[0].time {
		return e.points[0].value
	}
	if t >= e.points[n-1].time {
		return e.points[n-1].value
	}

	i := sort.Search(n, func(i int) bool { return e.points[i].time >= t })
	// i is the first point with time >= t, and i > 0 since t > points[0].time.
	lo, hi := e.points[i-1], e.points[i]
	if hi.time == lo.time {
		return lo.value
	}
	frac := (t - lo.time) / (hi.time - lo.time)
	return lo.value + frac*(hi.value-lo.value)
}

// Len returns the number of control points.
func (e *Envelope) Len() int { return len(e.points) }

// Empty reports whether the envelope has no control points.
func (e *Envelope) Empty() bool { return len(e.points) == 0 }

// Times returns the control-point times in increasing order.
func (e *Envelope) Times() []float64 {
	out := make([]float64, len(e.points))
	for i, p := range e.points {
		out[i] = p.time
	}
	return out
}

// Values returns the control-point values in time order.
func (e *Envelope) Values() []float64 {
	out := make([]float64, len(e.points))
	for i, p := range e.points {
		out[i] = p.value
	}
	return out
}

// Iterate calls fn for every control point in time order.
func (e *Envelope) Iterate(fn func(t, v float64)) {
	for _, p := range e.points {
		fn(p.time, p.value)
	}
}

// Clone returns an independent copy of the envelope.
func (e *Envelope) Clone() *Envelope {
	out := &Envelope{points: make([]point, len(e.points))}
	copy(out.points, e.points)
	return out
}

// PiecewiseLinear evaluates the piecewise-linear function through the
// parallel (xs, ys) control points at x, with linear extrapolation
// outside [xs[0], xs[len-1]], or constant extrapolation when
// extrapolateConstant is set. manipulate.Dilator uses it (linear
// extrapolation) to remap partial and marker times; Envelope.ValueAt
// has its own equivalent constant-extrapolation lookup. xs must be
// non-decreasing and the same length as ys; callers are responsible
// for that invariant (Dilator validates it at construction).
func PiecewiseLinear(xs, ys []float64, x float64, extrapolateConstant bool) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return ys[0]
	}
	if x <= xs[0] {
		if extrapolateConstant {
			return ys[0]
		}
		slope := (ys[1] - ys[0]) / (xs[1] - xs[0])
		return ys[0] + slope*(x-xs[0])
	}
	if x >= xs[n-1] {
		if extrapolateConstant {
			return ys[n-1]
		}
		slope := (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])
		return ys[n-1] + slope*(x-xs[n-1])
	}
	i := sort.Search(n, func(i int) bool { return xs[i] >= x })
	if xs[i] == x {
		return ys[i]
	}
	lo, hi := i-1, i
	frac := (x - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + frac*(ys[hi]-ys[lo])
}
