// Package filter implements the direct-form II transposed IIR filter
// used by the Analyzer for optional pre-emphasis, plus the PreEmphasis
// convenience wrapper built on it. Generalized to arbitrary filter order with direct-form II
// transposed state: a fixed-length ring of max(M,N) doubles, no
// per-sample allocation.
package filter

import "github.com/partialmodel/rbeas/rerror"

// IIR is a direct-form II transposed digital filter:
//
//	y[n] = (1/a0) * (sum_k b[k]*x[n-k] - sum_k a[k]*y[n-k]), a[0] normalized to 1
//
// State is a fixed-length ring of max(len(b), len(a)) doubles,
// maintained across calls to Apply.
type IIR struct {
	b     []float64
	a     []float64
	state []float64
}

// New builds an IIR filter from numerator coefficients b and
// denominator coefficients a. a[0] is normalized to 1 internally; b
// and a are copied.
func New(b, a []float64) (*IIR, error) {
	const op = "filter.New"
	if len(a) == 0 || a[0] == 0 {
		return nil, rerror.New(rerror.InvalidArgument, op, "denominator must have a non-zero leading coefficient", nil)
	}
	bb := append([]float64(nil), b...)
	aa := append([]float64(nil), a...)
	if aa[0] != 1 {
		norm := aa[0]
		for i := range aa {
			aa[i] /= norm
		}
		for i := range bb {
			bb[i] /= norm
		}
	}
	n := len(bb)
	if len(aa) > n {
		n = len(aa)
	}
	return &IIR{b: bb, a: aa, state: make([]float64, n)}, nil
}

// Apply filters a single sample, updating internal state, and returns
// the output sample.
func (f *IIR) Apply(x float64) float64 {
	y := f.state[0] + f.coeffB(0)*x

	n := len(f.state)
	for i := 0; i < n-1; i++ {
		f.state[i] = f.state[i+1] + f.coeffB(i+1)*x - f.coeffA(i+1)*y
	}
	f.state[n-1] = f.coeffB(n)*x - f.coeffA(n)*y
	return y
}

func (f *IIR) coeffB(i int) float64 {
	if i < len(f.b) {
		return f.b[i]
	}
	return 0
}

func (f *IIR) coeffA(i int) float64 {
	if i < len(f.a) {
		return f.a[i]
	}
	return 0
}

// ApplyBuffer filters an entire buffer in place order, returning a new
// slice (input is left untouched).
func (f *IIR) ApplyBuffer(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = f.Apply(v)
	}
	return out
}

// Reset clears the filter's internal state, for reuse across
// discontinuous audio segments.
func (f *IIR) Reset() {
	for i := range f.state {
		f.state[i] = 0
	}
}

// Order returns max(len(b)-1, len(a)-1).
func (f *IIR) Order() int {
	n := len(f.b) - 1
	if len(f.a)-1 > n {
		n = len(f.a) - 1
	}
	if n < 0 {
		n = 0
	}
	return n
}
