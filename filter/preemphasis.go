package filter

// PreEmphasis is the one-zero filter H(z) = 1 - alpha*z^-1, applied
// ahead of analysis to flatten the natural spectral roll-off of
// recorded sound. Built on IIR as the degenerate case with a single
// zero and a denominator of 1.
type PreEmphasis struct {
	iir *IIR
}

// NewPreEmphasis builds a pre-emphasis filter with coefficient alpha,
// 0 < alpha < 1.
func NewPreEmphasis(alpha float64) (*PreEmphasis, error) {
	iir, err := New([]float64{1, -alpha}, []float64{1})
	if err != nil {
		return nil, err
	}
	return &PreEmphasis{iir: iir}, nil
}

// Apply filters a single sample.
func (p *PreEmphasis) Apply(x float64) float64 { return p.iir.Apply(x) }

// ApplyBuffer filters a buffer, returning a new slice.
func (p *PreEmphasis) ApplyBuffer(x []float64) []float64 { return p.iir.ApplyBuffer(x) }

// Reset clears internal state.
func (p *PreEmphasis) Reset() { p.iir.Reset() }
