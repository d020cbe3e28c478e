// Package window builds the Kaiser-family analysis window the
// Analyzer needs, along with its two reassignment-specific companions:
// the time-ramped window (t*W) and the derivative window (dW/dt). Beta
// is derived from a sidelobe attenuation target and length from a
// main-lobe width target, rather than taking beta/length directly, so
// an Analyzer config can be stated in frequency-domain terms.
package window

import "math"

// Kaiser is a Kaiser-family analysis window sized and shaped from the
// main-lobe width and sidelobe attenuation the Analyzer configuration
// specifies, rather than from a raw window length and beta.
type Kaiser struct {
	length int
	beta   float64
	w      []float64 // window coefficients
	tw     []float64 // t * w, t in seconds relative to window center
	dw     []float64 // dW/dt, in 1/seconds
}

// BetaFromSidelobeLevel derives the Kaiser shape parameter from a
// sidelobe attenuation target in dB, using the standard Kaiser (1980)
// empirical formula.
func BetaFromSidelobeLevel(sidelobeDB float64) float64 {
	a := sidelobeDB
	switch {
	case a > 50:
		return 0.1102 * (a - 8.7)
	case a >= 21:
		return 0.5842*math.Pow(a-21, 0.4) + 0.07886*(a-21)
	default:
		return 0
	}
}

// LengthFromWidth derives an odd window length (samples) whose
// Kaiser main lobe (−3 dB full width) approximates widthHz at the
// given sample rate, using the standard Kaiser bandwidth-time
// relation with the window's beta-derived shape factor.
func LengthFromWidth(widthHz float64, sampleRate float64, beta float64) int {
	if widthHz <= 0 {
		widthHz = 1
	}
	// Kaiser's empirical relation: width (in bins) * length ~= D,
	// with D depending on beta (approaches the Dolph-Chebyshev ideal
	// as beta grows). We use the conservative factor from Kaiser's
	// original paper, good to a few percent for beta in [0, 20].
	d := (2.285*(math.Abs(beta)+1) + 1) / (2 * math.Pi)
	n := int(math.Ceil(d * sampleRate / widthHz))
	if n%2 == 0 {
		n++
	}
	if n < 3 {
		n = 3
	}
	return n
}

// New builds a Kaiser window of the given odd length and shape beta,
// along with its time-ramped and derivative companions. Samples are
// indexed symmetrically about the window center: index i corresponds
// to time (i - (length-1)/2) / sampleRate seconds.
func New(length int, beta float64, sampleRate float64) *Kaiser {
	k := &Kaiser{length: length, beta: beta}
	k.generate(sampleRate)
	return k
}

func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	for i := 1; i < 64; i++ {
		term *= (x / (2.0 * float64(i))) * (x / (2.0 * float64(i)))
		sum += term
		if term < 1e-14 {
			break
		}
	}
	return sum
}

func (k *Kaiser) generate(sampleRate float64) {
	n := k.length
	k.w = make([]float64, n)
	k.tw = make([]float64, n)
	k.dw = make([]float64, n)

	denom := float64(n - 1)
	i0Beta := besselI0(k.beta)
	center := denom / 2

	for i := 0; i < n; i++ {
		arg := 2.0*float64(i)/denom - 1.0
		root := 1 - arg*arg
		if root < 0 {
			root = 0
		}
		w := besselI0(k.beta*math.Sqrt(root)) / i0Beta
		k.w[i] = w

		t := (float64(i) - center) / sampleRate
		k.tw[i] = t * w

		// d/dt of the Kaiser window. arg is linear in t (arg = K*t for
		// constant K = 2*sampleRate/denom), so d(arg)/dt is the
		// constant K; only d(root)/d(arg) = -2*arg depends on arg.
		if root > 0 {
			dArgDt := 2 * sampleRate / denom // constant d(arg)/dt
			dRootDArg := -2 * arg
			dw := besselI0Deriv(k.beta*math.Sqrt(root)) * k.beta *
				dRootDArg / (2 * math.Sqrt(root)) * dArgDt / i0Beta
			k.dw[i] = dw
		} else {
			k.dw[i] = 0
		}
	}
}

// besselI0Deriv is I0'(x) = I1(x), approximated by differentiating
// the same series term-by-term (I1 is the first-order modified
// Bessel function).
func besselI0Deriv(x float64) float64 {
	sum := 0.0
	term := 0.5 * x
	for i := 1; i < 64; i++ {
		sum += term
		term *= (x / 2) * (x / 2) / (float64(i) * float64(i+1))
		if term < 1e-14 {
			break
		}
	}
	return sum
}

// Coefficients returns a copy of the plain window W.
func (k *Kaiser) Coefficients() []float64 { return append([]float64(nil), k.w...) }

// TimeRamped returns a copy of t*W, t in seconds relative to center.
func (k *Kaiser) TimeRamped() []float64 { return append([]float64(nil), k.tw...) }

// Derivative returns a copy of dW/dt, in 1/seconds.
func (k *Kaiser) Derivative() []float64 { return append([]float64(nil), k.dw...) }

// Len returns the window length in samples.
func (k *Kaiser) Len() int { return k.length }

// Beta returns the Kaiser shape parameter.
func (k *Kaiser) Beta() float64 { return k.beta }
