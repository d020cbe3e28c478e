package spectral

import (
	"math"
	"testing"

	"github.com/partialmodel/rbeas/window"
	"github.com/stretchr/testify/require"
)

func TestReassignedSpectrumPureToneNearExactFrequency(t *testing.T) {
	const sampleRate = 44100.0
	const freq = 1000.0

	beta := window.BetaFromSidelobeLevel(80)
	n := window.LengthFromWidth(200, sampleRate, beta)
	k := window.New(n, beta, sampleRate)

	w := k.Coefficients()
	tw := k.TimeRamped()
	dw := k.Derivative()

	signal := make([]float64, n)
	windowed := make([]float64, n)
	timeRamped := make([]float64, n)
	derivative := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i-n/2) / sampleRate
		signal[i] = math.Cos(2 * math.Pi * freq * t)
		windowed[i] = signal[i] * w[i]
		timeRamped[i] = signal[i] * tw[i]
		derivative[i] = signal[i] * dw[i]
	}

	rs := NewReassignedSpectrum(sampleRate)
	bins := rs.Compute(windowed, timeRamped, derivative, 0)

	binIdx := int(math.Round(freq * float64(n) / sampleRate))
	best := bins[binIdx]
	require.True(t, best.Finite)
	require.InDelta(t, freq, best.ReassignedFreqHz, 5.0, "reassigned frequency should be near the tone frequency")
	require.InDelta(t, 0.0, best.ReassignedTime, 0.01, "reassigned time should be near frame center for a stationary tone")
}
