package fundamental

import (
	"math"
	"testing"

	"github.com/partialmodel/rbeas/partial"
	"github.com/stretchr/testify/require"
)

func defaultConfig() Config {
	return Config{FMin: 50, FMax: 500, Precision: 1, AmpRangeDB: 30, AmpFloorDB: -60}
}

func TestRankCandidatesPicksHarmonicSeriesFundamental(t *testing.T) {
	peaks := []Peak{
		{Freq: 200, Amp: 1.0},
		{Freq: 400, Amp: 0.6},
		{Freq: 600, Amp: 0.4},
	}
	f0, ok := RankCandidates(peaks, defaultConfig())
	require.True(t, ok)
	require.InDelta(t, 200, f0, 1.0)
}

func TestRankCandidatesNoPeaksFails(t *testing.T) {
	_, ok := RankCandidates(nil, defaultConfig())
	require.False(t, ok)
}

func TestRankCandidatesAllZeroAmplitudeFails(t *testing.T) {
	peaks := []Peak{{Freq: 200, Amp: 0}, {Freq: 400, Amp: 0}}
	_, ok := RankCandidates(peaks, defaultConfig())
	require.False(t, ok)
}

func TestRankCandidatesRespectsFreqCeiling(t *testing.T) {
	cfg := defaultConfig()
	cfg.FreqCeilingHz = 250
	// Only the fundamental itself is visible; a spurious peak far above
	// the ceiling must not perturb the ranking.
	peaks := []Peak{{Freq: 150, Amp: 1.0}, {Freq: 9999, Amp: 1.0}}
	f0, ok := RankCandidates(peaks, cfg)
	require.True(t, ok)
	require.InDelta(t, 150, f0, 1.0)
}

func TestConfigValidateRejectsBadBracket(t *testing.T) {
	cfg := Config{FMin: 100, FMax: 50, Precision: 1}
	require.Error(t, cfg.Validate("test"))

	cfg = Config{FMin: -1, FMax: 500, Precision: 1}
	require.Error(t, cfg.Validate("test"))
}

func TestConfigValidateRejectsNonPositivePrecision(t *testing.T) {
	cfg := Config{FMin: 50, FMax: 500, Precision: 0}
	require.Error(t, cfg.Validate("test"))
}

func TestConfigValidateAcceptsSaneConfig(t *testing.T) {
	require.NoError(t, defaultConfig().Validate("test"))
}

func buildHarmonicPartials(t *testing.T, f0 float64, nHarmonics int, amp float64) partial.List {
	t.Helper()
	var list partial.List
	for h := 1; h <= nHarmonics; h++ {
		p := partial.New(0)
		require.NoError(t, p.InsertBreakpoint(0.0, partial.Breakpoint{
			Frequency: f0 * float64(h), Amplitude: amp / float64(h),
		}))
		require.NoError(t, p.InsertBreakpoint(1.0, partial.Breakpoint{
			Frequency: f0 * float64(h), Amplitude: amp / float64(h),
		}))
		list = append(list, p)
	}
	return list
}

func TestEstimateFromPartialsFindsFundamental(t *testing.T) {
	list := buildHarmonicPartials(t, 220, 4, 1.0)
	f0, ok := EstimateFromPartials(list, 0.5, defaultConfig())
	require.True(t, ok)
	require.InDelta(t, 220, f0, 1.0)
}

func TestEstimateFromPartialsOutsideSpanFails(t *testing.T) {
	list := buildHarmonicPartials(t, 220, 4, 1.0)
	_, ok := EstimateFromPartials(list, 5.0, defaultConfig())
	require.False(t, ok)
}

func TestEnvelopeFromPartialsOmitsFailedGridPoints(t *testing.T) {
	list := buildHarmonicPartials(t, 220, 4, 1.0)
	env := EnvelopeFromPartials(list, []float64{0.5, 5.0, 0.6}, defaultConfig())
	require.Equal(t, 2, env.Len())
}

func TestEstimateFromSamplesFindsFundamental(t *testing.T) {
	const sr = 8000.0
	n := 4096
	samples := make([]float64, n)
	for i := range samples {
		tSec := float64(i) / sr
		samples[i] = math.Sin(2*math.Pi*300*tSec) + 0.5*math.Sin(2*math.Pi*600*tSec)
	}
	cfg := Config{FMin: 100, FMax: 1000, Precision: 1, AmpRangeDB: 40, AmpFloorDB: -80}
	f0, ok := EstimateFromSamples(samples, sr, 0.25, 2048, cfg)
	require.True(t, ok)
	require.InDelta(t, 300, f0, 10.0)
}
