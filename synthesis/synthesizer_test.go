package synthesis

import (
	"math"
	"testing"

	"github.com/partialmodel/rbeas/partial"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeEmptyListIsSilent(t *testing.T) {
	s, err := New(Config{SampleRate: 44100})
	require.NoError(t, err)

	out := s.Synthesize(partial.List{}, 0.1)
	require.Len(t, out, 4410)
	for _, v := range out {
		require.Zero(t, v)
	}
}

func TestSynthesizeIsDeterministicAcrossCalls(t *testing.T) {
	s, err := New(Config{SampleRate: 8000})
	require.NoError(t, err)

	p := partial.New(1)
	_ = p.InsertBreakpoint(0, partial.Breakpoint{Frequency: 440, Amplitude: 0.5, Bandwidth: 0.3})
	_ = p.InsertBreakpoint(0.1, partial.Breakpoint{Frequency: 440, Amplitude: 0.5, Bandwidth: 0.3})

	out1 := s.Synthesize(partial.List{p}, 0.1)
	out2 := s.Synthesize(partial.List{p}, 0.1)
	require.Equal(t, out1, out2)
}

func TestSynthesizeStationaryToneMatchesExpectedAmplitude(t *testing.T) {
	s, err := New(Config{SampleRate: 44100})
	require.NoError(t, err)

	p := partial.New(1)
	_ = p.InsertBreakpoint(0, partial.Breakpoint{Frequency: 1000, Amplitude: 0.7})
	_ = p.InsertBreakpoint(0.05, partial.Breakpoint{Frequency: 1000, Amplitude: 0.7})

	out := s.Synthesize(partial.List{p}, 0.05)

	peak := 0.0
	for _, v := range out {
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
	}
	require.InDelta(t, 0.7, peak, 0.01)
}

func TestSynthesizeRejectsNonPositiveSampleRate(t *testing.T) {
	_, err := New(Config{SampleRate: 0})
	require.Error(t, err)
}

func TestSynthesizeFadesInBeforePartialOnset(t *testing.T) {
	sr := 44100.0
	s, err := New(Config{SampleRate: sr, FadeTime: 0.01})
	require.NoError(t, err)

	p := partial.New(1)
	_ = p.InsertBreakpoint(0.5, partial.Breakpoint{Frequency: 440, Amplitude: 1.0})
	_ = p.InsertBreakpoint(0.6, partial.Breakpoint{Frequency: 440, Amplitude: 1.0})

	out := s.Synthesize(partial.List{p}, 0.7)

	// Nothing before the fade-in margin (start - fade_time = 0.49s).
	require.Zero(t, out[int(0.489*sr)])

	// Peak magnitude grows monotonically moving through the margin
	// toward the onset, since cos(phase) cycles many times over a
	// 10ms/440Hz margin but the amplitude envelope ramps linearly —
	// windowed peaks isolate the envelope from the carrier's zero
	// crossings.
	peakNear := func(center int, halfWidth int) float64 {
		peak := 0.0
		for i := center - halfWidth; i <= center+halfWidth; i++ {
			if math.Abs(out[i]) > peak {
				peak = math.Abs(out[i])
			}
		}
		return peak
	}
	nearStartOfMargin := peakNear(int(0.492*sr), 20)
	nearOnset := peakNear(int(0.499*sr), 20)
	require.Greater(t, nearOnset, nearStartOfMargin)
}
