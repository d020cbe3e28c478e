package manipulate

import (
	"testing"

	"github.com/partialmodel/rbeas/partial"
	"github.com/stretchr/testify/require"
)

func flat(label int, freq, amp float64, times ...float64) *partial.Partial {
	p := partial.New(label)
	for _, t := range times {
		_ = p.InsertBreakpoint(t, partial.Breakpoint{Frequency: freq, Amplitude: amp})
	}
	return p
}

func TestDilatorAnchorsAtZeroAndStretchesLinearly(t *testing.T) {
	d, err := NewDilator([]float64{1}, []float64{2})
	require.NoError(t, err)

	p := flat(1, 100, 0.5, 0, 1)
	require.NoError(t, d.Dilate(partial.List{p}))

	require.InDelta(t, 0, p.StartTime(), 1e-9)
	require.InDelta(t, 2, p.EndTime(), 1e-9)
	bp := p.ParamsAt(1) // halfway through warped span
	require.InDelta(t, 100, bp.Frequency, 1e-9, "frequency is untouched by time warp")
}

func TestResamplerDenseResample(t *testing.T) {
	p := flat(1, 100, 0.1, 0.45)
	_ = p.SetBreakpoint(1.45, partial.Breakpoint{Frequency: 200, Amplitude: 0.1})

	r, err := NewResampler(0.2)
	require.NoError(t, err)
	r.PhaseCorrect = false

	require.NoError(t, r.Resample(p))

	require.Equal(t, 1, p.Label())
	require.Equal(t, 6, p.Len())
	require.InDelta(t, 0.4, p.StartTime(), 1e-9)
	require.InDelta(t, 1.4, p.EndTime(), 1e-9)
}

func TestCropperMatchesFiveScenarioReference(t *testing.T) {
	p1 := flat(1, 100, 0.1, 0.5, 1.5)
	p2 := flat(2, 200, 0.1, 0.5, 0.75)
	p3 := flat(3, 300, 0.1, 1.5, 3.0)
	p4 := flat(4, 400, 0.1, 0.5, 3.0)
	p5 := flat(5, 500, 0.1, 3.0, 5.5)

	c, err := NewCropper(1, 2)
	require.NoError(t, err)
	for _, p := range []*partial.Partial{p1, p2, p3, p4, p5} {
		require.NoError(t, c.Crop(p))
	}

	require.Equal(t, 1, p1.Label())
	require.Equal(t, 2, p1.Len())
	require.InDelta(t, 1, p1.StartTime(), 1e-9)

	require.Equal(t, 2, p2.Label())
	require.Equal(t, 0, p2.Len())

	require.Equal(t, 3, p3.Label())
	require.Equal(t, 2, p3.Len())
	require.InDelta(t, 2, p3.EndTime(), 1e-9)

	require.Equal(t, 4, p4.Label())
	require.Equal(t, 2, p4.Len())
	require.InDelta(t, 1, p4.StartTime(), 1e-9)
	require.InDelta(t, 2, p4.EndTime(), 1e-9)

	require.Equal(t, 5, p5.Label())
	require.Equal(t, 0, p5.Len())
}

func TestScaleAndShiftHelpers(t *testing.T) {
	p := flat(1, 100, 0.5, 0, 1)
	list := partial.List{p}

	require.NoError(t, ScaleFrequency(list, 2))
	require.InDelta(t, 200, p.At(0).BP.Frequency, 1e-9)

	require.NoError(t, ScaleAmplitude(list, 0.5))
	require.InDelta(t, 0.25, p.At(0).BP.Amplitude, 1e-9)

	require.NoError(t, ShiftTime(list, 10))
	require.InDelta(t, 10, p.StartTime(), 1e-9)

	require.NoError(t, ShiftPitch(list, 12))
	require.InDelta(t, 400, p.At(0).BP.Frequency, 1e-6, "one octave up doubles frequency")

	start, end, ok := TimeSpan(list)
	require.True(t, ok)
	require.InDelta(t, 10, start, 1e-9)
	require.InDelta(t, 11, end, 1e-9)
}
