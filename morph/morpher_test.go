package morph

import (
	"math"
	"testing"

	"github.com/partialmodel/rbeas/envelope"
	"github.com/partialmodel/rbeas/partial"
	"github.com/stretchr/testify/require"
)

func flatPartial(label int, freq, amp float64, times ...float64) *partial.Partial {
	p := partial.New(label)
	for _, t := range times {
		_ = p.InsertBreakpoint(t, partial.Breakpoint{Frequency: freq, Amplitude: amp})
	}
	return p
}

func TestMorphAtZeroEqualsSource1(t *testing.T) {
	src1 := partial.List{flatPartial(1, 200, 0.5, 0, 1)}
	src2 := partial.List{flatPartial(1, 400, 0.9, 0, 1)}

	m := New(envelope.NewConstant(0), envelope.NewConstant(0), envelope.NewConstant(0))
	out := m.Morph(src1, src2)

	require.Len(t, out, 1)
	bp := out[0].ParamsAt(0.5)
	require.InDelta(t, 200, bp.Frequency, 1e-6)
	require.InDelta(t, 0.5, bp.Amplitude, 1e-6)
}

func TestMorphAtOneEqualsSource2(t *testing.T) {
	src1 := partial.List{flatPartial(1, 200, 0.5, 0, 1)}
	src2 := partial.List{flatPartial(1, 400, 0.9, 0, 1)}

	m := New(envelope.NewConstant(1), envelope.NewConstant(1), envelope.NewConstant(1))
	out := m.Morph(src1, src2)

	require.Len(t, out, 1)
	bp := out[0].ParamsAt(0.5)
	require.InDelta(t, 400, bp.Frequency, 1e-6)
	require.InDelta(t, 0.9, bp.Amplitude, 1e-6)
}

func TestMorphUnpairedLabelFadesAgainstMorphAmp(t *testing.T) {
	src1 := partial.List{flatPartial(2, 300, 0.6, 0, 1)}
	src2 := partial.List{} // label 2 absent from src2

	m := New(envelope.NewConstant(0.25), envelope.NewConstant(0.25), envelope.NewConstant(0.25))
	out := m.Morph(src1, src2)

	require.Len(t, out, 1)
	bp := out[0].ParamsAt(0.5)
	require.InDelta(t, 300, bp.Frequency, 1e-6)
	require.InDelta(t, 0.6*0.75, bp.Amplitude, 1e-6)
}

func TestMorphAmplitudeBlendsLogarithmicallyByDefault(t *testing.T) {
	src1 := partial.List{flatPartial(1, 200, 0.2, 0, 1)}
	src2 := partial.List{flatPartial(1, 200, 0.8, 0, 1)}

	m := New(envelope.NewConstant(0.5), envelope.NewConstant(0.5), envelope.NewConstant(0.5))
	out := m.Morph(src1, src2)

	bp := out[0].ParamsAt(0.5)
	wantLog := math.Sqrt(0.2 * 0.8)
	require.InDelta(t, wantLog, bp.Amplitude, 1e-9)
	require.Greater(t, math.Abs(bp.Amplitude-0.5), 1e-9, "linear mean would be 0.5, distinct from the log mix")
}

func TestMorphLinearAmpOptsOutOfLogBlend(t *testing.T) {
	src1 := partial.List{flatPartial(1, 200, 0.2, 0, 1)}
	src2 := partial.List{flatPartial(1, 200, 0.8, 0, 1)}

	m := New(envelope.NewConstant(0.5), envelope.NewConstant(0.5), envelope.NewConstant(0.5))
	m.LinearAmp = true
	out := m.Morph(src1, src2)

	bp := out[0].ParamsAt(0.5)
	require.InDelta(t, 0.5, bp.Amplitude, 1e-9)
}

func TestMorphReferenceFreqOverridesHarmonicFrequency(t *testing.T) {
	src1 := partial.List{flatPartial(2, 300, 0.5, 0, 1)}
	src2 := partial.List{flatPartial(2, 305, 0.5, 0, 1)}

	m := New(envelope.NewConstant(0.5), envelope.NewConstant(0.5), envelope.NewConstant(0.5))
	m.ReferenceFreq = envelope.NewConstant(150)
	out := m.Morph(src1, src2)

	bp := out[0].ParamsAt(0.5)
	require.InDelta(t, 300, bp.Frequency, 1e-6, "label 2 at 150Hz reference")
}
