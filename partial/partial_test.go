package partial

import (
	"math"
	"testing"

	"github.com/partialmodel/rbeas/rerror"
	"github.com/stretchr/testify/require"
)

func TestInsertBreakpointKeepsStrictOrder(t *testing.T) {
	p := New(0)
	require.NoError(t, p.InsertBreakpoint(1.0, Breakpoint{Frequency: 440, Amplitude: 0.5}))
	require.NoError(t, p.InsertBreakpoint(0.5, Breakpoint{Frequency: 440, Amplitude: 0.5}))
	require.NoError(t, p.InsertBreakpoint(2.0, Breakpoint{Frequency: 440, Amplitude: 0.5}))

	times := make([]float64, p.Len())
	for i := 0; i < p.Len(); i++ {
		times[i] = p.At(i).Time
	}
	require.Equal(t, []float64{0.5, 1.0, 2.0}, times)
}

func TestInsertBreakpointDuplicateTimeRejected(t *testing.T) {
	p := New(0)
	require.NoError(t, p.InsertBreakpoint(1.0, Breakpoint{Frequency: 100}))
	err := p.InsertBreakpoint(1.0, Breakpoint{Frequency: 200})
	require.Error(t, err)
	require.True(t, rerror.Is(err, rerror.InvalidPartial))
}

func TestInsertBreakpointRejectsInvalidParams(t *testing.T) {
	p := New(0)
	require.Error(t, p.InsertBreakpoint(0, Breakpoint{Frequency: -1}))
	require.Error(t, p.InsertBreakpoint(0, Breakpoint{Amplitude: -1}))
	require.Error(t, p.InsertBreakpoint(0, Breakpoint{Bandwidth: 1.5}))
}

func TestParamsAtEmptyPartial(t *testing.T) {
	p := New(0)
	bp := p.ParamsAt(1.0)
	require.Equal(t, Breakpoint{}, bp)
}

func TestParamsAtFadeInBeforeStart(t *testing.T) {
	p := New(0)
	require.NoError(t, p.InsertBreakpoint(1.0, Breakpoint{Frequency: 100, Amplitude: 0.8, Phase: 0}))

	bp := p.ParamsAt(0.5)
	require.Equal(t, 0.0, bp.Amplitude, "amplitude must fade to zero before start")
	require.Equal(t, 100.0, bp.Frequency)
	// Phase back-integrated: phase(t) = phase0 + omega*(t - t0)
	wantPhase := 2 * math.Pi * 100 * (0.5 - 1.0)
	require.InDelta(t, wantPhase, bp.Phase, 1e-9)
}

func TestParamsAtFadeOutAfterEnd(t *testing.T) {
	p := New(0)
	require.NoError(t, p.InsertBreakpoint(1.0, Breakpoint{Frequency: 200, Amplitude: 0.8, Phase: 1.0}))

	bp := p.ParamsAt(1.5)
	require.Equal(t, 0.0, bp.Amplitude)
	wantPhase := 1.0 + 2*math.Pi*200*(1.5-1.0)
	require.InDelta(t, wantPhase, bp.Phase, 1e-9)
}

func TestParamsAtLinearInterpolation(t *testing.T) {
	p := New(0)
	require.NoError(t, p.InsertBreakpoint(0.0, Breakpoint{Frequency: 100, Amplitude: 0, Bandwidth: 0}))
	require.NoError(t, p.InsertBreakpoint(1.0, Breakpoint{Frequency: 200, Amplitude: 1, Bandwidth: 0.5}))

	bp := p.ParamsAt(0.5)
	require.InDelta(t, 150.0, bp.Frequency, 1e-9)
	require.InDelta(t, 0.5, bp.Amplitude, 1e-9)
	require.InDelta(t, 0.25, bp.Bandwidth, 1e-9)
}

func TestParamsAtExactBreakpoint(t *testing.T) {
	p := New(0)
	require.NoError(t, p.InsertBreakpoint(0.0, Breakpoint{Frequency: 100}))
	require.NoError(t, p.InsertBreakpoint(1.0, Breakpoint{Frequency: 200}))

	bp := p.ParamsAt(1.0)
	require.Equal(t, 200.0, bp.Frequency)
}

func TestSetEntriesRejectsNonIncreasing(t *testing.T) {
	p := New(0)
	err := p.SetEntries([]Entry{
		{Time: 1.0, BP: Breakpoint{Frequency: 100}},
		{Time: 0.5, BP: Breakpoint{Frequency: 100}},
	})
	require.Error(t, err)
}
