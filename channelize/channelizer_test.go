package channelize

import (
	"testing"

	"github.com/partialmodel/rbeas/envelope"
	"github.com/partialmodel/rbeas/partial"
	"github.com/stretchr/testify/require"
)

func onePoint(label int, t, freq, amp float64) *partial.Partial {
	p := partial.New(label)
	_ = p.InsertBreakpoint(t, partial.Breakpoint{Frequency: freq, Amplitude: amp})
	return p
}

func TestChannelizeLabelsNearestHarmonic(t *testing.T) {
	ref := envelope.NewConstant(100)
	c := New(ref)

	partials := partial.List{
		onePoint(0, 0, 100, 1),
		onePoint(0, 0, 305, 1),
		onePoint(0, 0, 40, 1),
	}

	c.Channelize(partials)

	require.Equal(t, 1, partials[0].Label())
	require.Equal(t, 3, partials[1].Label())
	require.Equal(t, 0, partials[2].Label(), "ratio rounds below 1 harmonic")
}

func TestChannelizeZeroReferenceLabelsZero(t *testing.T) {
	ref := envelope.NewConstant(0)
	c := New(ref)

	partials := partial.List{onePoint(0, 0, 440, 1)}
	c.Channelize(partials)

	require.Equal(t, 0, partials[0].Label())
}

func TestChannelizeEmptyPartialLabelsZero(t *testing.T) {
	ref := envelope.NewConstant(100)
	c := New(ref)

	p := partial.New(7)
	partials := partial.List{p}
	c.Channelize(partials)

	require.Equal(t, 0, p.Label())
}
