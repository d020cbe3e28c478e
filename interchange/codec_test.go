package interchange

import (
	"testing"

	"github.com/partialmodel/rbeas/partial"
	"github.com/stretchr/testify/require"
)

func TestRoundTripIsByteExact(t *testing.T) {
	p1 := partial.New(1)
	_ = p1.InsertBreakpoint(0, partial.Breakpoint{Frequency: 220, Amplitude: 0.4, Bandwidth: 0.1, Phase: 0.2})
	_ = p1.InsertBreakpoint(0.5, partial.Breakpoint{Frequency: 225, Amplitude: 0.35, Bandwidth: 0.15, Phase: 3.1})

	p2 := partial.New(0)

	original := partial.List{p1, p2}

	data, err := Marshal(original)
	require.NoError(t, err)

	data2, err := Marshal(original)
	require.NoError(t, err)
	require.Equal(t, data, data2, "serialization is deterministic")

	roundTripped, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, roundTripped, 2)

	require.Equal(t, p1.Label(), roundTripped[0].Label())
	require.Equal(t, p1.Entries(), roundTripped[0].Entries())
	require.Equal(t, p2.Label(), roundTripped[1].Label())
	require.Equal(t, 0, roundTripped[1].Len())
}

func TestUnmarshalRejectsBadMagic(t *testing.T) {
	_, err := Unmarshal([]byte{1, 2, 3, 4})
	require.Error(t, err)
}

func TestUnmarshalEmptyListRoundTrips(t *testing.T) {
	data, err := Marshal(partial.List{})
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	require.Empty(t, out)
}
