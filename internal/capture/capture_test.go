package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-slm/internal/testutil"
)

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"loudest": ModeLoudest,
		"AUTO":    ModeLoudest,
		"":        ModeLoudest,
		"average": ModeAverage,
		" avg ":   ModeAverage,
		"first":   ModeFirst,
		"left":    ModeFirst,
	}

	for in, want := range tests {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("right")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "loudest", ModeLoudest.String())
	assert.Equal(t, "average", ModeAverage.String())
	assert.Equal(t, "first", ModeFirst.String())
	assert.Equal(t, "Mode(9)", Mode(9).String())
}

func TestSelect(t *testing.T) {
	quiet := testutil.DeterministicSine(1000, 48000, 0.1, 480)
	loud := testutil.DeterministicSine(1000, 48000, 0.5, 480)
	frames := testutil.Interleave(quiet, loud)

	got, selected, err := Select(frames, 2, ModeLoudest)
	require.NoError(t, err)
	assert.Equal(t, 1, selected)
	assert.Equal(t, loud, got)

	got, selected, err = Select(frames, 2, ModeFirst)
	require.NoError(t, err)
	assert.Equal(t, 0, selected)
	assert.Equal(t, quiet, got)

	got, selected, err = Select(frames, 2, ModeAverage)
	require.NoError(t, err)
	assert.Equal(t, -1, selected)
	testutil.RequireSliceNearlyEqual(t, got, testutil.DeterministicSine(1000, 48000, 0.3, 480), 1e-12)
}

func TestSelectMono(t *testing.T) {
	in := []float64{0.1, -0.2, 0.3}

	got, selected, err := Select(in, 1, ModeAverage)
	require.NoError(t, err)
	assert.Equal(t, 0, selected)
	assert.Equal(t, in, got)

	got[0] = 9
	assert.InDelta(t, 0.1, in[0], 0, "Select must copy")
}

func TestSelectLoudestTieKeepsFirst(t *testing.T) {
	_, selected, err := Select([]float64{0.5, -0.5, 0.5, -0.5}, 2, ModeLoudest)
	require.NoError(t, err)
	assert.Equal(t, 0, selected)
}

func TestSelectErrors(t *testing.T) {
	_, _, err := Select([]float64{1, 2, 3}, 2, ModeFirst)
	require.ErrorIs(t, err, ErrInvalidChannels)

	_, _, err = Select([]float64{1, 2}, 0, ModeFirst)
	require.ErrorIs(t, err, ErrInvalidChannels)

	_, _, err = Select([]float64{1, 2}, 2, Mode(7))
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestRecordingRawStats(t *testing.T) {
	rec := Recording{}
	rec.Buffer.Samples = testutil.DC(-0.25, 100)

	assert.InDelta(t, 0.25, rec.RawRMS(), 1e-12)
	assert.InDelta(t, 0.25, rec.RawPeak(), 1e-12)
}
