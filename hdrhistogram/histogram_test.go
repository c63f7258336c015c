package hdrhistogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	h, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.LowestDiscernibleValue())
	assert.Equal(t, int64(2), h.HighestTrackableValue())
	assert.Equal(t, 3, h.SignificantDigits())
	assert.True(t, h.autoResize)
	assert.Equal(t, CounterWidth64, h.width)
	_, isDense := h.counts.(*denseCounters64)
	assert.True(t, isDense, "default Config must back the histogram with a dense 64-bit store, not the packed map-backed one")
}

func TestNewExplicitHighestDisablesAutoResizeByDefault(t *testing.T) {
	t.Parallel()

	h, err := New(Config{HighestTrackableValue: null.IntFrom(1000)})
	require.NoError(t, err)
	assert.False(t, h.autoResize)
	assert.Equal(t, int64(1000), h.HighestTrackableValue())
}

func TestNewAutoResizeOverride(t *testing.T) {
	t.Parallel()

	h, err := New(Config{HighestTrackableValue: null.IntFrom(1000), AutoResize: null.BoolFrom(true)})
	require.NoError(t, err)
	assert.True(t, h.autoResize)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{LowestDiscernibleValue: -1})
	require.Error(t, err)
}

func TestIdentityIsUniquePerHistogram(t *testing.T) {
	t.Parallel()

	h1, err := New(Config{})
	require.NoError(t, err)
	h2, err := New(Config{})
	require.NoError(t, err)
	assert.NotEqual(t, h1.ID(), h2.ID())
}

func TestResetClearsStateButKeepsConfiguration(t *testing.T) {
	t.Parallel()

	h, err := NewWithCounterWidth(1, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)
	require.NoError(t, h.RecordValue(100))
	require.NoError(t, h.RecordValue(200))

	h.Reset()
	assert.Equal(t, int64(0), h.GetTotalCount())
	assert.Equal(t, int64(0), h.GetMax())
	assert.Equal(t, int64(0), h.GetMin())
	assert.Equal(t, int64(1_000_000), h.HighestTrackableValue())
}

func TestCopyIsIndependent(t *testing.T) {
	t.Parallel()

	h, err := NewWithCounterWidth(1, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)
	require.NoError(t, h.RecordValue(500))

	clone := h.Copy()
	require.NoError(t, clone.RecordValue(500))

	assert.Equal(t, int64(1), h.GetTotalCount())
	assert.Equal(t, int64(2), clone.GetTotalCount())
	assert.NotEqual(t, h.ID(), clone.ID())
}

func TestEmptyHistogramQueriesReturnZero(t *testing.T) {
	t.Parallel()

	h, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), h.GetValueAtPercentile(50))
	assert.Equal(t, 0.0, h.GetMean())
	assert.Equal(t, 0.0, h.GetStdDeviation())
	assert.Equal(t, int64(0), h.GetMin())
	assert.Equal(t, int64(0), h.GetMax())
}
