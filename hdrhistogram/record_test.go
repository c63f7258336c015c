package hdrhistogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func TestRecordValueRejectsNegativeAndZeroCount(t *testing.T) {
	t.Parallel()

	h, err := NewWithCounterWidth(1, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)

	require.Error(t, h.RecordValue(-1))
	require.Error(t, h.RecordValueWithCount(10, 0))
}

func TestRecordValueOutOfRangeFailsWithoutAutoResize(t *testing.T) {
	t.Parallel()

	h, err := New(Config{
		LowestDiscernibleValue: 1,
		HighestTrackableValue:  null.IntFrom(1000),
		AutoResize:             null.BoolFrom(false),
	})
	require.NoError(t, err)

	err = h.RecordValue(1_000_000)
	require.Error(t, err)
	assert.Equal(t, int64(0), h.GetTotalCount())
}

func TestRecordValueAutoResizeGrowsAndTracksMax(t *testing.T) {
	t.Parallel()

	h, err := New(Config{
		LowestDiscernibleValue:         1,
		HighestTrackableValue:          null.IntFrom(1000),
		NumberOfSignificantValueDigits: 2,
		AutoResize:                     null.BoolFrom(true),
	})
	require.NoError(t, err)

	require.NoError(t, h.RecordValue(1_000_000))
	assert.Equal(t, h.HighestEquivalentValue(1_000_000), h.GetMax())
	assert.Equal(t, int64(1), h.GetTotalCount())
}

func TestResizeIsANoOpWhenAlreadyCovered(t *testing.T) {
	t.Parallel()

	h, err := NewWithCounterWidth(1, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)
	before := h.HighestTrackableValue()
	h.Resize(1000)
	assert.Equal(t, before, h.HighestTrackableValue())
}

func TestResizePreservesRecordedCounts(t *testing.T) {
	t.Parallel()

	h, err := NewWithCounterWidth(1, 1000, 3, CounterWidth64)
	require.NoError(t, err)
	require.NoError(t, h.RecordValue(500))

	h.Resize(1_000_000)
	assert.Equal(t, int64(1), h.GetTotalCount())
	assert.Equal(t, h.HighestEquivalentValue(500), h.GetValueAtPercentile(100))
}

// S4 from the testable-properties table: recording 1000 with an expected
// interval of 100 should synthesize the nine missing samples at
// 100,200,...,900 in addition to the real sample at 1000.
func TestRecordValueWithExpectedIntervalSynthesizesMissingSamples(t *testing.T) {
	t.Parallel()

	h, err := NewWithCounterWidth(1, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)
	require.NoError(t, h.RecordValueWithExpectedInterval(1000, 100))

	assert.Equal(t, int64(10), h.GetTotalCount())

	it := h.newRecordedValuesIterator()
	var values []int64
	for it.next() {
		values = append(values, it.valueIteratedTo)
	}
	assert.Len(t, values, 10)
}

func TestRecordValueWithExpectedIntervalNoCorrectionBelowInterval(t *testing.T) {
	t.Parallel()

	h, err := NewWithCounterWidth(1, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)
	require.NoError(t, h.RecordValueWithExpectedInterval(50, 100))
	assert.Equal(t, int64(1), h.GetTotalCount())
}

// Invariant 10: correcting at record time (RecordValueWithExpectedInterval)
// and correcting after the fact (plain record, then
// CopyCorrectedForCoordinatedOmission) must agree.
func TestCoordinatedOmissionCorrectionAgreesRecordTimeVsAfterTheFact(t *testing.T) {
	t.Parallel()

	atRecordTime, err := NewWithCounterWidth(1, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)
	require.NoError(t, atRecordTime.RecordValueWithExpectedInterval(1000, 100))

	raw, err := NewWithCounterWidth(1, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)
	require.NoError(t, raw.RecordValue(1000))
	afterTheFact, err := raw.CopyCorrectedForCoordinatedOmission(100)
	require.NoError(t, err)

	assert.Equal(t, atRecordTime.GetTotalCount(), afterTheFact.GetTotalCount())
	for _, p := range []float64{0, 25, 50, 75, 99, 100} {
		assert.Equal(t, atRecordTime.GetValueAtPercentile(p), afterTheFact.GetValueAtPercentile(p))
	}
}
