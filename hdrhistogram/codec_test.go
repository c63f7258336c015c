package hdrhistogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordedSample(t *testing.T, width counterWidth) *Histogram {
	t.Helper()
	h, err := NewWithCounterWidth(1, 1_000_000, 3, width)
	require.NoError(t, err)
	for v := int64(1); v <= 1000; v++ {
		require.NoError(t, h.RecordValue(v))
	}
	require.NoError(t, h.RecordValue(1)) // exercise a zero-run followed by a real count
	return h
}

// S6 / invariant 6: codec round-trip preserves every percentile.
func TestCodecRoundTripPreservesPercentiles(t *testing.T) {
	t.Parallel()

	h := recordedSample(t, CounterWidth64)
	payload, err := h.Encode()
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)

	assert.Equal(t, h.GetTotalCount(), decoded.GetTotalCount())
	for _, p := range []float64{0, 10, 50, 90, 99, 100} {
		assert.Equal(t, h.GetValueAtPercentile(p), decoded.GetValueAtPercentile(p))
	}

	reencoded, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, payload, reencoded)
}

func TestCodecRoundTripAcrossCounterWidths(t *testing.T) {
	t.Parallel()

	widths := []counterWidth{CounterWidth8, CounterWidth16, CounterWidth32, CounterWidth64, CounterWidthPacked}
	for _, w := range widths {
		w := w
		t.Run(widthName(w), func(t *testing.T) {
			t.Parallel()
			h, err := NewWithCounterWidth(1, 100_000, 2, w)
			require.NoError(t, err)
			for v := int64(1); v <= 50; v++ {
				require.NoError(t, h.RecordValue(v))
			}
			payload, err := h.Encode()
			require.NoError(t, err)
			decoded, err := Decode(payload)
			require.NoError(t, err)
			assert.Equal(t, h.GetTotalCount(), decoded.GetTotalCount())
			assert.Equal(t, h.GetValueAtPercentile(50), decoded.GetValueAtPercentile(50))
		})
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	t.Parallel()

	_, err := Decode(make([]byte, 10))
	require.Error(t, err)
}

func TestDecodeRejectsUnknownCookie(t *testing.T) {
	t.Parallel()

	h := recordedSample(t, CounterWidth64)
	payload, err := h.Encode()
	require.NoError(t, err)

	corrupt := append([]byte(nil), payload...)
	corrupt[3] ^= 0xff
	_, err = Decode(corrupt)
	require.Error(t, err)
}

func TestDecodeRejectsLengthMismatch(t *testing.T) {
	t.Parallel()

	h := recordedSample(t, CounterWidth64)
	payload, err := h.Encode()
	require.NoError(t, err)

	truncated := payload[:len(payload)-1]
	_, err = Decode(truncated)
	require.Error(t, err)
}

func TestDecodeIntoRequiresMatchingLayout(t *testing.T) {
	t.Parallel()

	h := recordedSample(t, CounterWidth64)
	payload, err := h.Encode()
	require.NoError(t, err)

	mismatched, err := NewWithCounterWidth(2, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)
	err = DecodeInto(mismatched, payload)
	require.Error(t, err)
}

func TestDecodeIntoRepopulatesExistingHistogram(t *testing.T) {
	t.Parallel()

	h := recordedSample(t, CounterWidth64)
	payload, err := h.Encode()
	require.NoError(t, err)

	target, err := NewWithCounterWidth(1, 1_000_000, 3, CounterWidth64)
	require.NoError(t, err)
	require.NoError(t, target.RecordValue(999_999)) // stale data, must be cleared

	require.NoError(t, DecodeInto(target, payload))
	assert.Equal(t, h.GetTotalCount(), target.GetTotalCount())
	assert.Equal(t, h.GetValueAtPercentile(50), target.GetValueAtPercentile(50))
}
