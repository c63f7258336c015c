package hdrhistogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterWidthPackedDoesNotCollideWithZeroValue(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, counterWidth(0), CounterWidthPacked)

	c := newCounterStore(counterWidth(0), 10)
	_, isDense := c.(*denseCounters64)
	assert.True(t, isDense, "the Config.CounterWidth zero value must produce a dense 64-bit store")
}

func TestCounterStoreBasics(t *testing.T) {
	t.Parallel()

	widths := []counterWidth{CounterWidth8, CounterWidth16, CounterWidth32, CounterWidth64, CounterWidthPacked}
	for _, w := range widths {
		w := w
		t.Run(widthName(w), func(t *testing.T) {
			t.Parallel()
			c := newCounterStore(w, 10)
			assert.Equal(t, 10, c.len())

			require.NoError(t, c.incrementAt(3))
			require.NoError(t, c.addAt(3, 4))
			assert.Equal(t, uint64(5), c.get(3))
			assert.Equal(t, uint64(0), c.get(0))

			grown := c.growTo(20)
			assert.Equal(t, 20, grown.len())
			assert.Equal(t, uint64(5), grown.get(3))

			grown.fillZero()
			assert.Equal(t, uint64(0), grown.get(3))

			grown.setAt(7, 42)
			assert.Equal(t, uint64(42), grown.get(7))
			grown.setAt(7, 0)
			assert.Equal(t, uint64(0), grown.get(7))
		})
	}
}

func widthName(w counterWidth) string {
	switch w {
	case CounterWidth8:
		return "dense8"
	case CounterWidth16:
		return "dense16"
	case CounterWidth32:
		return "dense32"
	case CounterWidth64:
		return "dense64"
	default:
		return "packed"
	}
}

func TestDenseCounterOverflow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		width   counterWidth
		ceiling uint64
	}{
		{CounterWidth8, 0xff},
		{CounterWidth16, 0xffff},
		{CounterWidth32, 0xffffffff},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(widthName(tc.width), func(t *testing.T) {
			t.Parallel()
			c := newCounterStore(tc.width, 1)
			require.NoError(t, c.addAt(0, tc.ceiling))
			err := c.addAt(0, 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "overflow")
		})
	}
}

func TestPackedCountersOmitsZeroEntries(t *testing.T) {
	t.Parallel()

	c := newPackedCounters(10)
	require.NoError(t, c.addAt(5, 3))
	assert.Len(t, c.counts, 1)

	c.setAt(5, 0)
	assert.Len(t, c.counts, 0)
}

func TestPackedCounterOverflow(t *testing.T) {
	t.Parallel()

	c := newPackedCounters(10)
	require.NoError(t, c.addAt(0, ^uint64(0)))
	err := c.addAt(0, 1)
	require.Error(t, err)
}
