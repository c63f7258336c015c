package hdrhistogram

// counterStore abstracts over the counter array backing a Histogram: a
// dense array of a fixed bit width, or a sparse "packed" store that
// materializes counters on demand. A Histogram holds exactly one variant
// and never inspects which one it has.
type counterStore interface {
	get(i int) uint64
	incrementAt(i int) error
	addAt(i int, delta uint64) error
	// setAt overwrites a counter directly, bypassing overflow checks. It
	// is used by Subtract, whose caller has already proven the result is
	// non-negative and within range, and by decodeCounts to load decoded
	// counts into a freshly zeroed store.
	setAt(i int, v uint64)
	len() int
	fillZero()
	// growTo returns a new store of at least newLen counters, of the same
	// variant, with this store's values copied at identical indices.
	growTo(newLen int) counterStore
}

// counterWidth identifies which counterStore variant backs a Histogram. It
// has no effect on index arithmetic; only on the per-counter ceiling and
// memory footprint.
type counterWidth int

const (
	// CounterWidth8 backs a histogram with 8-bit dense counters (ceiling 255).
	CounterWidth8 counterWidth = 8
	// CounterWidth16 backs a histogram with 16-bit dense counters.
	CounterWidth16 counterWidth = 16
	// CounterWidth32 backs a histogram with 32-bit dense counters.
	CounterWidth32 counterWidth = 32
	// CounterWidth64 backs a histogram with 64-bit dense counters. This is
	// the default and never overflows in any realistic setting.
	CounterWidth64 counterWidth = 64
	// CounterWidthPacked backs a histogram with a sparse store that
	// allocates only for non-zero counters, trading CPU for memory. Its
	// value is deliberately non-zero so it never collides with
	// Config.CounterWidth's zero value, which must default to
	// CounterWidth64, not to the packed store.
	CounterWidthPacked counterWidth = -1
)

// newCounterStore allocates the counterStore variant for width. An
// unrecognized width (including the Config.CounterWidth zero value)
// falls through to the dense 64-bit store, the documented default.
func newCounterStore(width counterWidth, length int) counterStore {
	switch width {
	case CounterWidth8:
		return &denseCounters8{counts: make([]uint8, length)}
	case CounterWidth16:
		return &denseCounters16{counts: make([]uint16, length)}
	case CounterWidth32:
		return &denseCounters32{counts: make([]uint32, length)}
	case CounterWidthPacked:
		return newPackedCounters(length)
	default:
		return &denseCounters64{counts: make([]uint64, length)}
	}
}

// --- dense counters ---------------------------------------------------

type denseCounters8 struct{ counts []uint8 }

func (c *denseCounters8) get(i int) uint64 { return uint64(c.counts[i]) }
func (c *denseCounters8) len() int         { return len(c.counts) }
func (c *denseCounters8) fillZero() {
	for i := range c.counts {
		c.counts[i] = 0
	}
}
func (c *denseCounters8) incrementAt(i int) error { return c.addAt(i, 1) }
func (c *denseCounters8) addAt(i int, delta uint64) error {
	v := uint64(c.counts[i]) + delta
	if v > 0xff {
		return newCounterOverflowError(i, v, 8)
	}
	c.counts[i] = uint8(v)
	return nil
}
func (c *denseCounters8) setAt(i int, v uint64) { c.counts[i] = uint8(v) }
func (c *denseCounters8) growTo(newLen int) counterStore {
	grown := &denseCounters8{counts: make([]uint8, newLen)}
	copy(grown.counts, c.counts)
	return grown
}

type denseCounters16 struct{ counts []uint16 }

func (c *denseCounters16) get(i int) uint64 { return uint64(c.counts[i]) }
func (c *denseCounters16) len() int         { return len(c.counts) }
func (c *denseCounters16) fillZero() {
	for i := range c.counts {
		c.counts[i] = 0
	}
}
func (c *denseCounters16) incrementAt(i int) error { return c.addAt(i, 1) }
func (c *denseCounters16) addAt(i int, delta uint64) error {
	v := uint64(c.counts[i]) + delta
	if v > 0xffff {
		return newCounterOverflowError(i, v, 16)
	}
	c.counts[i] = uint16(v)
	return nil
}
func (c *denseCounters16) setAt(i int, v uint64) { c.counts[i] = uint16(v) }
func (c *denseCounters16) growTo(newLen int) counterStore {
	grown := &denseCounters16{counts: make([]uint16, newLen)}
	copy(grown.counts, c.counts)
	return grown
}

type denseCounters32 struct{ counts []uint32 }

func (c *denseCounters32) get(i int) uint64 { return uint64(c.counts[i]) }
func (c *denseCounters32) len() int         { return len(c.counts) }
func (c *denseCounters32) fillZero() {
	for i := range c.counts {
		c.counts[i] = 0
	}
}
func (c *denseCounters32) incrementAt(i int) error { return c.addAt(i, 1) }
func (c *denseCounters32) addAt(i int, delta uint64) error {
	v := uint64(c.counts[i]) + delta
	if v > 0xffffffff {
		return newCounterOverflowError(i, v, 32)
	}
	c.counts[i] = uint32(v)
	return nil
}
func (c *denseCounters32) setAt(i int, v uint64) { c.counts[i] = uint32(v) }
func (c *denseCounters32) growTo(newLen int) counterStore {
	grown := &denseCounters32{counts: make([]uint32, newLen)}
	copy(grown.counts, c.counts)
	return grown
}

type denseCounters64 struct{ counts []uint64 }

func (c *denseCounters64) get(i int) uint64 { return c.counts[i] }
func (c *denseCounters64) len() int         { return len(c.counts) }
func (c *denseCounters64) fillZero() {
	for i := range c.counts {
		c.counts[i] = 0
	}
}
func (c *denseCounters64) incrementAt(i int) error { return c.addAt(i, 1) }
func (c *denseCounters64) addAt(i int, delta uint64) error {
	// totalCount is 64-bit and the spec permits omitting the overflow
	// check at this width; a per-counter check is still cheap insurance
	// since wrap-around here would silently corrupt a query result.
	v := c.counts[i] + delta
	if v < c.counts[i] {
		return newCounterOverflowError(i, v, 64)
	}
	c.counts[i] = v
	return nil
}
func (c *denseCounters64) setAt(i int, v uint64) { c.counts[i] = v }
func (c *denseCounters64) growTo(newLen int) counterStore {
	grown := &denseCounters64{counts: make([]uint64, newLen)}
	copy(grown.counts, c.counts)
	return grown
}

// --- packed counters ---------------------------------------------------

// packedCounters stores only non-zero counters in a map, trading a
// per-access constant factor for memory proportional to cardinality
// rather than to the layout's full counts array length. It is
// observationally identical to the dense stores from the Histogram's
// perspective (spec §4.2, invariant 8).
type packedCounters struct {
	length int
	counts map[int]uint64
}

func newPackedCounters(length int) *packedCounters {
	return &packedCounters{length: length, counts: make(map[int]uint64)}
}

func (c *packedCounters) get(i int) uint64 { return c.counts[i] }
func (c *packedCounters) len() int         { return c.length }
func (c *packedCounters) fillZero()        { c.counts = make(map[int]uint64) }

func (c *packedCounters) incrementAt(i int) error { return c.addAt(i, 1) }

func (c *packedCounters) addAt(i int, delta uint64) error {
	v := c.counts[i] + delta
	if v < c.counts[i] {
		return newCounterOverflowError(i, v, 64)
	}
	if v == 0 {
		delete(c.counts, i)
		return nil
	}
	c.counts[i] = v
	return nil
}

func (c *packedCounters) setAt(i int, v uint64) {
	if v == 0 {
		delete(c.counts, i)
		return
	}
	c.counts[i] = v
}

func (c *packedCounters) growTo(newLen int) counterStore {
	grown := newPackedCounters(newLen)
	for i, v := range c.counts {
		grown.counts[i] = v
	}
	return grown
}
