package hdrhistogram

import "math"

// cursor is the generic lazy index walk shared by every iterator. It
// advances one counter slot at a time and exposes the value/count state
// at that slot; recordedValuesIterator and percentileIterator layer their
// own emit/termination predicates on top.
//
// A cursor holds a non-owning back-reference to its histogram and
// captures the histogram's generation at creation. next() refuses to
// advance once the histogram has been resized or reset out from under
// it, per spec §4.5 and §5.
type cursor struct {
	h          *Histogram
	generation int64

	bucketIndex    int
	subBucketIndex int32

	countAtIndex    int64
	countToIndex    int64
	valueFromIndex  int64
	stale           bool
}

func newCursor(h *Histogram) cursor {
	return cursor{h: h, generation: h.generation, subBucketIndex: -1}
}

func (c *cursor) next() bool {
	if c.stale {
		return false
	}
	if c.generation != c.h.generation {
		c.stale = true
		logger.WithField("id", c.h.ID()).Warn("hdrhistogram: iterator invalidated by resize/reset")
		return false
	}
	if c.countToIndex >= c.h.totalCount {
		return false
	}

	c.subBucketIndex++
	if c.subBucketIndex >= c.h.layout.subBucketCount {
		c.subBucketIndex = c.h.layout.subBucketHalfCount
		c.bucketIndex++
	}
	if c.bucketIndex >= c.h.layout.bucketCount {
		return false
	}

	idx := c.h.layout.countsIndex(c.bucketIndex, c.subBucketIndex)
	c.countAtIndex = int64(c.h.counts.get(idx))
	c.countToIndex += c.countAtIndex
	c.valueFromIndex = c.h.layout.valueFromIndex(idx)
	return true
}

// recordedValuesIterator visits only counter slots with a non-zero count,
// terminating after the slot that contained the final counted sample.
type recordedValuesIterator struct {
	cursor
	valueIteratedTo        int64
	countAtValueIteratedTo int64
}

func (h *Histogram) newRecordedValuesIterator() *recordedValuesIterator {
	return &recordedValuesIterator{cursor: newCursor(h)}
}

func (it *recordedValuesIterator) next() bool {
	for it.cursor.next() {
		if it.countAtIndex != 0 {
			it.valueIteratedTo = it.valueFromIndex
			it.countAtValueIteratedTo = it.countAtIndex
			return true
		}
	}
	return false
}

// percentileIterator emits reporting points spaced so that the distance
// to 100% halves every ticksPerHalfDistance steps, plus one trailing
// 100% point.
type percentileIterator struct {
	cursor
	ticksPerHalfDistance       int
	percentileLevelToIterateTo float64
	seenLastValue              bool
	lastEmittedCountToIndex    int64

	valueIteratedTo           int64
	countAtValueIteratedTo    int64
	countAddedInThisStep      int64
	totalCountToThisValue     int64
	percentileLevelIteratedTo float64
}

func (h *Histogram) newPercentileIterator(ticksPerHalfDistance int) *percentileIterator {
	return &percentileIterator{cursor: newCursor(h), ticksPerHalfDistance: ticksPerHalfDistance}
}

func (it *percentileIterator) next() bool {
	if it.h.totalCount == 0 {
		return false
	}
	if it.countToIndex >= it.h.totalCount {
		if it.seenLastValue {
			return false
		}
		it.seenLastValue = true
		it.percentileLevelIteratedTo = 100
		it.valueIteratedTo = it.h.layout.highestEquivalentValue(it.valueFromIndex)
		it.countAtValueIteratedTo = it.countAtIndex
		it.countAddedInThisStep = it.countToIndex - it.lastEmittedCountToIndex
		it.totalCountToThisValue = it.countToIndex
		return true
	}

	if it.subBucketIndex == -1 && !it.cursor.next() {
		return false
	}

	for {
		currentPercentile := 100.0 * float64(it.countToIndex) / float64(it.h.totalCount)
		if it.countAtIndex != 0 && it.percentileLevelToIterateTo <= currentPercentile {
			it.percentileLevelIteratedTo = it.percentileLevelToIterateTo
			it.valueIteratedTo = it.h.layout.highestEquivalentValue(it.valueFromIndex)
			it.countAtValueIteratedTo = it.countAtIndex
			it.countAddedInThisStep = it.countToIndex - it.lastEmittedCountToIndex
			it.totalCountToThisValue = it.countToIndex
			it.lastEmittedCountToIndex = it.countToIndex

			halfDistance := math.Pow(2, math.Ceil(math.Log2(100.0/(100.0-it.percentileLevelToIterateTo))))
			step := 50.0 / (halfDistance * float64(it.ticksPerHalfDistance))
			it.percentileLevelToIterateTo += step
			return true
		}
		if !it.cursor.next() {
			return false
		}
	}
}
