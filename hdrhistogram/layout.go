package hdrhistogram

import "math/bits"

// layout is the pure arithmetic derived from a histogram's configuration.
// Its methods never mutate it, and a copy is safe to share across
// histograms and goroutines; a Histogram replaces its layout on resize and
// updates its highestTrackableValue after growing.
//
// Field order keeps the hot-path fields (unitMagnitude, subBucketHalfCount,
// subBucketMask, subBucketHalfCountMagnitude) together so record()'s index
// computation touches one cache line, per the teacher's "hot field"
// clustering convention.
type layout struct {
	unitMagnitude               int
	subBucketHalfCount          int32
	subBucketMask               int64
	subBucketHalfCountMagnitude int

	lowestDiscernibleValue  int64
	highestTrackableValue   int64
	significantDigits       int
	unitMagnitudeMask       int64
	subBucketCount          int32
	bucketCount             int
	countsArrayLength       int
}

func newLayout(lowestDiscernibleValue, highestTrackableValue int64, significantDigits int) (layout, error) {
	if lowestDiscernibleValue < 1 {
		return layout{}, newInvalidArgumentError("lowestDiscernibleValue must be >= 1")
	}
	if highestTrackableValue < 2*lowestDiscernibleValue {
		return layout{}, newInvalidArgumentError("highestTrackableValue must be >= 2*lowestDiscernibleValue")
	}
	if significantDigits < 0 || significantDigits > 5 {
		return layout{}, newInvalidArgumentError("numberOfSignificantValueDigits must be in [0,5]")
	}

	unitMagnitude := bits.Len64(uint64(lowestDiscernibleValue)) - 1
	unitMagnitudeMask := int64(1)<<uint(unitMagnitude) - 1

	largestValueWithSingleUnitResolution := int64(2)
	for i := 0; i < significantDigits; i++ {
		largestValueWithSingleUnitResolution *= 10
	}

	subBucketCountMagnitude := ceilLog2(largestValueWithSingleUnitResolution)
	subBucketHalfCountMagnitude := subBucketCountMagnitude - 1
	if subBucketHalfCountMagnitude < 0 {
		subBucketHalfCountMagnitude = 0
	}
	subBucketCount := int32(1) << uint(subBucketHalfCountMagnitude+1)
	subBucketHalfCount := subBucketCount >> 1
	subBucketMask := int64(subBucketCount-1) << uint(unitMagnitude)

	bucketCount := computeBucketCount(subBucketCount, unitMagnitude, highestTrackableValue)
	countsArrayLength := (bucketCount + 1) * int(subBucketHalfCount)

	return layout{
		unitMagnitude:               unitMagnitude,
		subBucketHalfCount:          subBucketHalfCount,
		subBucketMask:               subBucketMask,
		subBucketHalfCountMagnitude: subBucketHalfCountMagnitude,

		lowestDiscernibleValue: lowestDiscernibleValue,
		highestTrackableValue:  highestTrackableValue,
		significantDigits:      significantDigits,
		unitMagnitudeMask:      unitMagnitudeMask,
		subBucketCount:         subBucketCount,
		bucketCount:            bucketCount,
		countsArrayLength:      countsArrayLength,
	}, nil
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n int64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(uint64(n - 1))
}

// computeBucketCount finds the smallest B>=1 such that
// subBucketCount * 2^(B-1+unitMagnitude) > highestTrackableValue.
func computeBucketCount(subBucketCount int32, unitMagnitude int, highestTrackableValue int64) int {
	smallestUntrackableValue := int64(subBucketCount) << uint(unitMagnitude)
	bucketsNeeded := 1
	for smallestUntrackableValue <= highestTrackableValue {
		// smallestUntrackableValue doubles each bucket; once doubling it
		// would overflow int64, one more bucket already covers the
		// platform integer ceiling, so stop growing there.
		if smallestUntrackableValue >= (1 << 62) {
			return bucketsNeeded + 1
		}
		smallestUntrackableValue <<= 1
		bucketsNeeded++
	}
	return bucketsNeeded
}

// getBucketIndex returns the bucket a value falls in, via an integer
// count-leading-zeros rather than floating log2 (spec DESIGN NOTES: exact
// and faster than the float form, which is only safe for mantissa-sized
// magnitudes).
func (l layout) getBucketIndex(v int64) int {
	pow2Ceiling := bits.Len64(uint64(v) | uint64(l.subBucketMask))
	return pow2Ceiling - l.unitMagnitude - (l.subBucketHalfCountMagnitude + 1)
}

func (l layout) getSubBucketIndex(v int64, bucketIndex int) int32 {
	return int32(v >> uint(bucketIndex+l.unitMagnitude))
}

// countsIndex maps a (bucketIndex, subBucketIndex) pair to a counter slot.
func (l layout) countsIndex(bucketIndex int, subBucketIndex int32) int {
	bucketBaseIndex := (bucketIndex + 1) << uint(l.subBucketHalfCountMagnitude)
	offsetInBucket := int(subBucketIndex) - int(l.subBucketHalfCount)
	return bucketBaseIndex + offsetInBucket
}

// countsArrayIndex returns the counter slot a value is recorded into, or
// an index >= countsArrayLength if v exceeds the current layout's range.
func (l layout) countsArrayIndex(v int64) int {
	bucketIndex := l.getBucketIndex(v)
	subBucketIndex := l.getSubBucketIndex(v, bucketIndex)
	return l.countsIndex(bucketIndex, subBucketIndex)
}

// valueFromIndex is the inverse of countsArrayIndex on the in-range
// subdomain (spec invariant 3).
func (l layout) valueFromIndex(i int) int64 {
	bucketIndex := (i >> uint(l.subBucketHalfCountMagnitude)) - 1
	subBucketIndex := int32(i&int(l.subBucketHalfCount-1)) + l.subBucketHalfCount
	if bucketIndex < 0 {
		subBucketIndex -= l.subBucketHalfCount
		bucketIndex = 0
	}
	return int64(subBucketIndex) << uint(bucketIndex+l.unitMagnitude)
}

func (l layout) sizeOfEquivalentValueRange(v int64) int64 {
	bucketIndex := l.getBucketIndex(v)
	subBucketIndex := l.getSubBucketIndex(v, bucketIndex)
	adjustedBucket := bucketIndex
	if subBucketIndex >= l.subBucketCount {
		adjustedBucket++
	}
	return int64(1) << uint(l.unitMagnitude+adjustedBucket)
}

func (l layout) lowestEquivalentValue(v int64) int64 {
	bucketIndex := l.getBucketIndex(v)
	subBucketIndex := l.getSubBucketIndex(v, bucketIndex)
	return int64(subBucketIndex) << uint(bucketIndex+l.unitMagnitude)
}

func (l layout) nextNonEquivalentValue(v int64) int64 {
	return l.lowestEquivalentValue(v) + l.sizeOfEquivalentValueRange(v)
}

func (l layout) highestEquivalentValue(v int64) int64 {
	return l.nextNonEquivalentValue(v) - 1
}

func (l layout) medianEquivalentValue(v int64) int64 {
	return l.lowestEquivalentValue(v) + (l.sizeOfEquivalentValueRange(v) >> 1)
}

func (l layout) valuesAreEquivalent(a, b int64) bool {
	return l.lowestEquivalentValue(a) == l.lowestEquivalentValue(b)
}

// coversValue reports whether v fits in the current countsArrayLength.
func (l layout) coversValue(v int64) bool {
	return l.countsArrayIndex(v) < l.countsArrayLength
}
