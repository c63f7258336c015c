package hdrhistogram

import "math"

// GetValueAtPercentile returns the highest-equivalent value at the given
// percentile (0..100, clamped). The ulp adjustment below guards against
// double-rounding at exact percentile boundaries; it is required for
// equality with a dense reference computation at low sample counts.
func (h *Histogram) GetValueAtPercentile(percentile float64) int64 {
	if percentile < 0 {
		percentile = 0
	}
	if percentile > 100 {
		percentile = 100
	}
	if h.totalCount == 0 {
		return 0
	}

	fp := (percentile / 100) * float64(h.totalCount)
	target := int64(math.Ceil(fp - ulp(fp)))
	if target < 1 {
		target = 1
	}

	var totalToCurrent int64
	it := h.newRecordedValuesIterator()
	var lastValue int64
	for it.next() {
		totalToCurrent += it.countAtValueIteratedTo
		lastValue = it.valueIteratedTo
		if totalToCurrent >= target {
			if percentile == 0 {
				return h.layout.lowestEquivalentValue(lastValue)
			}
			return h.layout.highestEquivalentValue(lastValue)
		}
	}
	return 0
}

// ulp returns the unit in the last place of x in double precision.
func ulp(x float64) float64 {
	return math.Nextafter(x, math.Inf(1)) - x
}

// GetMean returns the arithmetic mean of recorded values, or 0 if empty.
func (h *Histogram) GetMean() float64 {
	if h.totalCount == 0 {
		return 0
	}
	var totalValue float64
	it := h.newRecordedValuesIterator()
	for it.next() {
		totalValue += float64(h.layout.medianEquivalentValue(it.valueIteratedTo)) * float64(it.countAtValueIteratedTo)
	}
	return totalValue / float64(h.totalCount)
}

// GetStdDeviation returns the population standard deviation of recorded
// values (no Bessel correction), or 0 if empty.
func (h *Histogram) GetStdDeviation() float64 {
	if h.totalCount == 0 {
		return 0
	}
	mean := h.GetMean()
	var sumSquares float64
	it := h.newRecordedValuesIterator()
	for it.next() {
		dev := float64(h.layout.medianEquivalentValue(it.valueIteratedTo)) - mean
		sumSquares += dev * dev * float64(it.countAtValueIteratedTo)
	}
	return math.Sqrt(sumSquares / float64(h.totalCount))
}

// Add merges other's recorded values into h, resizing to cover other's
// maximum if necessary (or failing with OutOfRangeError if autoResize is
// disabled). When both histograms share an identical layout, counters are
// added pairwise by index; otherwise other's recorded values are iterated
// and re-recorded. Min/max are merged by min/max and timestamps by
// (earliest start, latest end).
func (h *Histogram) Add(other *Histogram) error {
	otherMax := other.layout.highestEquivalentValue(other.maxValue)
	ceiling := h.layout.highestEquivalentValue(h.layout.valueFromIndex(h.layout.countsArrayLength - 1))
	if otherMax > ceiling {
		if err := h.handleRecordException(otherMax); err != nil {
			return err
		}
	}

	if sameLayout(h.layout, other.layout) {
		for i := 0; i < other.counts.len(); i++ {
			v := other.counts.get(i)
			if v == 0 {
				continue
			}
			if err := h.counts.addAt(i, v); err != nil {
				return err
			}
		}
		h.totalCount += other.totalCount
	} else {
		it := other.newRecordedValuesIterator()
		for it.next() {
			if err := h.RecordValueWithCount(it.valueIteratedTo, it.countAtValueIteratedTo); err != nil {
				return err
			}
		}
	}

	if other.maxValue > h.maxValue {
		h.maxValue = other.maxValue
	}
	if other.totalCount > 0 && (h.minNonZeroValue == maxInt64 || other.minNonZeroValue < h.minNonZeroValue) {
		h.minNonZeroValue = other.minNonZeroValue
	}
	if other.startTimeStampMsec != 0 && (h.startTimeStampMsec == 0 || other.startTimeStampMsec < h.startTimeStampMsec) {
		h.startTimeStampMsec = other.startTimeStampMsec
	}
	if other.endTimeStampMsec > h.endTimeStampMsec {
		h.endTimeStampMsec = other.endTimeStampMsec
	}
	return nil
}

// Subtract removes other's recorded values from h. It fails with
// InvalidArgumentError, leaving h unmodified, if any resulting counter
// would go negative (spec §9's resolved open question: fail rather than
// clamp).
func (h *Histogram) Subtract(other *Histogram) error {
	if !sameLayout(h.layout, other.layout) {
		return newInvalidArgumentError("subtract requires identical layouts (lowestDiscernibleValue, highestTrackableValue, significantDigits)")
	}

	for i := 0; i < other.counts.len(); i++ {
		if other.counts.get(i) > h.counts.get(i) {
			return newInvalidArgumentError("subtract would drive a counter negative")
		}
	}

	var removedTotal int64
	for i := 0; i < other.counts.len(); i++ {
		delta := other.counts.get(i)
		if delta == 0 {
			continue
		}
		h.counts.setAt(i, h.counts.get(i)-delta)
		removedTotal += int64(delta)
	}
	h.totalCount -= removedTotal
	return nil
}

func sameLayout(a, b layout) bool {
	return a.bucketCount == b.bucketCount &&
		a.subBucketCount == b.subBucketCount &&
		a.unitMagnitude == b.unitMagnitude
}
