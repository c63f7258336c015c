package hdrhistogram

import "gopkg.in/guregu/null.v3"

// RecordValue records a single occurrence of v. It fails with an
// OutOfRangeError if v exceeds the histogram's current highest trackable
// value and autoResize is disabled.
func (h *Histogram) RecordValue(v int64) error {
	return h.RecordValueWithCount(v, 1)
}

// RecordValueWithCount records c occurrences of v.
func (h *Histogram) RecordValueWithCount(v int64, c int64) error {
	if v < 0 {
		return newInvalidArgumentError("recorded value must be non-negative")
	}
	if c < 1 {
		return newInvalidArgumentError("recorded count must be >= 1")
	}

	i := h.layout.countsArrayIndex(v)
	if i < 0 || i >= h.layout.countsArrayLength {
		if err := h.handleRecordException(v); err != nil {
			return err
		}
		i = h.layout.countsArrayIndex(v)
	}

	if err := h.counts.addAt(i, uint64(c)); err != nil {
		return err
	}
	h.updateMinAndMax(v)
	h.totalCount += c
	return nil
}

// handleRecordException resizes the histogram to cover v, or fails with
// OutOfRangeError when autoResize is disabled. Per spec §9's resolved
// open question, the failure branch fires exactly when autoResize is
// false.
func (h *Histogram) handleRecordException(v int64) error {
	if !h.autoResize {
		return newOutOfRangeError(v, h.layout.highestTrackableValue)
	}
	h.resize(v)
	h.layout.highestTrackableValue = h.layout.highestEquivalentValue(h.layout.valueFromIndex(h.layout.countsArrayLength - 1))
	return nil
}

// updateMinAndMax stores max/min encoded so they always report as
// equivalent-range boundaries (spec §4.3).
func (h *Histogram) updateMinAndMax(v int64) {
	if v > h.maxValue {
		h.maxValue = v + h.layout.unitMagnitudeMask
	}
	if v != 0 && v < h.minNonZeroValue {
		h.minNonZeroValue = v &^ h.layout.unitMagnitudeMask
	}
}

// resize recomputes the layout for a new highest trackable value and
// grows the counts store in place, preserving every existing counter's
// index (index meaning is layout-invariant: L, D, subBucketCount and
// unitMagnitude never change, only bucketCount grows).
func (h *Histogram) resize(newHighestTrackableValue int64) {
	newLayout, err := newLayout(h.layout.lowestDiscernibleValue, newHighestTrackableValue, h.layout.significantDigits)
	if err != nil {
		// newHighestTrackableValue only grows monotonically from an
		// already-valid layout, so this can't fail in practice.
		logger.WithError(err).Error("hdrhistogram: unexpected resize failure")
		return
	}
	if newLayout.countsArrayLength <= h.layout.countsArrayLength {
		return
	}
	logger.WithFields(map[string]interface{}{
		"id":        h.id,
		"oldLength": h.layout.countsArrayLength,
		"newLength": newLayout.countsArrayLength,
	}).Debug("hdrhistogram: resizing")
	h.counts = h.counts.growTo(newLayout.countsArrayLength)
	h.layout = newLayout
	h.generation++
}

// Resize grows the histogram to cover newHighestTrackableValue ahead of
// time, regardless of autoResize. It is a no-op if the histogram already
// covers that value.
func (h *Histogram) Resize(newHighestTrackableValue int64) {
	if newHighestTrackableValue <= h.layout.highestTrackableValue {
		return
	}
	h.resize(newHighestTrackableValue)
	h.layout.highestTrackableValue = newHighestTrackableValue
}

// RecordValueWithExpectedInterval records v, then synthesizes samples
// for missingValue = v-E, v-2E, ... while missingValue >= E, correcting
// for coordinated omission in processes sampling at a known interval E.
func (h *Histogram) RecordValueWithExpectedInterval(v, expectedInterval int64) error {
	return h.RecordValueWithCountAndExpectedInterval(v, 1, expectedInterval)
}

// RecordValueWithCountAndExpectedInterval is RecordValueWithExpectedInterval
// with an explicit occurrence count for v itself.
func (h *Histogram) RecordValueWithCountAndExpectedInterval(v, count, expectedInterval int64) error {
	if err := h.RecordValueWithCount(v, count); err != nil {
		return err
	}
	if expectedInterval <= 0 || v <= expectedInterval {
		return nil
	}
	for missingValue := v - expectedInterval; missingValue >= expectedInterval; missingValue -= expectedInterval {
		if err := h.RecordValueWithCount(missingValue, count); err != nil {
			return err
		}
	}
	return nil
}

// CopyCorrectedForCoordinatedOmission returns a new histogram containing
// this histogram's recorded values, each re-recorded via
// RecordValueWithCountAndExpectedInterval(value, count, expectedInterval).
func (h *Histogram) CopyCorrectedForCoordinatedOmission(expectedInterval int64) (*Histogram, error) {
	target, err := New(Config{
		LowestDiscernibleValue:         h.layout.lowestDiscernibleValue,
		HighestTrackableValue:          null.IntFrom(h.layout.highestTrackableValue),
		NumberOfSignificantValueDigits: h.layout.significantDigits,
		AutoResize:                     null.BoolFrom(h.autoResize),
		CounterWidth:                   h.width,
	})
	if err != nil {
		return nil, err
	}
	target.startTimeStampMsec = h.startTimeStampMsec
	target.endTimeStampMsec = h.endTimeStampMsec
	if err := target.AddWhileCorrectingForCoordinatedOmission(h, expectedInterval); err != nil {
		return nil, err
	}
	return target, nil
}

// AddWhileCorrectingForCoordinatedOmission iterates other's recorded
// values and re-applies them against h via
// RecordValueWithCountAndExpectedInterval.
func (h *Histogram) AddWhileCorrectingForCoordinatedOmission(other *Histogram, expectedInterval int64) error {
	it := other.newRecordedValuesIterator()
	for it.next() {
		if err := h.RecordValueWithCountAndExpectedInterval(it.valueIteratedTo, it.countAtValueIteratedTo, expectedInterval); err != nil {
			return err
		}
	}
	return nil
}
