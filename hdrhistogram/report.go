package hdrhistogram

import (
	"fmt"
	"io"
)

// OutputPercentileDistribution writes a human-readable percentile
// distribution to w: one row per reporting point emitted by the
// percentile iterator (value, percentile, cumulative count,
// 1/(1-percentile)), followed by summary lines for mean, standard
// deviation, max, total count and layout size. scalingRatio divides
// every reported value, letting callers report in e.g. milliseconds
// when values were recorded in nanoseconds.
func (h *Histogram) OutputPercentileDistribution(w io.Writer, ticksPerHalfDistance int, scalingRatio float64) error {
	if scalingRatio <= 0 {
		scalingRatio = 1
	}
	if ticksPerHalfDistance <= 0 {
		ticksPerHalfDistance = 5
	}

	if _, err := fmt.Fprintf(w, "%12s %14s %10s %14s\n\n", "Value", "Percentile", "TotalCount", "1/(1-Percentile)"); err != nil {
		return err
	}

	it := h.newPercentileIterator(ticksPerHalfDistance)
	for it.next() {
		value := float64(it.valueIteratedTo) / scalingRatio
		percentile := it.percentileLevelIteratedTo / 100.0
		inverse := "inf"
		if percentile < 1.0 {
			inverse = fmt.Sprintf("%.2f", 1.0/(1.0-percentile))
		}
		if _, err := fmt.Fprintf(w, "%12.3f %14.6f %10d %14s\n", value, percentile, it.totalCountToThisValue, inverse); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n#[Mean    = %12.3f, StdDeviation   = %12.3f]\n", h.GetMean()/scalingRatio, h.GetStdDeviation()/scalingRatio); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "#[Max     = %12.3f, Total count    = %12d]\n", float64(h.GetMax())/scalingRatio, h.totalCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "#[Buckets = %12d, SubBuckets     = %12d]\n", h.layout.bucketCount, h.layout.subBucketCount); err != nil {
		return err
	}
	return nil
}
