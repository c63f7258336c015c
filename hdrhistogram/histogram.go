// Package hdrhistogram implements the bucketed-counts engine behind an HDR
// (High Dynamic Range) histogram: fixed-memory recording of non-negative
// integer values with a bounded relative error, intended for latency and
// size distributions in services where per-sample allocation or sorting
// is forbidden.
package hdrhistogram

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"
)

// identitySeq is the process-wide monotonically increasing identity
// counter assigned at construction (spec §5). It is opaque to
// correctness and exists only so two histograms can be told apart for
// equality/logging purposes.
var identitySeq int64

// logger is the package-level structured logger used for non-hot-path
// diagnostics: resize and stale-iterator warnings.
// Callers may override it with SetLogger; the hot path (record/query)
// never logs.
var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the logger used for non-hot-path diagnostics.
func SetLogger(l logrus.FieldLogger) { logger = l }

// Config describes a histogram's configuration. Optional fields use
// null.v3 so a caller can distinguish "not set" from "set to zero",
// mirroring the teacher's own null.IntFrom config-option convention.
type Config struct {
	// LowestDiscernibleValue is the smallest discernible positive value.
	// Defaults to 1 when zero.
	LowestDiscernibleValue int64
	// HighestTrackableValue is the highest value trackable without a
	// resize. Defaults to 2*LowestDiscernibleValue (2 with the default
	// lowest) when unset, and autoResize defaults to true whenever this
	// is left unset.
	HighestTrackableValue null.Int
	// NumberOfSignificantValueDigits guarantees relative error <
	// 10^(-D). Defaults to 3 when zero.
	NumberOfSignificantValueDigits int
	// AutoResize enables implicit growth on an out-of-range record
	// instead of failing. Defaults to true unless HighestTrackableValue
	// was explicitly supplied.
	AutoResize null.Bool
	// CounterWidth selects the counterStore variant. Defaults to
	// CounterWidth64.
	CounterWidth counterWidth
}

func (c Config) resolve() (lowest, highest int64, digits int, autoResize bool, width counterWidth) {
	lowest = c.LowestDiscernibleValue
	if lowest == 0 {
		lowest = 1
	}
	digits = c.NumberOfSignificantValueDigits
	if digits == 0 {
		digits = 3
	}
	if c.HighestTrackableValue.Valid {
		highest = c.HighestTrackableValue.Int64
	} else {
		highest = 2 * lowest
	}
	if c.AutoResize.Valid {
		autoResize = c.AutoResize.Bool
	} else {
		autoResize = !c.HighestTrackableValue.Valid
	}
	width = c.CounterWidth
	if width == 0 {
		width = CounterWidth64
	}
	return
}

// Histogram records non-negative integer values across a configurable
// dynamic range with a bounded relative error, in O(1) time and
// constant memory independent of input cardinality.
//
// A Histogram is single-writer: concurrent RecordValue calls from
// multiple goroutines without external synchronization are not
// supported. Read-only queries may be issued from other goroutines
// after a happens-before fence with the last write.
type Histogram struct {
	id int64

	layout     layout
	counts     counterStore
	width      counterWidth
	autoResize bool

	totalCount      int64
	maxValue        int64
	minNonZeroValue int64

	startTimeStampMsec int64
	endTimeStampMsec   int64

	// generation is bumped by resize and Reset; iterators capture it
	// at creation and treat a mismatch as invalidation (spec §4.5, §5).
	generation int64
}

// New constructs a Histogram from a Config, applying the documented
// defaults for any zero-valued field.
func New(cfg Config) (*Histogram, error) {
	lowest, highest, digits, autoResize, width := cfg.resolve()
	l, err := newLayout(lowest, highest, digits)
	if err != nil {
		return nil, err
	}

	h := &Histogram{
		id:              atomic.AddInt64(&identitySeq, 1),
		layout:          l,
		counts:          newCounterStore(width, l.countsArrayLength),
		width:           width,
		autoResize:      autoResize,
		minNonZeroValue: maxInt64,
	}
	return h, nil
}

// NewWithCounterWidth is a convenience constructor equivalent to calling
// New with Config.CounterWidth set explicitly.
func NewWithCounterWidth(lowestDiscernibleValue, highestTrackableValue int64, significantDigits int, width counterWidth) (*Histogram, error) {
	return New(Config{
		LowestDiscernibleValue:         lowestDiscernibleValue,
		HighestTrackableValue:          null.IntFrom(highestTrackableValue),
		NumberOfSignificantValueDigits: significantDigits,
		CounterWidth:                   width,
	})
}

const maxInt64 = int64(^uint64(0) >> 1)

// ID returns the histogram's process-wide identity, assigned once at
// construction. It exists only for equality/logging; it plays no role
// in recording or query semantics.
func (h *Histogram) ID() int64 { return h.id }

// Reset clears all counts and aggregate state, preserving configuration.
func (h *Histogram) Reset() {
	h.counts.fillZero()
	h.totalCount = 0
	h.maxValue = 0
	h.minNonZeroValue = maxInt64
	h.startTimeStampMsec = 0
	h.endTimeStampMsec = 0
	h.generation++
}

// GetTotalCount returns the total number of recorded samples.
func (h *Histogram) GetTotalCount() int64 { return h.totalCount }

// GetMax returns the largest recorded value's highest-equivalent
// boundary, or 0 if nothing has been recorded.
func (h *Histogram) GetMax() int64 {
	if h.totalCount == 0 {
		return 0
	}
	return h.layout.highestEquivalentValue(h.maxValue)
}

// GetMin returns the smallest non-zero recorded value's lowest-equivalent
// boundary, or 0 if nothing has been recorded.
func (h *Histogram) GetMin() int64 {
	if h.totalCount == 0 || h.minNonZeroValue == maxInt64 {
		return 0
	}
	return h.layout.lowestEquivalentValue(h.minNonZeroValue)
}

// ValuesAreEquivalent reports whether a and b fall in the same counter.
func (h *Histogram) ValuesAreEquivalent(a, b int64) bool {
	return h.layout.valuesAreEquivalent(a, b)
}

// LowestEquivalentValue returns the lowest value that would map to the
// same counter as v.
func (h *Histogram) LowestEquivalentValue(v int64) int64 { return h.layout.lowestEquivalentValue(v) }

// HighestEquivalentValue returns the highest value that would map to the
// same counter as v.
func (h *Histogram) HighestEquivalentValue(v int64) int64 { return h.layout.highestEquivalentValue(v) }

// SizeOfEquivalentValueRange returns the number of distinct raw values
// that map to the same counter as v.
func (h *Histogram) SizeOfEquivalentValueRange(v int64) int64 {
	return h.layout.sizeOfEquivalentValueRange(v)
}

// SetStartTimeStamp and SetEndTimeStamp carry opaque timestamp tags
// through Add and Copy; they play no role in numeric logic. Encode does
// not write them, so a decoded histogram has both timestamps at zero.
func (h *Histogram) SetStartTimeStamp(msec int64) { h.startTimeStampMsec = msec }
func (h *Histogram) SetEndTimeStamp(msec int64)   { h.endTimeStampMsec = msec }
func (h *Histogram) StartTimeStamp() int64        { return h.startTimeStampMsec }
func (h *Histogram) EndTimeStamp() int64          { return h.endTimeStampMsec }

// HighestTrackableValue returns the current (possibly grown) ceiling a
// value can reach without triggering a resize.
func (h *Histogram) HighestTrackableValue() int64 { return h.layout.highestTrackableValue }

// LowestDiscernibleValue returns the configured lowest discernible value.
func (h *Histogram) LowestDiscernibleValue() int64 { return h.layout.lowestDiscernibleValue }

// SignificantDigits returns the configured number of significant decimal
// digits.
func (h *Histogram) SignificantDigits() int { return h.layout.significantDigits }

// Copy returns a deep copy of h, including its counts and aggregate
// state but with a freshly assigned identity.
func (h *Histogram) Copy() *Histogram {
	clone := &Histogram{
		id:                 atomic.AddInt64(&identitySeq, 1),
		layout:             h.layout,
		counts:             h.counts.growTo(h.counts.len()),
		width:              h.width,
		autoResize:         h.autoResize,
		totalCount:         h.totalCount,
		maxValue:           h.maxValue,
		minNonZeroValue:    h.minNonZeroValue,
		startTimeStampMsec: h.startTimeStampMsec,
		endTimeStampMsec:   h.endTimeStampMsec,
	}
	return clone
}
