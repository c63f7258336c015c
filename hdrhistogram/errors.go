package hdrhistogram

import "github.com/loadimpact/hdrhistogram/errext"

func newOutOfRangeError(value, highestTrackableValue int64) error {
	return &errext.OutOfRangeError{Value: value, HighestTrackableValue: highestTrackableValue}
}

func newInvalidArgumentError(reason string) error {
	return &errext.InvalidArgumentError{Reason: reason}
}

func newCounterOverflowError(index int, attempted uint64, width int) error {
	return &errext.CounterOverflowError{Index: index, Attempted: attempted, Width: width}
}

func newMalformedPayloadError(offset int, reason string) error {
	return &errext.MalformedPayloadError{Offset: offset, Reason: reason}
}
