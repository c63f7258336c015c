// Package errext defines the structured error types surfaced by the
// hdrhistogram core. Errors are never coerced to opaque strings: every
// error a caller can act on carries typed fields and supports errors.As.
package errext

import (
	"errors"
	"fmt"
)

// OutOfRangeError is returned when a value falls outside the histogram's
// current trackable range and autoResize is disabled.
type OutOfRangeError struct {
	Value                 int64
	HighestTrackableValue int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value %d is out of range (highest trackable value is %d)", e.Value, e.HighestTrackableValue)
}

// InvalidArgumentError is returned for invalid configuration or arguments
// supplied to an operation (lowestDiscernibleValue<1, highestTrackableValue
// <2*lowest, significantDigits outside [0,5], a Subtract that would drive a
// counter negative, and similar caller errors).
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

// CounterOverflowError is returned by a dense counter store when
// incrementing or adding to a counter would exceed the natural ceiling of
// its width.
type CounterOverflowError struct {
	Index     int
	Attempted uint64
	Width     int
}

func (e *CounterOverflowError) Error() string {
	return fmt.Sprintf("counter overflow at index %d: attempted value %d exceeds %d-bit counter width", e.Index, e.Attempted, e.Width)
}

// MalformedPayloadError is returned by Decode when a binary payload is
// truncated, carries an unknown cookie, or disagrees with its own length
// field. Partial decoding is never exposed to the caller.
type MalformedPayloadError struct {
	Offset int
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed histogram payload at offset %d: %s", e.Offset, e.Reason)
}

// WithHint wraps err so that Hint() returns hint, composing with any hint
// already attached to err. A nil err returns nil, mirroring the teacher's
// own errext.WithHint.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	var existing HasHint
	if errors.As(err, &existing) {
		hint = hint + " (" + existing.Hint() + ")"
	}
	return &hintedError{error: err, hint: hint}
}

// HasHint is implemented by errors carrying an operator-facing hint.
type HasHint interface {
	error
	Hint() string
}

type hintedError struct {
	error
	hint string
}

func (e *hintedError) Hint() string { return e.hint }
func (e *hintedError) Unwrap() error { return e.error }
