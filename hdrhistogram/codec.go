package hdrhistogram

import (
	"bytes"
	"encoding/binary"
	"math"
)

// headerLength is the fixed-size prefix described in spec §4.6: cookie,
// payload length, normalizing index offset, significant digits, the two
// 64-bit range bounds, and the double-precision conversion ratio.
const headerLength = 40

const cookieBase uint32 = 0x1c849300

// counterWidthCookie encodes the counter width into the low byte of the
// cookie. The packed variant has no wire representation of its own: it
// always encodes (and decodes into) 64-bit dense deltas, since packing is
// purely an in-memory storage optimization (SPEC_FULL §4.5).
func counterWidthCookie(w counterWidth) uint32 {
	switch w {
	case CounterWidth8:
		return cookieBase | 1
	case CounterWidth16:
		return cookieBase | 2
	case CounterWidth32:
		return cookieBase | 4
	default:
		return cookieBase | 8
	}
}

func widthFromCookie(cookie uint32) (counterWidth, bool) {
	if cookie&^0xff != cookieBase {
		return 0, false
	}
	switch cookie & 0xff {
	case 1:
		return CounterWidth8, true
	case 2:
		return CounterWidth16, true
	case 4:
		return CounterWidth32, true
	case 8:
		return CounterWidth64, true
	}
	return 0, false
}

// Encode translates h into a self-describing binary payload: a fixed
// header carrying the layout parameters, followed by a zig-zag varint
// stream of counter deltas from index 0 to the last non-zero index. A
// negative (post zig-zag-decode) value encodes a run of that many
// zero-counters to skip, rather than emitting one varint per empty slot.
func (h *Histogram) Encode() ([]byte, error) {
	var body bytes.Buffer
	zeroRun := 0
	for i := 0; i < h.counts.len(); i++ {
		v := h.counts.get(i)
		if v == 0 {
			zeroRun++
			continue
		}
		if zeroRun > 0 {
			writeZigZagVarint(&body, -int64(zeroRun))
			zeroRun = 0
		}
		writeZigZagVarint(&body, int64(v))
	}

	header := make([]byte, headerLength)
	binary.BigEndian.PutUint32(header[0:4], counterWidthCookie(h.width))
	binary.BigEndian.PutUint32(header[4:8], uint32(body.Len()))
	binary.BigEndian.PutUint32(header[8:12], 0) // normalizingIndexOffset: unshifted histograms only
	binary.BigEndian.PutUint32(header[12:16], uint32(h.layout.significantDigits))
	binary.BigEndian.PutUint64(header[16:24], uint64(h.layout.lowestDiscernibleValue))
	binary.BigEndian.PutUint64(header[24:32], uint64(h.layout.highestTrackableValue))
	binary.BigEndian.PutUint64(header[32:40], math.Float64bits(1.0))

	return append(header, body.Bytes()...), nil
}

// Decode reconstructs a Histogram from a payload produced by Encode.
// totalCount, minNonZeroValue and maxValue are recomputed by scanning the
// reconstructed counts, exactly as spec §4.6 requires; partial decoding
// is never exposed; every error returned is a MalformedPayloadError.
func Decode(payload []byte) (*Histogram, error) {
	lowest, highest, digits, width, body, err := decodeHeader(payload)
	if err != nil {
		return nil, err
	}
	h, err := NewWithCounterWidth(lowest, highest, digits, width)
	if err != nil {
		return nil, newMalformedPayloadError(12, err.Error())
	}
	if err := decodeCounts(h, body); err != nil {
		return nil, err
	}
	return h, nil
}

// DecodeInto resets h and repopulates it from payload. It fails with
// MalformedPayloadError if payload's lowestDiscernibleValue or
// significantDigits don't match h's own, since that would silently
// change h's semantics. A larger highestTrackableValue in the payload
// grows h to cover it (regardless of autoResize); a smaller one is
// accepted as is.
func DecodeInto(h *Histogram, payload []byte) error {
	lowest, highest, digits, _, body, err := decodeHeader(payload)
	if err != nil {
		return err
	}
	if lowest != h.layout.lowestDiscernibleValue || digits != h.layout.significantDigits {
		return newMalformedPayloadError(12, "payload layout does not match destination histogram")
	}
	if highest > h.layout.highestTrackableValue {
		h.Resize(highest)
	}
	h.Reset()
	return decodeCounts(h, body)
}

func decodeHeader(payload []byte) (lowest, highest int64, digits int, width counterWidth, body []byte, err error) {
	if len(payload) < headerLength {
		return 0, 0, 0, 0, nil, newMalformedPayloadError(len(payload), "payload shorter than the fixed header")
	}
	cookie := binary.BigEndian.Uint32(payload[0:4])
	width, ok := widthFromCookie(cookie)
	if !ok {
		return 0, 0, 0, 0, nil, newMalformedPayloadError(0, "unknown cookie")
	}
	payloadLengthBytes := binary.BigEndian.Uint32(payload[4:8])
	digits = int(binary.BigEndian.Uint32(payload[12:16]))
	lowest = int64(binary.BigEndian.Uint64(payload[16:24]))
	highest = int64(binary.BigEndian.Uint64(payload[24:32]))

	body = payload[headerLength:]
	if int(payloadLengthBytes) != len(body) {
		return 0, 0, 0, 0, nil, newMalformedPayloadError(4, "payloadLengthBytes disagrees with the actual payload length")
	}
	return lowest, highest, digits, width, body, nil
}

func decodeCounts(h *Histogram, body []byte) error {
	r := bytes.NewReader(body)
	index := 0
	length := h.counts.len()
	for r.Len() > 0 {
		v, err := readZigZagVarint(r)
		if err != nil {
			return newMalformedPayloadError(headerLength+len(body)-r.Len(), "truncated varint stream")
		}
		if v < 0 {
			index += int(-v)
			if index > length {
				return newMalformedPayloadError(headerLength+len(body)-r.Len(), "zero run overruns counts array")
			}
			continue
		}
		if index >= length {
			return newMalformedPayloadError(headerLength+len(body)-r.Len(), "counter index overruns counts array")
		}
		h.counts.setAt(index, uint64(v))
		h.totalCount += v
		h.updateMinAndMax(h.layout.valueFromIndex(index))
		index++
	}
	return nil
}

func writeZigZagVarint(buf *bytes.Buffer, v int64) {
	zigzag := uint64(v<<1) ^ uint64(v>>63)
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], zigzag)
	buf.Write(tmp[:n])
}

func readZigZagVarint(r *bytes.Reader) (int64, error) {
	zigzag, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, err
	}
	return int64(zigzag>>1) ^ -int64(zigzag&1), nil
}
