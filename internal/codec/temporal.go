package codec

import (
	"encoding/binary"
	"time"

	pqcal "github.com/pq-async/pqgo/internal/calendar"

	perrors "github.com/pq-async/pqgo/errors"
)

// --- date ------------------------------------------------------------

// EncodeDate renders int4 days since 2000-01-01, applying era alignment
// for dates before year 1 AD (§4.A date).
func EncodeDate(t time.Time) []byte {
	y, m, d := t.Date()
	adjYear := pqcal.EraUnalign(y)
	days := pqcal.DaysSinceEpoch(time.Date(adjYear, m, d, 0, 0, 0, 0, time.UTC))
	return EncodeInt4(days)
}

// DecodeDate parses the wire int4 day offset into a civil date, in UTC,
// applying era alignment on decode.
func DecodeDate(buf []byte) (time.Time, error) {
	v, err := DecodeInt4(buf)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := pqcal.DateFromDays(v)
	y = pqcal.EraAlign(y)
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), nil
}

// --- time --------------------------------------------------------------

// EncodeTime renders int8 microseconds since midnight (§4.A time).
func EncodeTime(t time.Time) []byte {
	return EncodeInt8(pqcal.MicrosSinceMidnight(t))
}

// DecodeTime parses int8 microseconds since midnight into a zero-date
// time.Time in UTC.
func DecodeTime(buf []byte) (time.Time, error) {
	v, err := DecodeInt8(buf)
	if err != nil {
		return time.Time{}, err
	}
	h, m, s, ns := pqcal.TimeFromMicros(v)
	return time.Date(0, 1, 1, h, m, s, ns, time.UTC), nil
}

// --- timetz -------------------------------------------------------------

// EncodeTimeTZ renders int8 microseconds + int4 zone offset seconds.
func EncodeTimeTZ(t time.Time) []byte {
	_, offset := t.Zone()
	buf := make([]byte, 0, 12)
	buf = append(buf, EncodeInt8(pqcal.MicrosSinceMidnight(t))...)
	buf = append(buf, EncodeInt4(int32(-offset))...) // wire stores west-of-UTC positive (inverse of Go's offset)
	return buf
}

// DecodeTimeTZ parses the timetz wire layout; the returned time carries a
// fixed-offset Location built from the wire's offset seconds.
func DecodeTimeTZ(buf []byte) (time.Time, error) {
	if len(buf) != 12 {
		return time.Time{}, perrors.New(perrors.KindTypeMismatch, "timetz must be 12 bytes")
	}
	micros := int64(binary.BigEndian.Uint64(buf[0:8]))
	offsetSecs := int32(binary.BigEndian.Uint32(buf[8:12]))
	h, m, s, ns := pqcal.TimeFromMicros(micros)
	loc := time.FixedZone("", -int(offsetSecs))
	return time.Date(0, 1, 1, h, m, s, ns, loc), nil
}

// --- timestamp / timestamptz ---------------------------------------------

// EncodeTimestamp renders int8 microseconds since the 2000-01-01 epoch,
// era-aligned the same way date is (§4.A timestamp).
func EncodeTimestamp(t time.Time) []byte {
	y, m, d := t.Date()
	adjYear := pqcal.EraUnalign(y)
	adj := time.Date(adjYear, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return EncodeInt8(pqcal.MicrosSinceEpoch(adj))
}

// DecodeTimestamp returns the instant in UTC, era-aligned.
func DecodeTimestamp(buf []byte) (time.Time, error) {
	v, err := DecodeInt8(buf)
	if err != nil {
		return time.Time{}, err
	}
	t := pqcal.TimeFromEpochMicros(v)
	y, m, d := t.Date()
	y = pqcal.EraAlign(y)
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
}

// DecodeTimestampTZ decodes the same wire layout as DecodeTimestamp but
// attaches UTC as the default in-memory zone (§3: "defaulting to UTC after
// decoding"), distinct in meaning even though the bytes are identical.
func DecodeTimestampTZ(buf []byte) (time.Time, error) {
	return DecodeTimestamp(buf)
}

// EncodeTimestampTZ is identical on the wire to EncodeTimestamp; the caller
// is expected to have normalized t to UTC before calling (the in-memory
// zone is a client-side attachment only, §3).
func EncodeTimestampTZ(t time.Time) []byte {
	return EncodeTimestamp(t.UTC())
}

// --- interval --------------------------------------------------------------

// IntervalValue mirrors internal/calendar.Interval for the codec boundary.
type IntervalValue = pqcal.Interval

// EncodeInterval renders int8 microseconds + int4 days + int4 months,
// never normalized across fields (§3 Interval).
func EncodeInterval(iv IntervalValue) []byte {
	buf := make([]byte, 0, 16)
	buf = append(buf, EncodeInt8(iv.Micros)...)
	buf = append(buf, EncodeInt4(iv.Days)...)
	buf = append(buf, EncodeInt4(iv.Months)...)
	return buf
}

// DecodeInterval parses the interval wire layout.
func DecodeInterval(buf []byte) (IntervalValue, error) {
	if len(buf) != 16 {
		return IntervalValue{}, perrors.New(perrors.KindTypeMismatch, "interval must be 16 bytes")
	}
	return IntervalValue{
		Micros: int64(binary.BigEndian.Uint64(buf[0:8])),
		Days:   int32(binary.BigEndian.Uint32(buf[8:12])),
		Months: int32(binary.BigEndian.Uint32(buf[12:16])),
	}, nil
}

// CoerceTimestampToTimestampTZ implements the documented
// "timestamp->timestamptz via UTC attach" widening (§4.A cross-type
// coercion): the wall-clock reading is reinterpreted as already being UTC.
func CoerceTimestampToTimestampTZ(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
