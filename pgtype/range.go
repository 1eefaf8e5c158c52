// Range<T> value type and its discrete iterator (§3 Range<T>, §8 "Range
// iterator" testable property). Grounded on
// original_source/include/pq-async/pg_type_range_def.h for the flag layout,
// generalized here into a Go generic over the element type.
package pgtype

import (
	pqcodec "github.com/pq-async/pqgo/internal/codec"

	perrors "github.com/pq-async/pqgo/errors"
)

// Range is a generic range<T> value: T is int4, int8, decimal, timestamp,
// timestamp-with-zone, or date in this client's usage (§3 Range<T>).
type Range[T any] struct {
	Empty          bool
	Lower          T
	Upper          T
	LowerPresent   bool
	UpperPresent   bool
	LowerInclusive bool
	UpperInclusive bool
	ContainsEmpty  bool
}

func (r Range[T]) flags() byte {
	var f byte
	if r.Empty {
		f |= pqcodec.RangeEmpty
	}
	if r.LowerInclusive {
		f |= pqcodec.RangeLowerInclusive
	}
	if r.UpperInclusive {
		f |= pqcodec.RangeUpperInclusive
	}
	if !r.LowerPresent {
		f |= pqcodec.RangeLowerInfinite
	}
	if !r.UpperPresent {
		f |= pqcodec.RangeUpperInfinite
	}
	if r.ContainsEmpty {
		f |= pqcodec.RangeContainsEmpty
	}
	return f
}

// EncodeRange renders r using encodeElem for present bounds.
func EncodeRange[T any](r Range[T], encodeElem func(T) []byte) []byte {
	raw := pqcodec.RawRange{Flags: r.flags()}
	if r.LowerPresent && !r.Empty {
		raw.Lower = encodeElem(r.Lower)
	}
	if r.UpperPresent && !r.Empty {
		raw.Upper = encodeElem(r.Upper)
	}
	return pqcodec.EncodeRange(raw)
}

// DecodeRange parses the range envelope and applies decodeElem to present
// bounds.
func DecodeRange[T any](buf []byte, decodeElem func([]byte) (T, error)) (Range[T], error) {
	raw, err := pqcodec.DecodeRange(buf)
	if err != nil {
		return Range[T]{}, err
	}
	r := Range[T]{
		Empty:          raw.Flags&pqcodec.RangeEmpty != 0,
		LowerInclusive: raw.Flags&pqcodec.RangeLowerInclusive != 0,
		UpperInclusive: raw.Flags&pqcodec.RangeUpperInclusive != 0,
		ContainsEmpty:  raw.Flags&pqcodec.RangeContainsEmpty != 0,
		LowerPresent:   raw.HasLower(),
		UpperPresent:   raw.HasUpper(),
	}
	if r.LowerPresent {
		v, err := decodeElem(raw.Lower)
		if err != nil {
			return Range[T]{}, err
		}
		r.Lower = v
	}
	if r.UpperPresent {
		v, err := decodeElem(raw.Upper)
		if err != nil {
			return Range[T]{}, err
		}
		r.Upper = v
	}
	return r, nil
}

// Int4Iterator walks an int4range inclusive-lower to inclusive-upper (§3:
// "defined only for discrete T"). Constructing one over an infinite or
// empty bound fails, since there is no finite sequence to enumerate.
type Int4Iterator struct {
	cur, end int32
	done     bool
}

// NewInt4Iterator normalizes r to an inclusive [lo, hi] pair and returns an
// iterator over it.
func NewInt4Iterator(r Range[int32]) (*Int4Iterator, error) {
	if r.Empty || !r.LowerPresent || !r.UpperPresent {
		return nil, perrors.New(perrors.KindInvalidArgument, "range has no finite bounds to iterate")
	}
	lo := r.Lower
	if !r.LowerInclusive {
		lo++
	}
	hi := r.Upper
	if !r.UpperInclusive {
		hi--
	}
	if lo > hi {
		return &Int4Iterator{done: true}, nil
	}
	return &Int4Iterator{cur: lo, end: hi}, nil
}

// Next returns the next value and true, or (0, false) at end.
func (it *Int4Iterator) Next() (int32, bool) {
	if it.done {
		return 0, false
	}
	v := it.cur
	if v == it.end {
		it.done = true
	} else {
		it.cur++
	}
	return v, true
}

// Advance moves past the current element without reading it; advancing
// past the end fails (§8: "advance past end fails").
func (it *Int4Iterator) Advance() error {
	if it.done {
		return perrors.New(perrors.KindInvalidArgument, "advance past end of range iterator")
	}
	if it.cur == it.end {
		it.done = true
		return nil
	}
	it.cur++
	return nil
}

// Int8Iterator is the int8range analogue of Int4Iterator.
type Int8Iterator struct {
	cur, end int64
	done     bool
}

func NewInt8Iterator(r Range[int64]) (*Int8Iterator, error) {
	if r.Empty || !r.LowerPresent || !r.UpperPresent {
		return nil, perrors.New(perrors.KindInvalidArgument, "range has no finite bounds to iterate")
	}
	lo := r.Lower
	if !r.LowerInclusive {
		lo++
	}
	hi := r.Upper
	if !r.UpperInclusive {
		hi--
	}
	if lo > hi {
		return &Int8Iterator{done: true}, nil
	}
	return &Int8Iterator{cur: lo, end: hi}, nil
}

func (it *Int8Iterator) Next() (int64, bool) {
	if it.done {
		return 0, false
	}
	v := it.cur
	if v == it.end {
		it.done = true
	} else {
		it.cur++
	}
	return v, true
}

func (it *Int8Iterator) Advance() error {
	if it.done {
		return perrors.New(perrors.KindInvalidArgument, "advance past end of range iterator")
	}
	if it.cur == it.end {
		it.done = true
		return nil
	}
	it.cur++
	return nil
}
