// Range<T> wire codec (§3 Range<T>, §4.A range<T>): 1-byte flags, then an
// int4-length-prefixed encoded lower bound if present, then likewise for
// the upper bound. Grounded on
// original_source/include/pq-async/pg_type_range_def.h.
package codec

import perrors "github.com/pq-async/pqgo/errors"

// Range flag bits, matching the server's RANGE_* bit layout.
const (
	RangeEmpty          byte = 0x01
	RangeLowerInclusive byte = 0x02
	RangeUpperInclusive byte = 0x04
	RangeLowerInfinite  byte = 0x08
	RangeUpperInfinite  byte = 0x10
	RangeLowerNull      byte = 0x20
	RangeUpperNull      byte = 0x40
	RangeContainsEmpty  byte = 0x80
)

// RawRange is the decoded-but-not-yet-element-typed form of a range: flags
// plus the raw encoded lower/upper bound bytes (nil when absent).
type RawRange struct {
	Flags byte
	Lower []byte
	Upper []byte
}

func (r RawRange) HasLower() bool {
	return r.Flags&(RangeLowerInfinite|RangeLowerNull) == 0 && r.Flags&RangeEmpty == 0
}

func (r RawRange) HasUpper() bool {
	return r.Flags&(RangeUpperInfinite|RangeUpperNull) == 0 && r.Flags&RangeEmpty == 0
}

// EncodeRange frames a RawRange's already-element-encoded bounds.
func EncodeRange(r RawRange) []byte {
	buf := []byte{r.Flags}
	if r.HasLower() {
		buf = append(buf, EncodeInt4(int32(len(r.Lower)))...)
		buf = append(buf, r.Lower...)
	}
	if r.HasUpper() {
		buf = append(buf, EncodeInt4(int32(len(r.Upper)))...)
		buf = append(buf, r.Upper...)
	}
	return buf
}

// DecodeRange splits the wire bytes into flags plus raw (still
// element-encoded) lower/upper bound byte slices; the caller applies the
// element codec to Lower/Upper.
func DecodeRange(buf []byte) (RawRange, error) {
	if len(buf) < 1 {
		return RawRange{}, perrors.New(perrors.KindTypeMismatch, "range flags missing")
	}
	r := RawRange{Flags: buf[0]}
	off := 1
	if r.HasLower() {
		if len(buf) < off+4 {
			return RawRange{}, perrors.New(perrors.KindTypeMismatch, "range lower bound length truncated")
		}
		n, _ := DecodeInt4(buf[off : off+4])
		off += 4
		if len(buf) < off+int(n) {
			return RawRange{}, perrors.New(perrors.KindTypeMismatch, "range lower bound truncated")
		}
		r.Lower = buf[off : off+int(n)]
		off += int(n)
	}
	if r.HasUpper() {
		if len(buf) < off+4 {
			return RawRange{}, perrors.New(perrors.KindTypeMismatch, "range upper bound length truncated")
		}
		n, _ := DecodeInt4(buf[off : off+4])
		off += 4
		if len(buf) < off+int(n) {
			return RawRange{}, perrors.New(perrors.KindTypeMismatch, "range upper bound truncated")
		}
		r.Upper = buf[off : off+int(n)]
		off += int(n)
	}
	return r, nil
}
