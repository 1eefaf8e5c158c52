// Array wire codec (§4.A dimension 2): dimension count, flags, element
// OID, then per-dimension (length, lower-bound), then row-major elements
// each prefixed with a 32-bit length (or -1 for null).
package codec

import (
	perrors "github.com/pq-async/pqgo/errors"
	"github.com/pq-async/pqgo/internal/wire"
)

// ArrayDim is one (length, lower-bound) pair from the array header.
type ArrayDim struct {
	Length     int32
	LowerBound int32
}

// RawArray is the decoded array envelope before element decoding: the
// dimension list, element OID, and the row-major elements still in their
// raw (possibly-null) encoded form.
type RawArray struct {
	Dims       []ArrayDim
	Flags      int32
	ElementOID OID
	Elements   [][]byte // nil entry means SQL NULL
}

// DecodeArrayHeader parses the dimension/flags/element-OID header and the
// row-major element list, leaving per-element decoding to the caller
// (which knows the target native type).
func DecodeArrayHeader(buf []byte) (RawArray, error) {
	r := wire.NewReader(buf)
	ndim, err := r.Int32()
	if err != nil {
		return RawArray{}, err
	}
	flags, err := r.Int32()
	if err != nil {
		return RawArray{}, err
	}
	elemOID, err := r.Uint32()
	if err != nil {
		return RawArray{}, err
	}
	dims := make([]ArrayDim, ndim)
	total := int32(1)
	for i := 0; i < int(ndim); i++ {
		length, err := r.Int32()
		if err != nil {
			return RawArray{}, err
		}
		lb, err := r.Int32()
		if err != nil {
			return RawArray{}, err
		}
		dims[i] = ArrayDim{Length: length, LowerBound: lb}
		total *= length
	}
	if ndim == 0 {
		total = 0
	}
	elems := make([][]byte, 0, total)
	for i := int32(0); i < total; i++ {
		data, isNull, err := r.Bytes32()
		if err != nil {
			return RawArray{}, err
		}
		if isNull {
			elems = append(elems, nil)
		} else {
			elems = append(elems, append([]byte(nil), data...))
		}
	}
	return RawArray{Dims: dims, Flags: flags, ElementOID: OID(elemOID), Elements: elems}, nil
}

// EncodeArray frames a RawArray whose Elements are already element-encoded.
func EncodeArray(a RawArray) []byte {
	b := wire.NewBuilder(0)
	b.Int32(int32(len(a.Dims)))
	b.Int32(a.Flags)
	b.Int32(int32(a.ElementOID))
	for _, d := range a.Dims {
		b.Int32(d.Length)
		b.Int32(d.LowerBound)
	}
	buf := b.Raw()
	for _, e := range a.Elements {
		if e == nil {
			buf = append(buf, EncodeInt4(-1)...)
			continue
		}
		buf = append(buf, EncodeInt4(int32(len(e)))...)
		buf = append(buf, e...)
	}
	return buf
}

// RequireDims validates the requested dimensionality matches the header,
// per §4.E "requires ... the requested dimensionality to match the header".
func (a RawArray) RequireDims(n int) error {
	if len(a.Dims) != n {
		return perrors.Newf(perrors.KindTypeMismatch,
			"array has %d dimensions, requested %d", len(a.Dims), n)
	}
	return nil
}
