// Package params implements the parameter pack of §4.D: an ordered list of
// (oid, owned buffer, length, format) tuples built by dispatching on the
// static Go type of each variadic argument. Grounded on
// original_source/include/pq-async/data_parameters.h and
// src/data_parameters.cpp, which build parallel oid/ptr/len/format C arrays
// from an identically-shaped overload set.
package params

import (
	"time"

	pqcodec "github.com/pq-async/pqgo/internal/codec"
	pqdec "github.com/pq-async/pqgo/internal/decimal"
	"github.com/pq-async/pqgo/pgtype"

	perrors "github.com/pq-async/pqgo/errors"
	"github.com/shopspring/decimal"
)

// Param is one encoded bind parameter: the server type OID the value was
// encoded for, its payload (nil for SQL NULL; binary except for bytea, which
// is sent in text format), and its wire format.
// Buffer ownership is exclusive to the Pack, per §3 Parameter pack.
type Param struct {
	OID    pqcodec.OID
	Buf    []byte
	Format pqcodec.Format
}

// Pack is the ordered parameter list accompanying one request; ordering
// matches the positional $1...$n references in the SQL text.
type Pack struct {
	params []Param
}

// New builds a Pack from a heterogeneous argument list, dispatching on each
// argument's static Go type (§4.D).
func New(args ...any) (*Pack, error) {
	p := &Pack{params: make([]Param, 0, len(args))}
	for i, a := range args {
		param, err := encodeArg(a)
		if err != nil {
			return nil, perrors.Wrapf(perrors.KindTypeMismatch, err, "parameter $%d", i+1)
		}
		p.params = append(p.params, param)
	}
	return p, nil
}

// Null is a typed null: it carries a phantom OID with a nil buffer and
// format=1, so Bind sends (type-oid, length -1 = SQL NULL) rather than an
// untyped null (§4.D).
type Null struct{ OID pqcodec.OID }

// UntypedNull encodes as (oid=0, ...) so the server infers the type from
// context (§4.D).
var UntypedNull = Null{OID: 0}

func encodeArg(a any) (Param, error) {
	switch v := a.(type) {
	case nil:
		return Param{OID: 0, Buf: nil, Format: pqcodec.FormatBinary}, nil
	case Null:
		return Param{OID: v.OID, Buf: nil, Format: pqcodec.FormatBinary}, nil
	case bool:
		return Param{OID: pqcodec.OIDBool, Buf: pqcodec.EncodeBool(v), Format: pqcodec.FormatBinary}, nil
	case int16:
		return Param{OID: pqcodec.OIDInt2, Buf: pqcodec.EncodeInt2(v), Format: pqcodec.FormatBinary}, nil
	case int32:
		return Param{OID: pqcodec.OIDInt4, Buf: pqcodec.EncodeInt4(v), Format: pqcodec.FormatBinary}, nil
	case int:
		return Param{OID: pqcodec.OIDInt8, Buf: pqcodec.EncodeInt8(int64(v)), Format: pqcodec.FormatBinary}, nil
	case int64:
		return Param{OID: pqcodec.OIDInt8, Buf: pqcodec.EncodeInt8(v), Format: pqcodec.FormatBinary}, nil
	case float32:
		return Param{OID: pqcodec.OIDFloat4, Buf: pqcodec.EncodeFloat4(v), Format: pqcodec.FormatBinary}, nil
	case float64:
		return Param{OID: pqcodec.OIDFloat8, Buf: pqcodec.EncodeFloat8(v), Format: pqcodec.FormatBinary}, nil
	case string:
		return Param{OID: pqcodec.OIDText, Buf: pqcodec.EncodeText(v), Format: pqcodec.FormatBinary}, nil
	case []byte:
		return Param{OID: pqcodec.OIDBytea, Buf: pqcodec.EncodeByteaText(v), Format: pqcodec.FormatText}, nil
	case pqdec.Decimal:
		return Param{OID: pqcodec.OIDNumeric, Buf: pqcodec.EncodeNumeric(v), Format: pqcodec.FormatBinary}, nil
	case decimal.Decimal:
		d, err := pqdec.Parse(v.String())
		if err != nil {
			return Param{}, err
		}
		return Param{OID: pqcodec.OIDNumeric, Buf: pqcodec.EncodeNumeric(d), Format: pqcodec.FormatBinary}, nil
	case time.Time:
		return Param{OID: pqcodec.OIDTimestampTZ, Buf: pqcodec.EncodeTimestampTZ(v), Format: pqcodec.FormatBinary}, nil
	case [16]byte:
		return Param{OID: pqcodec.OIDUUID, Buf: append([]byte(nil), v[:]...), Format: pqcodec.FormatBinary}, nil
	case pgtype.Money:
		return Param{OID: pqcodec.OIDMoney, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Inet:
		return Param{OID: pqcodec.OIDInet, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Cidr:
		return Param{OID: pqcodec.OIDCidr, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.MacAddr:
		return Param{OID: pqcodec.OIDMacAddr, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.MacAddr8:
		return Param{OID: pqcodec.OIDMacAddr8, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Point:
		return Param{OID: pqcodec.OIDPoint, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Line:
		return Param{OID: pqcodec.OIDLine, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Lseg:
		return Param{OID: pqcodec.OIDLseg, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Box:
		return Param{OID: pqcodec.OIDBox, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Path:
		return Param{OID: pqcodec.OIDPath, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Polygon:
		return Param{OID: pqcodec.OIDPolygon, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Circle:
		return Param{OID: pqcodec.OIDCircle, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.UUID:
		return Param{OID: pqcodec.OIDUUID, Buf: v.Encode(), Format: pqcodec.FormatBinary}, nil
	case pgtype.JSON:
		return Param{OID: pqcodec.OIDJSONB, Buf: v.EncodeJSONB(), Format: pqcodec.FormatBinary}, nil
	case pgtype.Range[int32]:
		buf := pgtype.EncodeRange(v, func(e int32) []byte { return pqcodec.EncodeInt4(e) })
		return Param{OID: pqcodec.OIDInt4Range, Buf: buf, Format: pqcodec.FormatBinary}, nil
	case pgtype.Range[int64]:
		buf := pgtype.EncodeRange(v, func(e int64) []byte { return pqcodec.EncodeInt8(e) })
		return Param{OID: pqcodec.OIDInt8Range, Buf: buf, Format: pqcodec.FormatBinary}, nil
	case pgtype.Range[pqdec.Decimal]:
		buf := pgtype.EncodeRange(v, func(e pqdec.Decimal) []byte { return pqcodec.EncodeNumeric(e) })
		return Param{OID: pqcodec.OIDNumRange, Buf: buf, Format: pqcodec.FormatBinary}, nil
	case pgtype.Range[time.Time]:
		buf := pgtype.EncodeRange(v, func(e time.Time) []byte { return pqcodec.EncodeTimestampTZ(e) })
		return Param{OID: pqcodec.OIDTSTZRange, Buf: buf, Format: pqcodec.FormatBinary}, nil
	}
	return Param{}, perrors.Newf(perrors.KindTypeMismatch, "no parameter encoding for Go type %T", a)
}

// Len reports the number of parameters in the pack.
func (p *Pack) Len() int { return len(p.params) }

// At returns the i'th parameter.
func (p *Pack) At(i int) Param { return p.params[i] }

// OIDs returns the parameter OIDs in order, for Parse's parameter-OID list.
func (p *Pack) OIDs() []pqcodec.OID {
	out := make([]pqcodec.OID, len(p.params))
	for i, prm := range p.params {
		out[i] = prm.OID
	}
	return out
}

// Each yields every parameter in order.
func (p *Pack) Each(fn func(i int, prm Param)) {
	for i, prm := range p.params {
		fn(i, prm)
	}
}
