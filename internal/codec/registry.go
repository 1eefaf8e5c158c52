// Registry dispatch: Encode/Decode keyed by OID and wire Format, tying the
// per-type functions in this package together into the single entry point
// transport and result use. Grounded on the teacher's (*xSQLVAR).value(),
// which is the same idea — one dispatch switch keyed by a type tag that
// calls out to per-type parse/format helpers — generalized here from
// Firebird SQL_TYPE_* tags to Postgres OIDs, and from a single wire
// encoding to the text/binary pair every Postgres type carries.
package codec

import (
	"time"

	pqdec "github.com/pq-async/pqgo/internal/decimal"

	perrors "github.com/pq-async/pqgo/errors"
)

// Decode dispatches a column's raw wire bytes to the matching native Go
// value for its OID and format. Array OIDs are NOT handled here: callers
// decode the envelope with DecodeArrayHeader and recurse per element,
// since the element type determines how each []byte member of RawArray
// is itself decoded.
func Decode(oid OID, format Format, buf []byte) (any, error) {
	if format == FormatText {
		return decodeText(oid, buf)
	}
	return decodeBinary(oid, buf)
}

func decodeBinary(oid OID, buf []byte) (any, error) {
	switch oid {
	case OIDBool:
		return DecodeBool(buf)
	case OIDInt2:
		return DecodeInt2(buf)
	case OIDInt4, OIDOid:
		return DecodeInt4(buf)
	case OIDInt8:
		return DecodeInt8(buf)
	case OIDFloat4:
		return DecodeFloat4(buf)
	case OIDFloat8:
		return DecodeFloat8(buf)
	case OIDText, OIDVarchar, OIDBpchar, OIDName, OIDChar:
		return DecodeText(buf), nil
	case OIDBytea:
		return DecodeBytea(buf), nil
	case OIDNumeric:
		return DecodeNumeric(buf)
	case OIDMoney:
		return DecodeMoney(buf)
	case OIDUUID:
		return DecodeUUIDBytes(buf)
	case OIDJSON:
		return DecodeJSON(buf), nil
	case OIDJSONB:
		return DecodeJSONB(buf)
	case OIDDate:
		return DecodeDate(buf)
	case OIDTime:
		return DecodeTime(buf)
	case OIDTimeTZ:
		return DecodeTimeTZ(buf)
	case OIDTimestamp:
		return DecodeTimestamp(buf)
	case OIDTimestampTZ:
		return DecodeTimestampTZ(buf)
	case OIDInterval:
		return DecodeInterval(buf)
	case OIDInet, OIDCidr:
		return DecodeInet(buf)
	case OIDMacAddr:
		return DecodeMacAddr(buf)
	case OIDMacAddr8:
		return DecodeMacAddr8(buf)
	case OIDPoint:
		return DecodePoint(buf)
	case OIDLine:
		return DecodeLine(buf)
	case OIDLseg:
		return DecodeLseg(buf)
	case OIDBox:
		return DecodeBox(buf)
	case OIDPath:
		return DecodePath(buf)
	case OIDPolygon:
		return DecodePolygon(buf)
	case OIDCircle:
		return DecodeCircle(buf)
	case OIDInt4Range, OIDInt8Range, OIDNumRange, OIDTSRange, OIDTSTZRange, OIDDateRange:
		return DecodeRange(buf)
	}
	return nil, perrors.Newf(perrors.KindUnsupportedFormat, "no binary decoder registered for oid %d", oid)
}

func decodeText(oid OID, buf []byte) (any, error) {
	s := string(buf)
	switch oid {
	case OIDBool:
		return DecodeBoolText(s)
	case OIDInt2, OIDInt4, OIDInt8, OIDOid:
		return s, nil // left as decimal text; nothing downstream narrows it to a Go integer
	case OIDFloat4, OIDFloat8:
		return ParseFloatText(s)
	case OIDText, OIDVarchar, OIDBpchar, OIDName, OIDChar, OIDJSON, OIDJSONB:
		return s, nil
	case OIDBytea:
		return decodeByteaText(s)
	case OIDNumeric:
		return pqdec.Parse(s)
	case OIDMoney:
		return s, nil // fractional-digits count needed to scale; see DecodeMoneyText
	default:
		return s, nil
	}
}

// decodeByteaText parses the `\x` hex-escaped text format bytea arrives in
// outside binary mode.
func decodeByteaText(s string) ([]byte, error) {
	if len(s) < 2 || s[0] != '\\' || s[1] != 'x' {
		return nil, perrors.Newf(perrors.KindTypeMismatch, "unsupported bytea text encoding %q", s)
	}
	hex := s[2:]
	if len(hex)%2 != 0 {
		return nil, perrors.New(perrors.KindTypeMismatch, "bytea hex text has odd length")
	}
	out := make([]byte, len(hex)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexNibble(hex[2*i])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(hex[2*i+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, perrors.Newf(perrors.KindTypeMismatch, "invalid hex digit %q", c)
}

// Encode dispatches a native Go value to its binary wire form for oid.
// Only binary-format encoding is registered here: every type this client
// sends as a bind parameter has a binary representation, per §4.A.
func Encode(oid OID, v any) ([]byte, error) {
	switch oid {
	case OIDBool:
		b, ok := v.(bool)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeBool(b), nil
	case OIDInt2:
		n, ok := v.(int16)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeInt2(n), nil
	case OIDInt4, OIDOid:
		n, ok := v.(int32)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeInt4(n), nil
	case OIDInt8:
		n, ok := v.(int64)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeInt8(n), nil
	case OIDFloat4:
		f, ok := v.(float32)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeFloat4(f), nil
	case OIDFloat8:
		f, ok := v.(float64)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeFloat8(f), nil
	case OIDText, OIDVarchar, OIDBpchar, OIDName, OIDChar:
		s, ok := v.(string)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeText(s), nil
	case OIDBytea:
		b, ok := v.([]byte)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return append([]byte(nil), b...), nil
	case OIDNumeric:
		d, ok := v.(pqdec.Decimal)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeNumeric(d), nil
	case OIDMoney:
		n, ok := v.(int64)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeMoney(n), nil
	case OIDUUID:
		b, ok := v.([16]byte)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return b[:], nil
	case OIDJSON:
		s, ok := v.(string)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeJSON(s), nil
	case OIDJSONB:
		s, ok := v.(string)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeJSONB(s), nil
	case OIDDate:
		t, ok := v.(time.Time)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeDate(t), nil
	case OIDTime:
		t, ok := v.(time.Time)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeTime(t), nil
	case OIDTimeTZ:
		t, ok := v.(time.Time)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeTimeTZ(t), nil
	case OIDTimestamp:
		t, ok := v.(time.Time)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeTimestamp(t), nil
	case OIDTimestampTZ:
		t, ok := v.(time.Time)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeTimestampTZ(t), nil
	case OIDInterval:
		iv, ok := v.(IntervalValue)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeInterval(iv), nil
	case OIDInet, OIDCidr:
		a, ok := v.(NetAddr)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeInet(a), nil
	case OIDMacAddr:
		a, ok := v.([6]byte)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeMacAddr(a), nil
	case OIDMacAddr8:
		a, ok := v.([8]byte)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeMacAddr8(a), nil
	case OIDPoint:
		p, ok := v.(Point)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodePoint(p), nil
	case OIDLine:
		l, ok := v.(Line)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeLine(l), nil
	case OIDLseg:
		l, ok := v.(Lseg)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeLseg(l), nil
	case OIDBox:
		b, ok := v.(Box)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeBox(b), nil
	case OIDPath:
		p, ok := v.(Path)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodePath(p), nil
	case OIDPolygon:
		p, ok := v.(Polygon)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodePolygon(p), nil
	case OIDCircle:
		c, ok := v.(Circle)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeCircle(c), nil
	case OIDInt4Range, OIDInt8Range, OIDNumRange, OIDTSRange, OIDTSTZRange, OIDDateRange:
		r, ok := v.(RawRange)
		if !ok {
			return nil, typeMismatch(oid, v)
		}
		return EncodeRange(r), nil
	}
	return nil, perrors.Newf(perrors.KindUnsupportedFormat, "no binary encoder registered for oid %d", oid)
}

func typeMismatch(oid OID, v any) error {
	return perrors.Newf(perrors.KindTypeMismatch, "value of type %T cannot be encoded as oid %d", v, oid)
}
