package codec

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	pqdec "github.com/pq-async/pqgo/internal/decimal"

	perrors "github.com/pq-async/pqgo/errors"
)

// --- bool ---------------------------------------------------------------

func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func DecodeBool(buf []byte) (bool, error) {
	if len(buf) != 1 {
		return false, perrors.New(perrors.KindTypeMismatch, "bool must be 1 byte")
	}
	return buf[0] != 0, nil
}

// DecodeBoolText accepts the textual forms §4.A lists: "t"/"f", "true"/
// "false", "1"/"0".
func DecodeBoolText(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1", "y", "yes", "on":
		return true, nil
	case "f", "false", "0", "n", "no", "off":
		return false, nil
	}
	return false, perrors.Newf(perrors.KindInvalidArgument, "invalid boolean literal %q", s)
}

// --- fixed-width integers ------------------------------------------------

func EncodeInt2(v int16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

func DecodeInt2(buf []byte) (int16, error) {
	if len(buf) != 2 {
		return 0, perrors.New(perrors.KindTypeMismatch, "int2 must be 2 bytes")
	}
	return int16(binary.BigEndian.Uint16(buf)), nil
}

func EncodeInt4(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

func DecodeInt4(buf []byte) (int32, error) {
	if len(buf) != 4 {
		return 0, perrors.New(perrors.KindTypeMismatch, "int4 must be 4 bytes")
	}
	return int32(binary.BigEndian.Uint32(buf)), nil
}

func EncodeInt8(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func DecodeInt8(buf []byte) (int64, error) {
	if len(buf) != 8 {
		return 0, perrors.New(perrors.KindTypeMismatch, "int8 must be 8 bytes")
	}
	return int64(binary.BigEndian.Uint64(buf)), nil
}

func EncodeUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func DecodeUint32(buf []byte) (uint32, error) {
	if len(buf) != 4 {
		return 0, perrors.New(perrors.KindTypeMismatch, "oid must be 4 bytes")
	}
	return binary.BigEndian.Uint32(buf), nil
}

// --- floats: same byte-swap as the integer of matching size -------------

func EncodeFloat4(v float32) []byte {
	return EncodeInt4(int32(math.Float32bits(v)))
}

func DecodeFloat4(buf []byte) (float32, error) {
	v, err := DecodeInt4(buf)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

func EncodeFloat8(v float64) []byte {
	return EncodeInt8(int64(math.Float64bits(v)))
}

func DecodeFloat8(buf []byte) (float64, error) {
	v, err := DecodeInt8(buf)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

// --- text / varchar / bpchar ---------------------------------------------

// EncodeText returns the raw UTF-8 bytes (§4.A text/varchar/bpchar).
func EncodeText(s string) []byte { return []byte(s) }

// DecodeText returns raw UTF-8 bytes as-is; fixed-width bpchar padding is
// not trimmed on decode, per §4.A.
func DecodeText(buf []byte) string { return string(buf) }

// --- bytea ----------------------------------------------------------------

// DecodeBytea returns the raw bytes (§4.A: "raw bytes on decode").
func DecodeBytea(buf []byte) []byte { return append([]byte(nil), buf...) }

// EncodeByteaText renders the text-format `\x`+hex encoding used on send,
// since the binary format is unused by this core on send (§4.A bytea).
func EncodeByteaText(v []byte) []byte {
	const hextable = "0123456789abcdef"
	out := make([]byte, 0, len(v)*2+2)
	out = append(out, '\\', 'x')
	for _, b := range v {
		out = append(out, hextable[b>>4], hextable[b&0x0f])
	}
	return out
}

// --- numeric ---------------------------------------------------------------

const (
	numericPositive = 0x0000
	numericNegative = 0x4000
	numericNaN      = 0xC000
)

// EncodeNumeric renders d per §4.A: four int16 headers (digit count,
// weight, sign code, display scale) then digit-count int16 digits.
func EncodeNumeric(d pqdec.Decimal) []byte {
	digits := d.Digits()
	buf := make([]byte, 0, 8+2*len(digits))
	buf = append(buf, EncodeInt2(int16(len(digits)))...)
	buf = append(buf, EncodeInt2(int16(d.Weight()))...)
	var signCode int16
	switch d.SignOf() {
	case pqdec.Negative:
		signCode = numericNegative
	case pqdec.NaN:
		signCode = numericNaN
	default:
		signCode = numericPositive
	}
	buf = append(buf, EncodeInt2(signCode)...)
	buf = append(buf, EncodeInt2(int16(d.DisplayScale()))...)
	for _, dg := range digits {
		buf = append(buf, EncodeInt2(dg)...)
	}
	return buf
}

// DecodeNumeric parses the binary numeric layout of §4.A.
func DecodeNumeric(buf []byte) (pqdec.Decimal, error) {
	if len(buf) < 8 {
		return pqdec.Decimal{}, perrors.New(perrors.KindTypeMismatch, "numeric header truncated")
	}
	ndigits := int16(binary.BigEndian.Uint16(buf[0:2]))
	weight := int16(binary.BigEndian.Uint16(buf[2:4]))
	signCode := binary.BigEndian.Uint16(buf[4:6])
	dscale := int16(binary.BigEndian.Uint16(buf[6:8]))
	if len(buf) < 8+2*int(ndigits) {
		return pqdec.Decimal{}, perrors.New(perrors.KindTypeMismatch, "numeric digits truncated")
	}
	digits := make([]int16, ndigits)
	for i := 0; i < int(ndigits); i++ {
		digits[i] = int16(binary.BigEndian.Uint16(buf[8+2*i : 10+2*i]))
	}
	var sign pqdec.Sign
	switch signCode {
	case numericNegative:
		sign = pqdec.Negative
	case numericNaN:
		sign = pqdec.NaN
	case numericPositive:
		sign = pqdec.Positive
	default:
		return pqdec.Decimal{}, perrors.Newf(perrors.KindProtocolViolation, "unknown numeric sign code 0x%x", signCode)
	}
	return pqdec.FromParts(sign, int32(weight), int32(dscale), digits), nil
}

// DecodeNumericText parses decimal text (§4.A text decode for numeric).
func DecodeNumericText(s string) (pqdec.Decimal, error) {
	return pqdec.Parse(s)
}

// --- money ------------------------------------------------------------

// EncodeMoney renders the int8 scaled value (§4.A money).
func EncodeMoney(scaled int64) []byte { return EncodeInt8(scaled) }

// DecodeMoney returns the raw int8 scaled value; the fractional-digits
// count is applied by the pgtype.Money constructor, not here, per the
// Open Question resolution in DESIGN.md (frozen against handle config
// rather than read from the ambient locale by default).
func DecodeMoney(buf []byte) (int64, error) { return DecodeInt8(buf) }

// DecodeMoneyText parses text-format money, stripping a leading currency
// symbol and thousands separators the server may emit.
func DecodeMoneyText(s string, fractionalDigits int) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			sb.WriteRune(r)
		}
	}
	d, err := pqdec.Parse(sb.String())
	if err != nil {
		return 0, err
	}
	scaled := pqdec.Mul(d, pqdec.FromInt64(pow10(fractionalDigits), 0))
	v, err := scaled.ToInt64()
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// --- uuid -----------------------------------------------------------------

// DecodeUUIDBytes returns the 16 raw bytes (§4.A uuid).
func DecodeUUIDBytes(buf []byte) ([16]byte, error) {
	var out [16]byte
	if len(buf) != 16 {
		return out, perrors.New(perrors.KindTypeMismatch, "uuid must be 16 bytes")
	}
	copy(out[:], buf)
	return out, nil
}

// --- cross-type coercion (§4.A "Cross-type coercion at decode") ---------

// CoerceIntToInt64 widens/narrows between the fixed integer sizes.
func CoerceIntToInt64(oid OID, buf []byte) (int64, error) {
	switch oid {
	case OIDInt2:
		v, err := DecodeInt2(buf)
		return int64(v), err
	case OIDInt4:
		v, err := DecodeInt4(buf)
		return int64(v), err
	case OIDInt8:
		return DecodeInt8(buf)
	}
	return 0, perrors.Newf(perrors.KindUnsupportedFormat, "oid %d is not an integer type", oid)
}

// CoerceNumericToFloat64 implements the documented numeric->double widening.
func CoerceNumericToFloat64(d pqdec.Decimal) (float64, error) {
	return d.ToFloat64()
}

// CoerceAnyIntegerToBool implements any-integer->bool (nonzero is true).
func CoerceAnyIntegerToBool(v int64) bool { return v != 0 }

// ParseFloatText is used by several text-format decoders (geometric types).
func ParseFloatText(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, perrors.Wrapf(perrors.KindInvalidArgument, err, "invalid float literal %q", s)
	}
	return f, nil
}
