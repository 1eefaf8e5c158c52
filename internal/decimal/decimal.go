// Package decimal implements the arbitrary-precision sign-magnitude decimal
// engine of §4.B and §3 "Decimal (numeric)": a sign, a weight (base-10000
// digit-position exponent), a display scale, and a variable-length array of
// base-10000 digits, most-significant first.
//
// Grounded on original_source/include/pq-async/pg_type_numeric_def.h and
// src/pg_type_numeric_def.cpp (the `numeric` class and its friended
// `*_var` free functions: add_var, sub_var, mul_var, div_var, mod_var,
// sqrt_var, ln_var, exp_var, power_var, strip_var, round_var, trunc_var).
// The storage shape (NBASE digit array, weight, dscale, sign) matches the
// wire format exactly, as §4.A's binary numeric layout requires; the actual
// arithmetic is carried out against math/big (Int/Rat/Float) and the result
// is re-derived into the NBASE array through the same text pipeline Parse
// uses, rather than hand-rolled base-10000 carry propagation — safer to get
// right than reimplementing carry/borrow digit-by-digit, while still
// producing bit-exact NBASE digits for the wire. The public-facing
// conversion to/from github.com/shopspring/decimal.Decimal happens only at
// the params/result package boundary (params.New accepts it as a bind
// argument, Row.Decimal returns one), never inside this package.
package decimal

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	perrors "github.com/pq-async/pqgo/errors"
	"modernc.org/mathutil"
)

const dec_digits = 4 // decimal digits per NBASE digit

// maxDisplayScale bounds how many fractional digits a result may carry
// (§4.B: "results that would exceed a maximum display scale (~1000 digits
// after the point) fail with overflow").
const maxDisplayScale = 1000

// RoundMode selects the rounding behavior for Divide.
type RoundMode int

const (
	RoundTruncate RoundMode = iota
	RoundHalfAwayFromZero
)

// Sign enumerates the three states a Decimal's sign may hold.
type Sign int

const (
	Positive Sign = iota
	Negative
	NaN
)

// Decimal is the sign-magnitude value described in §3.
type Decimal struct {
	sign   Sign
	weight int32 // weight of the first digit, in NBASE positions
	dscale int32 // display scale: fractional decimal digits to print
	digits []int16
}

// Zero is the canonical zero value: no digits, weight 0, sign positive.
func Zero() Decimal { return Decimal{sign: Positive} }

// NaNValue returns the not-a-number sentinel.
func NaNValue() Decimal { return Decimal{sign: NaN} }

// IsNaN reports whether d is NaN.
func (d Decimal) IsNaN() bool { return d.sign == NaN }

// DisplayScale returns the number of fractional digits d formats with.
func (d Decimal) DisplayScale() int32 { return d.dscale }

// SignOf reports d's sign.
func (d Decimal) SignOf() Sign { return d.sign }

// IsZero reports whether d is the numeric value zero (NaN is never zero).
func (d Decimal) IsZero() bool { return d.sign != NaN && len(d.digits) == 0 }

// Digits exposes the base-10000 digit array (most-significant first), and
// Weight its exponent, for the codec package's wire encode/decode.
func (d Decimal) Digits() []int16 { return d.digits }
func (d Decimal) Weight() int32   { return d.weight }

// FromParts reconstructs a Decimal directly from wire fields (§4.A numeric
// binary format: digit count, weight, sign code, display scale, digits).
func FromParts(sign Sign, weight, dscale int32, digits []int16) Decimal {
	d := Decimal{sign: sign, weight: weight, dscale: dscale, digits: append([]int16(nil), digits...)}
	return strip(d)
}

// strip removes leading/trailing zero NBASE-digits, restoring the §3
// invariant. Grounded on strip_var in pg_type_numeric_def.cpp.
func strip(d Decimal) Decimal {
	if d.sign == NaN {
		d.digits = nil
		d.weight = 0
		return d
	}
	digits := d.digits
	start := 0
	for start < len(digits) && digits[start] == 0 {
		start++
	}
	end := len(digits)
	for end > start && digits[end-1] == 0 {
		end--
	}
	d.weight -= int32(start)
	if end == start {
		d.digits = nil
		d.weight = 0
		d.sign = Positive
		return d
	}
	d.digits = append([]int16(nil), digits[start:end]...)
	return d
}

// Parse decodes decimal text per §4.B: optional sign, optional decimal
// point, optional exponent; duplicate decimal points are rejected; the
// exponent magnitude is capped to bound derived scales.
func Parse(s string) (Decimal, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Decimal{}, perrors.New(perrors.KindInvalidArgument, "empty numeric literal")
	}
	if strings.EqualFold(s, "nan") {
		return NaNValue(), nil
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	mantissa := s
	exp := int64(0)
	if idx := strings.IndexAny(s, "eE"); idx >= 0 {
		mantissa = s[:idx]
		e, err := strconv.ParseInt(s[idx+1:], 10, 64)
		if err != nil {
			return Decimal{}, perrors.Wrapf(perrors.KindInvalidArgument, err, "invalid exponent in %q", orig)
		}
		// cap exponent magnitude at INT_MAX/2 (mathutil.MaxInt, halved) to
		// avoid overflow in derived scales, per §4.B.
		cap := int64(mathutil.MaxInt / 2)
		if e > cap || e < -cap {
			return Decimal{}, perrors.Newf(perrors.KindInvalidArgument, "exponent magnitude too large in %q", orig)
		}
		exp = e
	}
	if strings.Count(mantissa, ".") > 1 {
		return Decimal{}, perrors.Newf(perrors.KindInvalidArgument, "duplicate decimal point in %q", orig)
	}
	intPart, fracPart := mantissa, ""
	if idx := strings.IndexByte(mantissa, '.'); idx >= 0 {
		intPart, fracPart = mantissa[:idx], mantissa[idx+1:]
	}
	if intPart == "" && fracPart == "" {
		return Decimal{}, perrors.Newf(perrors.KindInvalidArgument, "no digits in %q", orig)
	}
	for _, c := range intPart + fracPart {
		if c < '0' || c > '9' {
			return Decimal{}, perrors.Newf(perrors.KindInvalidArgument, "invalid digit in %q", orig)
		}
	}
	// Apply the exponent by moving the decimal point within the digit
	// string: positive exp shifts it right (into/through fracPart),
	// negative exp shifts it left (into/through intPart).
	if exp > 0 {
		n := int(exp)
		for n > 0 && len(fracPart) > 0 {
			intPart += string(fracPart[0])
			fracPart = fracPart[1:]
			n--
		}
		if n > 0 {
			intPart += strings.Repeat("0", n)
		}
	} else if exp < 0 {
		n := int(-exp)
		for n > 0 && len(intPart) > 0 {
			fracPart = string(intPart[len(intPart)-1]) + fracPart
			intPart = intPart[:len(intPart)-1]
			n--
		}
		if n > 0 {
			fracPart = strings.Repeat("0", n) + fracPart
		}
	}
	dscale := int32(len(fracPart))
	d := buildFromDigitStrings(intPart, fracPart)
	d.dscale = dscale
	if neg {
		d.sign = Negative
	}
	return strip(d), nil
}

// buildFromDigitStrings groups a plain (sign-free) integer-part and
// fractional-part decimal digit string into the NBASE digit array, padding
// to 4-digit boundaries measured from the decimal point outward.
func buildFromDigitStrings(intPart, fracPart string) Decimal {
	if intPart == "" {
		intPart = "0"
	}
	ipad := (dec_digits - len(intPart)%dec_digits) % dec_digits
	intPart = strings.Repeat("0", ipad) + intPart
	fpad := (dec_digits - len(fracPart)%dec_digits) % dec_digits
	fracPart = fracPart + strings.Repeat("0", fpad)

	ik := len(intPart) / dec_digits
	fk := len(fracPart) / dec_digits
	digits := make([]int16, 0, ik+fk)
	for i := 0; i < ik; i++ {
		v, _ := strconv.Atoi(intPart[i*dec_digits : (i+1)*dec_digits])
		digits = append(digits, int16(v))
	}
	for i := 0; i < fk; i++ {
		v, _ := strconv.Atoi(fracPart[i*dec_digits : (i+1)*dec_digits])
		digits = append(digits, int16(v))
	}
	return Decimal{sign: Positive, weight: int32(ik - 1), digits: digits}
}

// digitStrings renders the unsigned integer and fractional decimal-digit
// parts of d based on its weight and digit array.
func (d Decimal) digitStrings() (intPart, fracPart string) {
	if len(d.digits) == 0 {
		return "0", ""
	}
	var all strings.Builder
	for _, dg := range d.digits {
		all.WriteString(leftPad4(dg))
	}
	digits := all.String()
	intDigitCount := (int(d.weight) + 1) * dec_digits
	if intDigitCount <= 0 {
		return "0", strings.Repeat("0", -intDigitCount) + digits
	}
	if intDigitCount >= len(digits) {
		return stripLeadingZeros(digits + strings.Repeat("0", intDigitCount-len(digits))), ""
	}
	return stripLeadingZeros(digits[:intDigitCount]), digits[intDigitCount:]
}

func leftPad4(v int16) string {
	s := strconv.Itoa(int(v))
	for len(s) < dec_digits {
		s = "0" + s
	}
	return s
}

func stripLeadingZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

// String formats d honoring its display scale (§4.B format).
func (d Decimal) String() string {
	if d.sign == NaN {
		return "NaN"
	}
	var sb strings.Builder
	if d.sign == Negative {
		sb.WriteByte('-')
	}
	intPart, fracPart := d.digitStrings()
	sb.WriteString(intPart)
	if d.dscale > 0 {
		if int32(len(fracPart)) < d.dscale {
			fracPart += strings.Repeat("0", int(d.dscale)-len(fracPart))
		} else if int32(len(fracPart)) > d.dscale {
			fracPart = fracPart[:d.dscale]
		}
		sb.WriteByte('.')
		sb.WriteString(fracPart)
	}
	return sb.String()
}

// --- math/big bridge -------------------------------------------------

// toBigInt returns (value, scale) such that d == value * 10^-scale,
// value carrying the sign.
func (d Decimal) toBigInt() (*big.Int, int32) {
	intPart, fracPart := d.digitStrings()
	v := new(big.Int)
	v.SetString(intPart+fracPart, 10)
	if d.sign == Negative {
		v.Neg(v)
	}
	return v, int32(len(fracPart))
}

func fromBigIntScale(v *big.Int, scale int32, dscale int32) Decimal {
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	s := abs.String()
	if scale < 0 {
		s += strings.Repeat("0", int(-scale))
		scale = 0
	}
	for int32(len(s)) <= scale {
		s = "0" + s
	}
	split := len(s) - int(scale)
	intPart, fracPart := s[:split], s[split:]
	d := buildFromDigitStrings(intPart, fracPart)
	if dscale < 0 {
		dscale = scale
	}
	d.dscale = dscale
	if neg {
		d.sign = Negative
	}
	return strip(d)
}

func (d Decimal) toBigRat() *big.Rat {
	v, scale := d.toBigInt()
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	return new(big.Rat).SetFrac(v, den)
}

// --- comparison --------------------------------------------------------

// Compare implements §4.B/§8: NaN compares greater than any number and
// equal to itself; otherwise sign-first then magnitude.
func Compare(a, b Decimal) int {
	if a.sign == NaN && b.sign == NaN {
		return 0
	}
	if a.sign == NaN {
		return 1
	}
	if b.sign == NaN {
		return -1
	}
	av, as := a.toBigInt()
	bv, bs := b.toBigInt()
	scale := maxScale(as, bs)
	av = rescaleInt(av, as, scale)
	bv = rescaleInt(bv, bs, scale)
	return av.Cmp(bv)
}

func rescaleInt(v *big.Int, from, to int32) *big.Int {
	if from == to {
		return v
	}
	out := new(big.Int).Set(v)
	if to > from {
		out.Mul(out, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(to-from)), nil))
	} else {
		out.Quo(out, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(from-to)), nil))
	}
	return out
}

// Equal reports numeric equality (§3: "Equality compares numeric value, not
// representation").
func Equal(a, b Decimal) bool {
	if a.sign == NaN || b.sign == NaN {
		return a.sign == NaN && b.sign == NaN
	}
	return Compare(a, b) == 0
}

// --- arithmetic ----------------------------------------------------------

func propagateNaN(a, b Decimal) (Decimal, bool) {
	if a.sign == NaN || b.sign == NaN {
		return NaNValue(), true
	}
	return Decimal{}, false
}

func maxScale(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Add implements add_var: sign-aware addition with a result dscale equal to
// the larger operand's dscale.
func Add(a, b Decimal) Decimal {
	if r, ok := propagateNaN(a, b); ok {
		return r
	}
	av, as := a.toBigInt()
	bv, bs := b.toBigInt()
	scale := maxScale(as, bs)
	av = rescaleInt(av, as, scale)
	bv = rescaleInt(bv, bs, scale)
	sum := new(big.Int).Add(av, bv)
	return fromBigIntScale(sum, scale, maxScale(a.dscale, b.dscale))
}

// Sub implements sub_var.
func Sub(a, b Decimal) Decimal {
	if r, ok := propagateNaN(a, b); ok {
		return r
	}
	av, as := a.toBigInt()
	bv, bs := b.toBigInt()
	scale := maxScale(as, bs)
	av = rescaleInt(av, as, scale)
	bv = rescaleInt(bv, bs, scale)
	diff := new(big.Int).Sub(av, bv)
	return fromBigIntScale(diff, scale, maxScale(a.dscale, b.dscale))
}

// Mul implements mul_var: exact schoolbook multiplication (big.Int.Mul is
// exact), result dscale is the sum of the operand dscales, capped at
// maxDisplayScale.
func Mul(a, b Decimal) Decimal {
	if r, ok := propagateNaN(a, b); ok {
		return r
	}
	av, as := a.toBigInt()
	bv, bs := b.toBigInt()
	prod := new(big.Int).Mul(av, bv)
	dscale := a.dscale + b.dscale
	if dscale > maxDisplayScale {
		dscale = maxDisplayScale
	}
	return fromBigIntScale(prod, as+bs, dscale)
}

// Divide implements div_var/div_var_fast with a configurable result scale
// and rounding mode. Division by zero fails with *domain-error*.
func Divide(a, b Decimal, rscale int32, mode RoundMode) (Decimal, error) {
	if a.sign == NaN || b.sign == NaN {
		return NaNValue(), nil
	}
	if b.IsZero() {
		return Decimal{}, perrors.New(perrors.KindDomainError, "division by zero")
	}
	if rscale > maxDisplayScale {
		return Decimal{}, perrors.New(perrors.KindOverflow, "division result scale exceeds maximum display scale")
	}
	r := new(big.Rat).Quo(a.toBigRat(), b.toBigRat())
	switch mode {
	case RoundHalfAwayFromZero:
		s := r.FloatString(int(rscale))
		d, err := Parse(s)
		if err != nil {
			return Decimal{}, err
		}
		d.dscale = rscale
		return d, nil
	default: // RoundTruncate
		s := r.FloatString(int(rscale) + 2)
		neg := strings.HasPrefix(s, "-")
		if neg {
			s = s[1:]
		}
		dot := strings.IndexByte(s, '.')
		if dot < 0 {
			s = s + "."
			dot = len(s) - 1
		}
		frac := s[dot+1:]
		if int32(len(frac)) > rscale {
			frac = frac[:rscale]
		}
		truncated := s[:dot] + "." + frac
		if neg {
			truncated = "-" + truncated
		}
		d, err := Parse(truncated)
		if err != nil {
			return Decimal{}, err
		}
		d.dscale = rscale
		return strip(d), nil
	}
}

// Mod implements mod_var: x - trunc(x/y)*y.
func Mod(a, b Decimal) (Decimal, error) {
	if a.sign == NaN || b.sign == NaN {
		return NaNValue(), nil
	}
	if b.IsZero() {
		return Decimal{}, perrors.New(perrors.KindDomainError, "modulo by zero")
	}
	q, err := Divide(a, b, maxScale(a.dscale, b.dscale)+guardDigits, RoundTruncate)
	if err != nil {
		return Decimal{}, err
	}
	q = Truncate(q, 0)
	return Sub(a, Mul(q, b)), nil
}

const guardDigits = 16

// Ceil rounds toward positive infinity to scale 0.
func Ceil(a Decimal) Decimal {
	if a.sign == NaN {
		return a
	}
	t := Truncate(a, 0)
	if a.sign == Positive && !Equal(t, a) {
		return Add(t, FromInt64(1, 0))
	}
	return t
}

// Floor rounds toward negative infinity to scale 0.
func Floor(a Decimal) Decimal {
	if a.sign == NaN {
		return a
	}
	t := Truncate(a, 0)
	if a.sign == Negative && !Equal(t, a) {
		return Sub(t, FromInt64(1, 0))
	}
	return t
}

// Round rounds to rscale fractional digits, half away from zero.
func Round(a Decimal, rscale int32) Decimal {
	if a.sign == NaN {
		return a
	}
	v, scale := a.toBigInt()
	r := new(big.Rat).SetFrac(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil))
	s := r.FloatString(int(rscale))
	d, _ := Parse(s)
	d.dscale = rscale
	return d
}

// Truncate truncates to rscale fractional digits toward zero.
func Truncate(a Decimal, rscale int32) Decimal {
	if a.sign == NaN {
		return a
	}
	intPart, fracPart := a.digitStrings()
	if int32(len(fracPart)) < rscale {
		fracPart += strings.Repeat("0", int(rscale)-len(fracPart))
	} else {
		fracPart = fracPart[:rscale]
	}
	d := buildFromDigitStrings(intPart, fracPart)
	d.dscale = rscale
	d.sign = a.sign
	return strip(d)
}

// FromInt64 builds a Decimal from an integer scaled by 10^-scale, i.e. val
// represents val * 10^-scale. scale == 0 is a plain integer.
func FromInt64(val int64, scale int32) Decimal {
	dscale := scale
	if dscale < 0 {
		dscale = 0
	}
	return fromBigIntScale(big.NewInt(val), scale, dscale)
}

// ToInt64 truncates d to an int64, per §4.A "numeric->int by truncation".
func (d Decimal) ToInt64() (int64, error) {
	if d.sign == NaN {
		return 0, perrors.New(perrors.KindDomainError, "cannot convert NaN to int64")
	}
	t := Truncate(d, 0)
	v, _ := t.toBigInt()
	if !v.IsInt64() {
		return 0, perrors.New(perrors.KindOverflow, "numeric does not fit in int64")
	}
	return v.Int64(), nil
}

// ToFloat64 converts d to the nearest float64.
func (d Decimal) ToFloat64() (float64, error) {
	if d.sign == NaN {
		return 0, perrors.New(perrors.KindDomainError, "cannot convert NaN to float64")
	}
	f, _ := strconv.ParseFloat(d.String(), 64)
	return f, nil
}

// FromFloat64 builds a Decimal from a float64 via its shortest decimal text
// representation (round-trip safe for any float64).
func FromFloat64(f float64) (Decimal, error) {
	return Parse(strconv.FormatFloat(f, 'f', -1, 64))
}

// --- transcendental helpers (Newton iteration on big.Float) -------------

func toBigFloat(d Decimal, prec uint) *big.Float {
	v, scale := d.toBigInt()
	f := new(big.Float).SetPrec(prec).SetInt(v)
	den := new(big.Float).SetPrec(prec).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil))
	return new(big.Float).SetPrec(prec).Quo(f, den)
}

func fromBigFloat(f *big.Float, rscale int32) Decimal {
	s := f.Text('f', int(rscale))
	d, _ := Parse(s)
	d.dscale = rscale
	return d
}

// precForScale picks a working precision comfortably larger than the
// requested result scale, matching §4.B's "Newton iteration until
// successive iterates agree at the local scale".
func precForScale(rscale int32) uint {
	p := uint(rscale)*4 + 128
	if p < 128 {
		p = 128
	}
	return p
}

// Sqrt implements sqrt_var via Newton iteration (big.Float.Sqrt, itself
// Newton-based, matches the spec's documented algorithm).
func Sqrt(a Decimal, rscale int32) (Decimal, error) {
	if a.sign == NaN {
		return NaNValue(), nil
	}
	if a.sign == Negative {
		return Decimal{}, perrors.New(perrors.KindDomainError, "sqrt of negative number")
	}
	prec := precForScale(rscale)
	x := toBigFloat(a, prec)
	y := new(big.Float).SetPrec(prec).Sqrt(x)
	return fromBigFloat(y, rscale), nil
}

// Ln implements ln_var via Newton iteration on the inverse of Exp:
// solve exp(y) - x = 0 using y_{n+1} = y_n + x*exp(-y_n) - 1.
func Ln(a Decimal, rscale int32) (Decimal, error) {
	if a.sign == NaN {
		return NaNValue(), nil
	}
	if a.sign != Positive || a.IsZero() {
		return Decimal{}, perrors.New(perrors.KindDomainError, "ln of non-positive number")
	}
	prec := precForScale(rscale)
	x := toBigFloat(a, prec)
	// initial guess via float64 math.Log, refined by Newton below.
	xf, _ := x.Float64()
	y := new(big.Float).SetPrec(prec).SetFloat64(math.Log(xf))
	for i := 0; i < 60; i++ {
		ey := expBigFloat(y, prec)
		// y = y + x/ey - 1
		term := new(big.Float).SetPrec(prec).Quo(x, ey)
		term.Sub(term, big.NewFloat(1))
		newY := new(big.Float).SetPrec(prec).Add(y, term)
		diff := new(big.Float).SetPrec(prec).Sub(newY, y)
		y = newY
		if diff.MinPrec() == 0 {
			break
		}
	}
	return fromBigFloat(y, rscale), nil
}

// Exp implements exp_var via a Taylor series with argument reduction by
// repeated squaring (e^x = (e^(x/2^k))^(2^k)).
func Exp(a Decimal, rscale int32) (Decimal, error) {
	if a.sign == NaN {
		return NaNValue(), nil
	}
	prec := precForScale(rscale)
	x := toBigFloat(a, prec)
	return fromBigFloat(expBigFloat(x, prec), rscale), nil
}

func expBigFloat(x *big.Float, prec uint) *big.Float {
	// range-reduce so |x/2^k| < 1
	k := 0
	reduced := new(big.Float).SetPrec(prec).Set(x)
	one := big.NewFloat(1)
	for reduced.MinPrec() > 0 && new(big.Float).Abs(reduced).Cmp(one) > 0 {
		reduced.Quo(reduced, big.NewFloat(2))
		k++
		if k > 2048 {
			break
		}
	}
	sum := big.NewFloat(1).SetPrec(prec)
	term := big.NewFloat(1).SetPrec(prec)
	for n := 1; n < 200; n++ {
		term.Mul(term, reduced)
		term.Quo(term, big.NewFloat(float64(n)))
		sum.Add(sum, term)
		if term.MinPrec() == 0 {
			break
		}
	}
	for i := 0; i < k; i++ {
		sum.Mul(sum, sum)
	}
	return sum
}

// Log implements log_var: logarithm of num to the given base.
func Log(base, num Decimal, rscale int32) (Decimal, error) {
	lb, err := Ln(base, rscale+guardDigits)
	if err != nil {
		return Decimal{}, err
	}
	ln, err := Ln(num, rscale+guardDigits)
	if err != nil {
		return Decimal{}, err
	}
	return Divide(ln, lb, rscale, RoundHalfAwayFromZero)
}

// Pow implements power_var: base^exp for a decimal exponent, via exp(exp*ln(base)).
func Pow(base, exp Decimal, rscale int32) (Decimal, error) {
	if base.sign == NaN || exp.sign == NaN {
		return NaNValue(), nil
	}
	if base.IsZero() {
		if exp.IsZero() {
			return FromInt64(1, 0), nil
		}
		return Zero(), nil
	}
	ln, err := Ln(base, rscale+guardDigits)
	if err != nil {
		return Decimal{}, err
	}
	prod := Mul(ln, exp)
	return Exp(prod, rscale)
}

// PowInt implements power_var_int: integer exponentiation by binary
// exponentiation (exact, no transcendental approximation).
func PowInt(base Decimal, exp int, rscale int32) (Decimal, error) {
	if base.sign == NaN {
		return NaNValue(), nil
	}
	if exp < 0 {
		pos, err := PowInt(base, -exp, rscale+guardDigits)
		if err != nil {
			return Decimal{}, err
		}
		return Divide(FromInt64(1, 0), pos, rscale, RoundHalfAwayFromZero)
	}
	result := FromInt64(1, 0)
	b := base
	for exp > 0 {
		if exp&1 == 1 {
			result = Mul(result, b)
		}
		b = Mul(b, b)
		exp >>= 1
	}
	return Round(result, rscale), nil
}
