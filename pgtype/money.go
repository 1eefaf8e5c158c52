package pgtype

import (
	pqcodec "github.com/pq-async/pqgo/internal/codec"
	pqdec "github.com/pq-async/pqgo/internal/decimal"

	perrors "github.com/pq-async/pqgo/errors"
)

// Money is a 64-bit scaled integer plus the fractional-digits count it was
// scaled against (§3 Money). Two Money values with different
// FractionalDigits are rescaled to the higher precision before comparison
// or arithmetic.
type Money struct {
	Scaled           int64
	FractionalDigits int
}

func pow10i(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

func rescaleMoney(m Money, digits int) Money {
	if m.FractionalDigits == digits {
		return m
	}
	if digits < m.FractionalDigits {
		panic("rescaleMoney: target precision must be >= source")
	}
	return Money{Scaled: m.Scaled * pow10i(digits-m.FractionalDigits), FractionalDigits: digits}
}

func align(a, b Money) (Money, Money) {
	digits := a.FractionalDigits
	if b.FractionalDigits > digits {
		digits = b.FractionalDigits
	}
	return rescaleMoney(a, digits), rescaleMoney(b, digits)
}

// AddMoney promotes both operands to the higher fractional-digits count
// before adding (§3 Money).
func AddMoney(a, b Money) Money {
	a, b = align(a, b)
	return Money{Scaled: a.Scaled + b.Scaled, FractionalDigits: a.FractionalDigits}
}

func SubMoney(a, b Money) Money {
	a, b = align(a, b)
	return Money{Scaled: a.Scaled - b.Scaled, FractionalDigits: a.FractionalDigits}
}

func CompareMoney(a, b Money) int {
	a, b = align(a, b)
	switch {
	case a.Scaled < b.Scaled:
		return -1
	case a.Scaled > b.Scaled:
		return 1
	default:
		return 0
	}
}

// ToDecimal converts exactly within FractionalDigits (§3: "exact within the
// chosen fractional-digits count").
func (m Money) ToDecimal() pqdec.Decimal {
	return pqdec.FromInt64(m.Scaled, int32(m.FractionalDigits))
}

// MoneyFromDecimal scales d to the given fractional-digits count,
// truncating any finer precision.
func MoneyFromDecimal(d pqdec.Decimal, fractionalDigits int) (Money, error) {
	scaled := pqdec.Mul(d, pqdec.FromInt64(pow10i(fractionalDigits), 0))
	v, err := pqdec.Truncate(scaled, 0).ToInt64()
	if err != nil {
		return Money{}, perrors.Wrap(perrors.KindOverflow, err, "money value out of int64 range")
	}
	return Money{Scaled: v, FractionalDigits: fractionalDigits}, nil
}

// String renders with no locale-dependent formatting (§3: "no
// locale-dependent formatting appears in the wire format").
func (m Money) String() string {
	d := m.ToDecimal()
	return d.String()
}

func (m Money) Encode() []byte { return pqcodec.EncodeMoney(m.Scaled) }

// DecodeMoney applies the handle-level fractional-digits configuration
// rather than reading the ambient locale, per DESIGN.md's resolution of the
// money Open Question.
func DecodeMoney(buf []byte, fractionalDigits int) (Money, error) {
	v, err := pqcodec.DecodeMoney(buf)
	if err != nil {
		return Money{}, err
	}
	return Money{Scaled: v, FractionalDigits: fractionalDigits}, nil
}
