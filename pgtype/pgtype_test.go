package pgtype

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCidrRoundTrip(t *testing.T) {
	c, err := NewCidr(FamilyV4, 24, net.ParseIP("192.168.0.0"))
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.0/24", c.String())

	buf := c.Encode()
	got, err := DecodeCidr(buf)
	require.NoError(t, err)
	assert.Equal(t, c.Bits, got.Bits)
	assert.True(t, c.Address.Equal(got.Address))
	assert.Equal(t, "192.168.0.0/24", got.String())
}

func TestCidrRejectsSetHostBits(t *testing.T) {
	_, err := NewCidr(FamilyV4, 24, net.ParseIP("192.168.0.5"))
	assert.Error(t, err)
}

func TestMacAddr8EUI64Conversion(t *testing.T) {
	buf := []byte{0x08, 0x00, 0x2b, 0x01, 0x02, 0x03}
	m, err := DecodeMacAddr8(buf)
	require.NoError(t, err)
	assert.Equal(t, MacAddr8{0x08, 0x00, 0x2b, 0xFF, 0xFE, 0x01, 0x02, 0x03}, m)
}

func TestPointRoundTrip(t *testing.T) {
	p := Point{X: 1.5, Y: -2.25}
	got, err := DecodePoint(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestPolygonBoundsComputedOnDecode(t *testing.T) {
	p := Polygon{Points: []Point{{0, 0}, {4, 0}, {4, 3}, {0, 3}}}
	got, err := DecodePolygon(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, Box{High: Point{4, 3}, Low: Point{0, 0}}, got.Bounds)
}

func TestMoneyRescaleBeforeArithmetic(t *testing.T) {
	a := Money{Scaled: 150, FractionalDigits: 2} // 1.50
	b := Money{Scaled: 5, FractionalDigits: 1}   // 0.5
	sum := AddMoney(a, b)
	assert.Equal(t, 2, sum.FractionalDigits)
	assert.Equal(t, int64(200), sum.Scaled) // 2.00
}

func TestInt4RangeIteratorInclusiveBounds(t *testing.T) {
	r := Range[int32]{Lower: 1, Upper: 5, LowerPresent: true, UpperPresent: true,
		LowerInclusive: true, UpperInclusive: true}
	it, err := NewInt4Iterator(r)
	require.NoError(t, err)
	var got []int32
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
		if len(got) > 10 {
			t.Fatal("iterator did not terminate")
		}
	}
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, got)
}

func TestInt4RangeIteratorAdvancePastEndFails(t *testing.T) {
	r := Range[int32]{Lower: 1, Upper: 1, LowerPresent: true, UpperPresent: true,
		LowerInclusive: true, UpperInclusive: true}
	it, err := NewInt4Iterator(r)
	require.NoError(t, err)
	require.NoError(t, it.Advance())
	assert.Error(t, it.Advance())
}

func TestInt4RangeHalfOpenCount(t *testing.T) {
	// [1, 5) inclusive-lower / exclusive-upper should yield 4 values.
	r := Range[int32]{Lower: 1, Upper: 5, LowerPresent: true, UpperPresent: true,
		LowerInclusive: true, UpperInclusive: false}
	it, err := NewInt4Iterator(r)
	require.NoError(t, err)
	n := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		n++
	}
	assert.Equal(t, 4, n)
}

func TestJSONRoundTrip(t *testing.T) {
	j, err := ParseJSON(`{"a":1,"b":[true,null,"x"]}`)
	require.NoError(t, err)
	got, err := DecodeJSON(j.EncodeJSON())
	require.NoError(t, err)
	assert.Equal(t, j.String(), got.String())
}

func TestJSONBVersionByte(t *testing.T) {
	j := NewJSON(map[string]any{"k": 1.0})
	buf := j.EncodeJSONB()
	assert.Equal(t, byte(1), buf[0])
	got, err := DecodeJSONB(buf)
	require.NoError(t, err)
	assert.Equal(t, j.String(), got.String())
}
