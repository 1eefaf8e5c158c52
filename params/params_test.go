package params

import (
	"testing"

	pqcodec "github.com/pq-async/pqgo/internal/codec"
	pqdec "github.com/pq-async/pqgo/internal/decimal"
	"github.com/pq-async/pqgo/pgtype"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackOrderingMatchesArgOrder(t *testing.T) {
	p, err := New(int32(1), "two", true)
	require.NoError(t, err)
	require.Equal(t, 3, p.Len())
	assert.Equal(t, pqcodec.OIDInt4, p.At(0).OID)
	assert.Equal(t, pqcodec.OIDText, p.At(1).OID)
	assert.Equal(t, pqcodec.OIDBool, p.At(2).OID)
}

func TestTypedNullCarriesPhantomOID(t *testing.T) {
	p, err := New(Null{OID: pqcodec.OIDInt4})
	require.NoError(t, err)
	prm := p.At(0)
	assert.Equal(t, pqcodec.OIDInt4, prm.OID)
	assert.Nil(t, prm.Buf)
}

func TestUntypedNullHasZeroOID(t *testing.T) {
	p, err := New(UntypedNull)
	require.NoError(t, err)
	assert.Equal(t, pqcodec.OID(0), p.At(0).OID)
}

func TestUnsupportedTypeFails(t *testing.T) {
	_, err := New(struct{}{})
	assert.Error(t, err)
}

func TestShopspringDecimalEncodesAsNumeric(t *testing.T) {
	p, err := New(decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())
	prm := p.At(0)
	assert.Equal(t, pqcodec.OIDNumeric, prm.OID)

	d, err := pqdec.Parse("12.50")
	require.NoError(t, err)
	assert.Equal(t, pqcodec.EncodeNumeric(d), prm.Buf)
}

func TestPgtypeMoneyEncodesAsMoney(t *testing.T) {
	m := pgtype.Money{Scaled: 1050, FractionalDigits: 2}
	p, err := New(m)
	require.NoError(t, err)
	prm := p.At(0)
	assert.Equal(t, pqcodec.OIDMoney, prm.OID)
	assert.Equal(t, m.Encode(), prm.Buf)
}

func TestPgtypePointEncodesAsPoint(t *testing.T) {
	pt := pgtype.Point{X: 1, Y: 2}
	p, err := New(pt)
	require.NoError(t, err)
	prm := p.At(0)
	assert.Equal(t, pqcodec.OIDPoint, prm.OID)
	assert.Equal(t, pt.Encode(), prm.Buf)
}

func TestPgtypeUUIDEncodesAsUUID(t *testing.T) {
	u := pgtype.NewUUID()
	p, err := New(u)
	require.NoError(t, err)
	prm := p.At(0)
	assert.Equal(t, pqcodec.OIDUUID, prm.OID)
	assert.Equal(t, u.Encode(), prm.Buf)
}

func TestPgtypeInt4RangeEncodesAsInt4Range(t *testing.T) {
	r := pgtype.Range[int32]{Lower: 1, Upper: 10, LowerPresent: true, UpperPresent: true, LowerInclusive: true}
	p, err := New(r)
	require.NoError(t, err)
	prm := p.At(0)
	assert.Equal(t, pqcodec.OIDInt4Range, prm.OID)
	want := pgtype.EncodeRange(r, func(v int32) []byte { return pqcodec.EncodeInt4(v) })
	assert.Equal(t, want, prm.Buf)
}
