package result

import (
	"testing"

	pqcodec "github.com/pq-async/pqgo/internal/codec"
	pqdec "github.com/pq-async/pqgo/internal/decimal"
	"github.com/pq-async/pqgo/pgtype"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable() *Table {
	cols := NewColumns([]Column{
		{Name: "ID", OID: pqcodec.OIDInt4, Format: pqcodec.FormatBinary},
		{Name: "Name", OID: pqcodec.OIDText, Format: pqcodec.FormatBinary},
	})
	tbl := NewTable(cols)
	tbl.Append([][]byte{pqcodec.EncodeInt4(1), pqcodec.EncodeText("alice")})
	tbl.Append([][]byte{pqcodec.EncodeInt4(2), nil})
	return tbl
}

func TestColumnNamesLowercased(t *testing.T) {
	tbl := newTestTable()
	i, ok := tbl.Cols.IndexOf("ID")
	require.True(t, ok)
	assert.Equal(t, "id", tbl.Cols.At(i).Name)
}

func TestAsDecodesByNameAndIndex(t *testing.T) {
	tbl := newTestTable()
	byName, err := As[int32](tbl.Rows[0], "id")
	require.NoError(t, err)
	assert.Equal(t, int32(1), byName)

	byIndex, err := As[int32](tbl.Rows[0], 0)
	require.NoError(t, err)
	assert.Equal(t, byIndex, byName)
}

func TestAsUnknownColumnFails(t *testing.T) {
	tbl := newTestTable()
	_, err := As[int32](tbl.Rows[0], "missing")
	assert.Error(t, err)
}

func TestAsNullValueFails(t *testing.T) {
	tbl := newTestTable()
	_, err := As[string](tbl.Rows[1], "name")
	assert.Error(t, err)
}

func TestAsNullableReportsNullWithoutError(t *testing.T) {
	tbl := newTestTable()
	v, ok, err := AsNullable[string](tbl.Rows[1], "name")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestRowDecimalReturnsShopspringDecimal(t *testing.T) {
	amount, err := pqdec.Parse("42.75")
	require.NoError(t, err)
	cols := NewColumns([]Column{{Name: "amount", OID: pqcodec.OIDNumeric, Format: pqcodec.FormatBinary}})
	tbl := NewTable(cols)
	tbl.Append([][]byte{pqcodec.EncodeNumeric(amount)})

	got, err := tbl.Rows[0].Decimal("amount")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("42.75").Equal(got))
}

func TestAsDecodesMoneyIntoPgtypeMoney(t *testing.T) {
	orig := MoneyFractionalDigits()
	defer SetMoneyFractionalDigits(orig)
	SetMoneyFractionalDigits(2)

	cols := NewColumns([]Column{{Name: "price", OID: pqcodec.OIDMoney, Format: pqcodec.FormatBinary}})
	tbl := NewTable(cols)
	tbl.Append([][]byte{pqcodec.EncodeMoney(1050)})

	got, err := As[pgtype.Money](tbl.Rows[0], "price")
	require.NoError(t, err)
	assert.Equal(t, int64(1050), got.Scaled)
	assert.Equal(t, 2, got.FractionalDigits)
	assert.Equal(t, "10.50", got.String())
}

func TestAsDecodesPointIntoPgtypePoint(t *testing.T) {
	want := pgtype.Point{X: 1.5, Y: -2.25}
	cols := NewColumns([]Column{{Name: "loc", OID: pqcodec.OIDPoint, Format: pqcodec.FormatBinary}})
	tbl := NewTable(cols)
	tbl.Append([][]byte{want.Encode()})

	got, err := As[pgtype.Point](tbl.Rows[0], "loc")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAsDecodesUUIDIntoPgtypeUUID(t *testing.T) {
	want := pgtype.NewUUID()
	cols := NewColumns([]Column{{Name: "id", OID: pqcodec.OIDUUID, Format: pqcodec.FormatBinary}})
	tbl := NewTable(cols)
	tbl.Append([][]byte{want.Encode()})

	got, err := As[pgtype.UUID](tbl.Rows[0], "id")
	require.NoError(t, err)
	assert.Equal(t, want.String(), got.String())
}

func TestAsDecodesJSONBIntoPgtypeJSON(t *testing.T) {
	j, err := pgtype.ParseJSON(`{"a":1}`)
	require.NoError(t, err)
	cols := NewColumns([]Column{{Name: "doc", OID: pqcodec.OIDJSONB, Format: pqcodec.FormatBinary}})
	tbl := NewTable(cols)
	tbl.Append([][]byte{j.EncodeJSONB()})

	got, err := As[pgtype.JSON](tbl.Rows[0], "doc")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, got.Value)
}

func TestAsRangeDecodesInt4Range(t *testing.T) {
	want := pgtype.Range[int32]{Lower: 1, Upper: 10, LowerPresent: true, UpperPresent: true, LowerInclusive: true}
	buf := pgtype.EncodeRange(want, func(v int32) []byte { return pqcodec.EncodeInt4(v) })
	cols := NewColumns([]Column{{Name: "span", OID: pqcodec.OIDInt4Range, Format: pqcodec.FormatBinary}})
	tbl := NewTable(cols)
	tbl.Append([][]byte{buf})

	got, err := AsRange[int32](tbl.Rows[0], "span")
	require.NoError(t, err)
	assert.Equal(t, int32(1), got.Lower)
	assert.Equal(t, int32(10), got.Upper)
}

func TestAsRangeWrongElementTypeFails(t *testing.T) {
	want := pgtype.Range[int32]{Lower: 1, Upper: 10, LowerPresent: true, UpperPresent: true, LowerInclusive: true}
	buf := pgtype.EncodeRange(want, func(v int32) []byte { return pqcodec.EncodeInt4(v) })
	cols := NewColumns([]Column{{Name: "span", OID: pqcodec.OIDInt4Range, Format: pqcodec.FormatBinary}})
	tbl := NewTable(cols)
	tbl.Append([][]byte{buf})

	_, err := AsRange[int64](tbl.Rows[0], "span")
	assert.Error(t, err)
}

func TestToJSONProjectsMoneyAsString(t *testing.T) {
	orig := MoneyFractionalDigits()
	defer SetMoneyFractionalDigits(orig)
	SetMoneyFractionalDigits(2)

	cols := NewColumns([]Column{{Name: "price", OID: pqcodec.OIDMoney, Format: pqcodec.FormatBinary}})
	tbl := NewTable(cols)
	tbl.Append([][]byte{pqcodec.EncodeMoney(1050)})

	out, err := tbl.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"price":"10.50"`)
}

func TestToJSONProjectsRowsInInsertionOrder(t *testing.T) {
	tbl := newTestTable()
	out, err := tbl.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"id":1`)
	assert.Contains(t, out, `"name":"alice"`)
	assert.Contains(t, out, `"name":null`)
}
