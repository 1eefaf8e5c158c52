package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInt4RoundTrip(t *testing.T) {
	got, err := DecodeInt4(EncodeInt4(-4242))
	require.NoError(t, err)
	assert.Equal(t, int32(-4242), got)
}

func TestEncodeDecodeFloat8RoundTrip(t *testing.T) {
	got, err := DecodeFloat8(EncodeFloat8(3.14159))
	require.NoError(t, err)
	assert.InDelta(t, 3.14159, got, 1e-9)
}

func TestEncodeDecodeBoolRoundTrip(t *testing.T) {
	got, err := DecodeBool(EncodeBool(true))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestDecodeDispatchesByOID(t *testing.T) {
	v, err := Decode(OIDInt4, FormatBinary, EncodeInt4(7))
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)

	v, err = Decode(OIDText, FormatBinary, EncodeText("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestDecodeUnknownOIDFails(t *testing.T) {
	_, err := Decode(OID(999999), FormatBinary, []byte{0})
	assert.Error(t, err)
}

func TestDecodeTextCharsetPassesThroughUTF8(t *testing.T) {
	got, err := DecodeTextCharset([]byte("héllo"), "UTF8")
	require.NoError(t, err)
	assert.Equal(t, "héllo", got)
}

func TestDecodeTextCharsetConvertsLatin1(t *testing.T) {
	latin1 := []byte{0xe9} // 'é' in ISO-8859-1
	got, err := DecodeTextCharset(latin1, "LATIN1")
	require.NoError(t, err)
	assert.Equal(t, "é", got)
}

func TestMoneyTextRoundTrip(t *testing.T) {
	scaled, err := DecodeMoneyText("19.99", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), scaled)
}
