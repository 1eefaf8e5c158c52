package transport

import (
	"testing"

	pqwire "github.com/pq-async/pqgo/internal/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStringCoversAllValues(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "reserved", StateReserved.String())
	assert.Equal(t, "sending", StateSending.String())
	assert.Equal(t, "awaiting-result", StateAwaitingResult.String())
	assert.Equal(t, "streaming-rows", StateStreamingRows.String())
	assert.Equal(t, "in-copy", StateInCopy.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestParseErrorResponseExtractsSQLStateAndMessage(t *testing.T) {
	b := pqwire.NewBuilder(0)
	b.Byte('S').CString("ERROR")
	b.Byte('C').CString("23505")
	b.Byte('M').CString("duplicate key value violates unique constraint")
	b.Byte(0)
	payload := b.Build()[4:] // drop the length prefix added by Build for a bare (typ=0) builder

	err := parseErrorResponse(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key value")
	assert.Contains(t, err.Error(), "[23505]")
}

func TestParseCommandCompleteParsesRowsAffected(t *testing.T) {
	tag := parseCommandComplete(append([]byte("INSERT 0 3"), 0))
	assert.Equal(t, "INSERT 0 3", tag.Tag)
	assert.Equal(t, int64(3), tag.RowsAffected)
}

func TestParseCommandCompleteToleratesNoTrailingNumber(t *testing.T) {
	tag := parseCommandComplete(append([]byte("BEGIN"), 0))
	assert.Equal(t, "BEGIN", tag.Tag)
	assert.Equal(t, int64(0), tag.RowsAffected)
}

func TestParseNotificationRoundTrip(t *testing.T) {
	b := pqwire.NewBuilder(0)
	b.Int32(4242)
	b.CString("my_channel")
	b.CString("hello")
	payload := b.Build()[4:]

	n, err := parseNotification(payload)
	require.NoError(t, err)
	assert.Equal(t, int32(4242), n.PID)
	assert.Equal(t, "my_channel", n.Channel)
	assert.Equal(t, "hello", n.Payload)
}

func TestMD5HexAuthKnownVector(t *testing.T) {
	got := md5HexAuth("user", "password", []byte{0x01, 0x02, 0x03, 0x04})
	assert.Equal(t, "md5a3576f1ae039b8996bc4fc2720f9c71a", got)
}

func TestParseSCRAMFieldsSplitsKeyValuePairs(t *testing.T) {
	fields := parseSCRAMFields("r=abc123,s=c2FsdA==,i=4096")
	assert.Equal(t, "abc123", fields["r"])
	assert.Equal(t, "c2FsdA==", fields["s"])
	assert.Equal(t, "4096", fields["i"])
}

func TestQuoteIdentEscapesDoubleQuotes(t *testing.T) {
	assert.Equal(t, `"ab""c"`, QuoteIdent(`ab"c`))
}

func TestQuoteLiteralEscapesSingleQuotes(t *testing.T) {
	assert.Equal(t, `'it''s'`, QuoteLiteral(`it's`))
}

func TestColumnsFromRowDescriptionParsesFieldList(t *testing.T) {
	b := pqwire.NewBuilder(0)
	b.Int16(2)
	b.CString("id")
	b.Int32(0) // table oid
	b.Int16(0) // attnum
	b.Int32(23)
	b.Int16(4)
	b.Int32(-1)
	b.Int16(1) // binary
	b.CString("name")
	b.Int32(0)
	b.Int16(0)
	b.Int32(25)
	b.Int16(-1)
	b.Int32(-1)
	b.Int16(0) // text
	payload := b.Build()[4:]

	cols, err := columnsFromRowDescription(payload)
	require.NoError(t, err)
	require.Equal(t, 2, cols.Len())
	idIdx, ok := cols.IndexOf("id")
	require.True(t, ok)
	assert.Equal(t, 0, idIdx)
	nameIdx, ok := cols.IndexOf("name")
	require.True(t, ok)
	assert.Equal(t, 1, nameIdx)
}

func TestDataRowValuesHandlesNulls(t *testing.T) {
	b := pqwire.NewBuilder(0)
	b.Int16(2)
	b.Bytes32([]byte("hello"))
	b.Int32(-1) // null
	payload := b.Build()[4:]

	vals, err := dataRowValues(payload)
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.Equal(t, []byte("hello"), vals[0])
	assert.Nil(t, vals[1])
}
