package codec

import (
	"testing"
	"time"

	pqcal "github.com/pq-async/pqgo/internal/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampRoundTripPlain(t *testing.T) {
	in := time.Date(2024, 3, 15, 9, 8, 7, 123456000, time.UTC)
	out, err := DecodeTimestamp(EncodeTimestamp(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, "2024-03-15 09:08:07.123456", pqcal.ISOTimestamp(out))
}

// TestTimestampRoundTripBCEra covers §8's BC-era round-trip scenario: a
// proleptic year-0 (1 BC) instant must decode and format as
// "-0001-01-01 09:08:07.123456", not "0000-01-01 ...".
func TestTimestampRoundTripBCEra(t *testing.T) {
	in := time.Date(-1, time.January, 1, 9, 8, 7, 123456000, time.UTC)
	out, err := DecodeTimestamp(EncodeTimestamp(in))
	require.NoError(t, err)
	assert.Equal(t, "-0001-01-01 09:08:07.123456", pqcal.ISOTimestamp(out))
}

func TestDateRoundTripPlain(t *testing.T) {
	in := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	out, err := DecodeDate(EncodeDate(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestDateRoundTripBCEra(t *testing.T) {
	in := time.Date(-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	out, err := DecodeDate(EncodeDate(in))
	require.NoError(t, err)
	assert.Equal(t, -1, out.Year())
}

func TestIntervalRoundTrip(t *testing.T) {
	in := pqcal.Interval{Micros: 12345, Days: 7, Months: 3}
	out, err := DecodeInterval(EncodeInterval(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTimeTZRoundTrip(t *testing.T) {
	loc := time.FixedZone("", -5*3600)
	in := time.Date(0, 1, 1, 14, 30, 0, 0, loc)
	out, err := DecodeTimeTZ(EncodeTimeTZ(in))
	require.NoError(t, err)
	_, gotOffset := out.Zone()
	assert.Equal(t, -5*3600, gotOffset)
	assert.Equal(t, 14, out.Hour())
	assert.Equal(t, 30, out.Minute())
}
