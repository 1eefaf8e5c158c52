package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysSinceEpochRoundTrip(t *testing.T) {
	in := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	days := DaysSinceEpoch(in)
	y, m, d := DateFromDays(days)
	assert.Equal(t, 2024, y)
	assert.Equal(t, int(time.March), m)
	assert.Equal(t, 15, d)
}

func TestEraAlignMapsProlepticYearZeroToOneBC(t *testing.T) {
	assert.Equal(t, -1, EraAlign(0))
	assert.Equal(t, -2, EraAlign(-1))
	assert.Equal(t, 1, EraAlign(1))
}

func TestEraUnalignIsEraAlignsInverse(t *testing.T) {
	for _, y := range []int{-5, -1, 1, 2024} {
		assert.Equal(t, y, EraAlign(EraUnalign(y)))
	}
}

func TestMicrosSinceMidnightRoundTrip(t *testing.T) {
	in := time.Date(0, 1, 1, 13, 45, 6, 789000, time.UTC)
	micros := MicrosSinceMidnight(in)
	h, m, s, ns := TimeFromMicros(micros)
	assert.Equal(t, 13, h)
	assert.Equal(t, 45, m)
	assert.Equal(t, 6, s)
	assert.Equal(t, 789000, ns)
}

func TestMicrosSinceEpochRoundTrip(t *testing.T) {
	in := time.Date(2024, time.March, 15, 9, 8, 7, 123456000, time.UTC)
	out := TimeFromEpochMicros(MicrosSinceEpoch(in))
	assert.True(t, in.Equal(out))
}

func TestISOTimestampFormatsBCEraWithLeadingSign(t *testing.T) {
	in := time.Date(-1, time.January, 1, 9, 8, 7, 123456000, time.UTC)
	assert.Equal(t, "-0001-01-01 09:08:07.123456", ISOTimestamp(in))
}

func TestFormatSupportsDocumentedDirectives(t *testing.T) {
	in := time.Date(2024, time.March, 5, 9, 8, 7, 123456000, time.UTC)
	assert.Equal(t, "2024-03-05T09:08:07", Format(in, "%Y-%m-%dT%H:%M:%S"))
}

func TestAsZoneAndMakeZonedRoundTrip(t *testing.T) {
	in := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	zoned, err := AsZone(in, "America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable in this environment: %v", err)
	}
	assert.True(t, in.Equal(zoned))

	back, err := MakeZoned(zoned, "UTC")
	if err != nil {
		t.Fatalf("MakeZoned: %v", err)
	}
	assert.Equal(t, zoned.Hour(), back.Hour())
}
