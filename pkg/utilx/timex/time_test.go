package timex_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcodd23/go-micro-sqlite/pkg/utilx/timex"
)

func TestFromUnixSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    time.Time
	}{
		{seconds: 0, want: time.Unix(0, 0)},
		{seconds: 1700000000, want: time.Unix(1700000000, 0)},
		{seconds: 1700000000.25, want: time.Unix(1700000000, 250_000_000)},
		{seconds: -1.5, want: time.Unix(-2, 500_000_000)},
	}

	for _, tt := range tests {
		got, err := timex.FromUnixSeconds(tt.seconds)
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(got), "%v: want %s, got %s", tt.seconds, tt.want, got)
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestFromUnixSeconds_OutOfRange(t *testing.T) {
	for _, seconds := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300, -1e300, float64(timex.MaxUnixSeconds + 1)} {
		got, err := timex.FromUnixSeconds(seconds)
		assert.True(t, errors.Is(err, timex.ErrOutOfRange), "%v", seconds)
		assert.True(t, got.IsZero())
	}

	last, err := timex.FromUnixSeconds(float64(timex.MaxUnixSeconds) + 0.5)
	require.NoError(t, err)
	assert.Equal(t, 9999, last.Year())
}

// TestFromUnixInt checks the range edges hold and every int64 outside them is refused.
func TestFromUnixInt(t *testing.T) {
	got, err := timex.FromUnixInt(timex.MaxUnixSeconds)
	require.NoError(t, err)
	assert.Equal(t, time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC), got)

	got, err = timex.FromUnixInt(timex.MinUnixSeconds)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), got)

	for _, seconds := range []int64{math.MaxInt64, math.MinInt64, timex.MaxUnixSeconds + 1, timex.MinUnixSeconds - 1} {
		_, err := timex.FromUnixInt(seconds)
		assert.True(t, errors.Is(err, timex.ErrOutOfRange), "%d", seconds)
	}
}

// TestParseTimeWithMultipleLayouts checks numeric strings are epoch seconds and text falls through the layouts in order.
func TestParseTimeWithMultipleLayouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{input: "1700000000", want: time.Unix(1700000000, 0)},
		{input: " 12.5 ", want: time.Unix(12, 500_000_000)},
		{input: "2024-01-02", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{input: "2024-01-02 03:04", want: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)},
		{input: "2024-01-02 03:04:05", want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{input: "2024-01-02T03:04:05.123Z", want: time.Date(2024, 1, 2, 3, 4, 5, 123_000_000, time.UTC)},
		{input: "2024-01-02 05:04:05+02:00", want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := timex.ParseTimeWithMultipleLayouts(tt.input, timex.EngineTimeLayouts...)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimeWithMultipleLayouts_Failures(t *testing.T) {
	_, err := timex.ParseTimeWithMultipleLayouts("yesterday", timex.EngineTimeLayouts...)
	assert.Error(t, err)

	_, err = timex.ParseTimeWithMultipleLayouts("2024-01-02")
	assert.Error(t, err, "no layouts")

	_, err = timex.ParseTimeWithMultipleLayouts("9223372036854775807", timex.EngineTimeLayouts...)
	assert.True(t, errors.Is(err, timex.ErrOutOfRange))
}
