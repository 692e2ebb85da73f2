package timex

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// EngineTimeLayouts are the textual time formats understood by SQLite's date and time functions.
var EngineTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Unix seconds of 0001-01-01T00:00:00Z and 9999-12-31T23:59:59Z, the range accepted as epoch offsets.
const (
	MinUnixSeconds int64 = -62135596800
	MaxUnixSeconds int64 = 253402300799
)

// ErrOutOfRange - the epoch offset is not a finite number of seconds between MinUnixSeconds and MaxUnixSeconds.
var ErrOutOfRange = errors.New("epoch seconds out of range")

// FromUnixSeconds builds a UTC time from a Unix epoch offset in seconds, keeping the fractional part.
func FromUnixSeconds(seconds float64) (time.Time, error) {
	if math.IsNaN(seconds) || seconds < float64(MinUnixSeconds) || seconds >= float64(MaxUnixSeconds+1) {
		return time.Time{}, errors.WithMessagef(ErrOutOfRange, "%v", seconds)
	}

	sec, frac := math.Modf(seconds)

	return time.Unix(int64(sec), int64(math.Round(frac*float64(time.Second)))).UTC(), nil
}

// FromUnixInt builds a UTC time from a whole number of Unix epoch seconds.
func FromUnixInt(seconds int64) (time.Time, error) {
	if seconds < MinUnixSeconds || seconds > MaxUnixSeconds {
		return time.Time{}, errors.WithMessagef(ErrOutOfRange, "%d", seconds)
	}

	return time.Unix(seconds, 0).UTC(), nil
}

// ParseTimeWithMultipleLayouts parses the time string as a numeric Unix timestamp in seconds or with the provided layouts.
func ParseTimeWithMultipleLayouts(s string, layouts ...string) (time.Time, error) {
	s = strings.TrimSpace(s)

	// First, try to parse the string as a numeric timestamp
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromUnixInt(seconds)
	}

	if seconds, err := strconv.ParseFloat(s, 64); err == nil {
		return FromUnixSeconds(seconds)
	}

	// If parsing as a timestamp fails, try the provided layouts
	errParseTime := errors.Errorf("no layout provided to parse time string %q", s)

	for _, layout := range layouts {
		parsedTime, err := time.Parse(layout, strings.TrimSuffix(s, "Z"))
		if err == nil {
			return parsedTime.UTC(), nil
		}

		errParseTime = errors.WithMessagef(err, "unable to parse time string %q with provided layouts", s)
	}

	return time.Time{}, errParseTime
}
