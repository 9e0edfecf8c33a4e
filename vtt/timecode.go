package vtt

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// ErrMalformedTimestamp is returned when a timestamp is not HH:MM:SS.mmm.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

const timestampExpr = `\d{2}:\d{2}:\d{2}\.\d{3}`

var timestampPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}\.\d{3})$`)

// ParseTimestamp converts HH:MM:SS.mmm into seconds.
func ParseTimestamp(s string) (float64, error) {
	m := timestampPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.Wrapf(ErrMalformedTimestamp, "parse %q", s)
	}

	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedTimestamp, "hours in %q", s)
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedTimestamp, "minutes in %q", s)
	}
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedTimestamp, "seconds in %q", s)
	}

	return float64(hours*3600+minutes*60) + seconds, nil
}

// FormatClock renders seconds as m:SS for display. Sub-second precision is
// dropped and hours are folded into minutes, so it does not invert
// ParseTimestamp.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	whole := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
