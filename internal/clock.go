package internal

import (
	"regexp"
	"time"
)

// TimestampFormat is the provider's signed_date_time wire format: UTC with
// seconds precision and a literal trailing Z.
const TimestampFormat = "2006-01-02T15:04:05Z"

// Freshness window for signed_date_time. The window is asymmetric: generous
// backwards for clock skew and network latency, tight forwards to limit how
// long a replayed payload stays useful.
const (
	timestampMaxAge  = 5 * time.Minute
	timestampMaxSkew = time.Minute
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

// Timestamp formats t in the provider's wire format.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// IsFresh reports whether ts is a well-formed wire timestamp within the
// acceptance window around reference. Any string not matching the exact
// pattern is rejected before range comparison.
func IsFresh(ts string, reference time.Time) bool {
	if !timestampPattern.MatchString(ts) {
		return false
	}
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		return false
	}
	earliest := reference.Add(-timestampMaxAge)
	latest := reference.Add(timestampMaxSkew)
	return !t.Before(earliest) && !t.After(latest)
}
