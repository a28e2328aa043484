package internal

import (
	"fmt"
	"strings"
	"time"
)

// TimestampFactor converts the store's nanosecond tick columns to seconds.
const TimestampFactor int64 = 1000000000

const diffSeparator = ", "

// EpochOffset returns the number of seconds between the unix epoch and the
// store's custom epoch of 2001-01-01 00:00:00 UTC. Raw timestamp columns are
// relative to the custom epoch.
func EpochOffset() int64 {
	return time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
}

// toLocalTime converts a raw timestamp column into a local calendar time.
// Sub-second precision is discarded. Returns false when the converted
// calendar fields do not survive reconstruction as a local wall-clock time.
func toLocalTime(stamp int64, offset int64) (time.Time, bool) {
	utc := time.Unix(stamp/TimestampFactor+offset, 0)
	local := utc.In(time.Local)
	t := time.Date(
		local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(),
		0, time.Local,
	)
	// time.Date normalizes nonexistent wall-clock times (DST gaps) instead
	// of rejecting them; detect the shift and report the time as unknown.
	if t.Hour() != local.Hour() || t.Minute() != local.Minute() {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a converted timestamp for display. Unknown times
// render as an empty string.
func FormatDate(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04:05 PM")
}

// ReadableDiff renders the gap between two timestamps as a human-readable
// duration, e.g. "2 days, 5 hours, 22 minutes, 34 seconds". Components that
// are zero are omitted; a zero gap yields an empty string. Returns false
// when end precedes start.
func ReadableDiff(start, end time.Time) (string, bool) {
	seconds := int64(end.Sub(start) / time.Second)
	if seconds < 0 {
		return "", false
	}

	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 86400 % 3600) / 60
	secs := seconds % 86400 % 3600 % 60

	var out strings.Builder
	writeUnit := func(n int64, unit string) {
		if n == 0 {
			return
		}
		if out.Len() > 0 {
			out.WriteString(diffSeparator)
		}
		if n == 1 {
			fmt.Fprintf(&out, "1 %s", unit)
		} else {
			fmt.Fprintf(&out, "%d %ss", n, unit)
		}
	}

	writeUnit(days, "day")
	writeUnit(hours, "hour")
	writeUnit(minutes, "minute")
	writeUnit(secs, "second")

	return out.String(), true
}
