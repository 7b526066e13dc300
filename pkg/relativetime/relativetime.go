// Package relativetime renders timestamps the way the activity feed shows
// them: recent instants as relative phrases, anything older than a day as an
// absolute date. Callers supply "now" so rendering stays deterministic.
package relativetime

import (
	"fmt"
	"time"
)

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
)

// dateLayout is the absolute fallback for events older than a day.
const dateLayout = "Jan 2, 2006"

// Describe converts an instant into a human-relative description against the
// supplied reference time.
//
//	< 1 minute   "just now"
//	< 1 hour     "N minutes ago"
//	< 1 day      "N hours ago"
//	otherwise    absolute date
func Describe(instant, now time.Time) string {
	elapsed := int64(now.Sub(instant).Seconds())

	switch {
	case elapsed < minute:
		return "just now"
	case elapsed < hour:
		return plural(elapsed/minute, "minute")
	case elapsed < day:
		return plural(elapsed/hour, "hour")
	default:
		return instant.Format(dateLayout)
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
