package slack

import (
	"fmt"
	"strconv"
	"time"
)

// ParseTimestamp parses a Slack timestamp ("<unix-seconds>.<micros>") to
// time.Time.
func ParseTimestamp(ts string) (time.Time, error) {
	var sec, usec int64
	if _, err := fmt.Sscanf(ts, "%d.%d", &sec, &usec); err != nil {
		if s, parseErr := strconv.ParseInt(ts, 10, 64); parseErr == nil {
			return time.Unix(s, 0), nil
		}

		return time.Time{}, fmt.Errorf("invalid timestamp: %s", ts)
	}

	return time.Unix(sec, usec*1000), nil
}

// FormatTimestamp formats a time.Time to a Slack timestamp.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}
