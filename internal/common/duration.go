package common

import (
	"fmt"
	"strings"
	"time"

	iso8601arse "github.com/senseyeio/duration"
)

// ParseDuration accepts either a Go duration string (30s, 1m30s) or an
// ISO 8601 duration (PT30S, PT1M30S).
func ParseDuration(duration string) (time.Duration, error) {

	duration = strings.TrimSpace(duration)

	if parsedDuration, err := time.ParseDuration(duration); err == nil {
		return parsedDuration, nil
	} else if isoDuration, err := iso8601arse.ParseISO8601(duration); err == nil {
		referenceTime := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		shiftedTime := isoDuration.Shift(referenceTime)
		return shiftedTime.Sub(referenceTime), nil
	}

	return 0, fmt.Errorf("invalid duration format: %s. Expect ISO 8601 or duration string", duration)
}

// ValidateInterval parses duration and enforces a lower bound.
func ValidateInterval(duration string, minimum time.Duration) (time.Duration, error) {
	w, err := ParseDuration(duration)
	if err != nil {
		return 0, err
	}
	if w < minimum {
		return 0, fmt.Errorf("duration must be at least %s", minimum)
	}
	return w, nil
}

// FormatDurationRemaining formats a duration in human readable format (1 hour, 3 minutes, 4 seconds)
func FormatDurationRemaining(d time.Duration) string {
	if d < time.Second {
		return "0 seconds"
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if seconds > 0 {
		parts = append(parts, plural(seconds, "second"))
	}

	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
