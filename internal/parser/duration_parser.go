package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockRegex = regexp.MustCompile(`^(\d+):([0-5]\d)$`)

// ParseSeconds parses a duration written in a workout file into whole seconds.
// Supported formats:
// - plain seconds (e.g., "45")
// - Go durations (e.g., "45s", "2m", "1m30s")
// - mm:ss (e.g., "1:30")
func ParseSeconds(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("duration must not be negative")
		}
		return n, nil
	}

	if matches := clockRegex.FindStringSubmatch(input); len(matches) == 3 {
		minutes, _ := strconv.Atoi(matches[1])
		seconds, _ := strconv.Atoi(matches[2])
		return minutes*60 + seconds, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q. Use: 45, 45s, 1m30s or 1:30", input)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}
	return int(d.Round(time.Second) / time.Second), nil
}

// FormatSeconds renders seconds compactly, e.g. "45s", "2m", "1m30s"
func FormatSeconds(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		if seconds%60 == 0 {
			return fmt.Sprintf("%dm", seconds/60)
		}
		return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh%02dm", seconds/3600, (seconds%3600)/60)
}
