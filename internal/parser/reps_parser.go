package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingIntRegex = regexp.MustCompile(`^\s*(\d+)`)

// ParseRepsTarget extracts the leading integer of a free-form rep target.
// Accepts formats like:
// - "10" -> 10
// - "12/leg" -> 12
// - "8-10" -> 8
// Returns false for targets without one, e.g. "AMRAP" or "".
func ParseRepsTarget(target string) (int, bool) {
	matches := leadingIntRegex.FindStringSubmatch(target)
	if len(matches) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NormalizeRepsTarget trims a rep target and uppercases well-known keywords
func NormalizeRepsTarget(target string) string {
	target = strings.TrimSpace(target)
	switch strings.ToLower(target) {
	case "amrap":
		return "AMRAP"
	case "max":
		return "MAX"
	}
	return target
}
