// Package dateutil expands the "auto" values accepted for the date field of
// document front matter.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat reports a malformed "auto:" pattern.
var ErrInvalidDateFormat = errors.New("invalid date format")

// DefaultPattern is used by a bare "auto".
const DefaultPattern = "YYYY-MM-DD"

const maxPatternLength = 50

// Presets names common patterns, e.g. "auto:european".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// tokens are tried in order at each position; longer tokens come first.
var tokens = [...]struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Layout converts a pattern such as "DD/MM/YYYY" into a time layout.
// Text in brackets is copied as is, so "[Week of] D" keeps "Week of".
func Layout(pattern string) (string, error) {
	switch {
	case pattern == "":
		return "", fmt.Errorf("%w: empty pattern", ErrInvalidDateFormat)
	case len(pattern) > maxPatternLength:
		return "", fmt.Errorf("%w: pattern exceeds %d characters", ErrInvalidDateFormat, maxPatternLength)
	}

	var b strings.Builder
	rest := pattern
	for rest != "" {
		if rest[0] == '[' {
			lit, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, pattern)
			}
			b.WriteString(lit)
			rest = after
			continue
		}
		n, out := 1, rest[:1]
		for _, t := range tokens {
			if strings.HasPrefix(rest, t.token) {
				n, out = len(t.token), t.layout
				break
			}
		}
		b.WriteString(out)
		rest = rest[n:]
	}
	return b.String(), nil
}

// Resolve expands "auto" (today as YYYY-MM-DD) and "auto:PATTERN", where
// PATTERN is a preset name or a token pattern. Any other value is returned
// unchanged.
func Resolve(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}
	if lower == "auto" {
		return format(DefaultPattern, now)
	}
	if !strings.HasPrefix(lower, "auto:") {
		return "", fmt.Errorf("%w: %q, use \"auto\" or \"auto:PATTERN\"", ErrInvalidDateFormat, value)
	}

	pattern := value[len("auto:"):]
	if p, ok := Presets[strings.ToLower(pattern)]; ok {
		pattern = p
	}
	return format(pattern, now)
}

func format(pattern string, t time.Time) (string, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
