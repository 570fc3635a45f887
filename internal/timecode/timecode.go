// Package timecode converts between user-entered clip offsets and seconds.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse converts "SS", "M:SS" or "H:MM:SS" into seconds. Anything else yields
// NaN, which callers detect with Valid.
func Parse(text string) float64 {
	if text == "" {
		return math.NaN()
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return math.NaN()
	}
	if len(parts) == 1 {
		n, ok := digits(parts[0])
		if !ok {
			return math.NaN()
		}
		return float64(n)
	}

	total := 0
	for _, part := range parts {
		n, ok := digits(part)
		if !ok {
			return math.NaN()
		}
		if total > (math.MaxInt-n)/60 {
			return math.NaN()
		}
		total = total*60 + n
	}
	return float64(total)
}

// ParseSeconds is Parse for callers that want whole seconds and an ok flag.
func ParseSeconds(text string) (int, bool) {
	v := Parse(text)
	if !Valid(v) {
		return 0, false
	}
	return int(v), true
}

// Valid reports whether v is a usable result of Parse.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Format renders seconds as M:SS. Minutes do not roll over into hours.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func digits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
