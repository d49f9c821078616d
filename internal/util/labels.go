package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

func NormalizeLabel(input string) string {
	s := strings.ToLower(input)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ContainsAny reports whether the normalized label contains one of probes.
func ContainsAny(label string, probes ...string) bool {
	norm := NormalizeLabel(label)
	for _, p := range probes {
		if strings.Contains(norm, p) {
			return true
		}
	}
	return false
}

func Round(v float64, places int) float64 {
	pow := 1.0
	for i := 0; i < places; i++ {
		pow *= 10
	}
	if v < 0 {
		return -float64(int64(-v*pow+0.5)) / pow
	}
	return float64(int64(v*pow+0.5)) / pow
}
