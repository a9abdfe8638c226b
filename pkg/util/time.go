package util

import (
	"math"
	"strconv"
	"strings"
)

// FormatSeconds renders seconds with millisecond precision for ffmpeg -ss/-to
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// ParseFrameRate parses frame rate from ffprobe format (e.g., "30000/1001").
// Plain decimals are accepted too. Unparseable or zero-denominator rates give 0.
func ParseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0
		}
		return v
	case 2:
		num, err1 := strconv.ParseFloat(parts[0], 64)
		den, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0
		}
		return num / den
	default:
		return 0
	}
}

// ParseCount parses an integer count from ffprobe, returning 0 for "N/A" or
// empty values
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FramesForDuration estimates a frame count from a duration and frame rate
func FramesForDuration(seconds, fps float64) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Round(seconds * fps))
}
