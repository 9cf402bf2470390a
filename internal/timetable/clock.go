package timetable

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseTime converts "0835", "835" or "14:35" into minutes since midnight.
// Hours and minutes are read from fixed positions after padding to four
// characters and are not range checked. Empty input yields 0.
func ParseTime(s string) int {
	if s == "" {
		return 0
	}
	t := strings.Replace(s, ":", "", 1)
	for len(t) < 4 {
		t = "0" + t
	}
	return leadingInt(t[0:2])*60 + leadingInt(t[2:4])
}

// FormatTime formats minutes since midnight as "HH:MM".
func FormatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// leadingInt parses an optionally signed run of decimal digits after
// leading whitespace, ignoring the rest. A string without digits is 0.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := 1
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return sign * n
}
