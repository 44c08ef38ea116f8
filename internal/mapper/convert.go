package mapper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
)

// MetersPerMile is the conversion the site uses for imperial distances.
const MetersPerMile = 1609.34708

const componentDateLayout = "Jan 2, 2006"

var (
	nonNumbers = regexp.MustCompile(`[^\d.]`)
	escapes    = regexp.MustCompile(`\\u[dD][89abAB][0-9a-fA-F]{2}\\u[dD][c-fC-F][0-9a-fA-F]{2}|\\u[0-9a-fA-F]{4}|\\x[0-9a-fA-F]{2}|\\[nrt\\'"]`)
)

// ParseDistance converts displayed distance text to meters. A trailing "mi"
// means miles, anything else ("km" or bare) means kilometers.
func ParseDistance(s string) (float64, error) {
	s = strings.TrimSpace(s)
	mul := 1000.0
	if strings.HasSuffix(s, "mi") {
		mul = MetersPerMile
	}
	num := strings.ReplaceAll(strings.TrimRight(s, " kmi"), ",", "")
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing distance %q: %w", s, err)
	}
	return f * mul, nil
}

// ParseNumber strips everything but digits and dots, so "8.2 kg" is 8.2.
func ParseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(nonNumbers.ReplaceAllString(s, ""), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing number %q: %w", s, err)
	}
	return f, nil
}

// ParseComponentDate parses an install or removal date such as "Mar 04, 2019".
// "since beginning" is the Unix epoch; empty or unparsable text is nil, the
// date being unknown.
func ParseComponentDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.EqualFold(s, "since beginning") {
		epoch := time.Unix(0, 0).UTC()
		return &epoch
	}
	t, err := time.Parse(componentDateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// DecodeUnicodeEscapes expands \uXXXX (including surrogate pairs), \xHH and
// the common backslash escapes embedded in caption text.
func DecodeUnicodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return escapes.ReplaceAllStringFunc(s, func(m string) string {
		switch m[1] {
		case 'u':
			if len(m) == 12 {
				hi, _ := strconv.ParseUint(m[2:6], 16, 16)
				lo, _ := strconv.ParseUint(m[8:12], 16, 16)
				return string(utf16.DecodeRune(rune(hi), rune(lo)))
			}
			r, _ := strconv.ParseUint(m[2:], 16, 32)
			return string(rune(r))
		case 'x':
			r, _ := strconv.ParseUint(m[2:], 16, 8)
			return string(rune(r))
		case 'n':
			return "\n"
		case 'r':
			return "\r"
		case 't':
			return "\t"
		}
		return m[1:]
	})
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05 MST",
}

// parseTimestamp accepts epoch seconds or one of the ISO-like layouts the
// site emits.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case float64:
		return time.Unix(int64(t), 0).UTC(), nil
	case string:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", t)
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %v", v)
}
