package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datePattern pairs a regex with the submatch order it captures. Patterns are
// tried in priority order: 4-digit-year forms before 2-digit-year forms so a
// truncated YYYY is never misread as YY.
type datePattern struct {
	re    *regexp.Regexp
	parse func(m []string) (time.Time, bool)
}

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var datePatterns = []datePattern{
	// DD/MM/YYYY or DD-MM-YYYY
	{
		re: regexp.MustCompile(`\b([0-9]{1,2})[/-]([0-9]{1,2})[/-]([0-9]{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			return calendarDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
		},
	},
	// YYYY/MM/DD or YYYY-MM-DD
	{
		re: regexp.MustCompile(`\b([0-9]{4})[/-]([0-9]{1,2})[/-]([0-9]{1,2})\b`),
		parse: func(m []string) (time.Time, bool) {
			return calendarDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		},
	},
	// D Month YYYY, with an optional ordinal suffix
	{
		re: regexp.MustCompile(`(?i)\b([0-9]{1,2})(?:st|nd|rd|th)?\s+(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+([0-9]{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			month, ok := monthsByName[strings.ToLower(m[2])[:3]]
			if !ok {
				return time.Time{}, false
			}
			return calendarDate(atoi(m[3]), int(month), atoi(m[1]))
		},
	},
	// DD/MM/YY or DD-MM-YY
	{
		re: regexp.MustCompile(`\b([0-9]{1,2})[/-]([0-9]{1,2})[/-]([0-9]{2})\b`),
		parse: func(m []string) (time.Time, bool) {
			return calendarDate(2000+atoi(m[3]), atoi(m[2]), atoi(m[1]))
		},
	},
}

// Date finds the first parseable date in receipt text. A substring that
// matches a pattern shape but is not a real calendar date (month 13, day 32)
// is skipped and the search continues with later matches and patterns. The
// second return is false when nothing parses; callers choose their own
// default rather than the extractor guessing one.
func Date(text string) (time.Time, bool) {
	for _, pattern := range datePatterns {
		for _, m := range pattern.re.FindAllStringSubmatch(text, -1) {
			if d, ok := pattern.parse(m); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// calendarDate builds a UTC date and rejects values that time.Date would
// silently normalize, e.g. 32 January becoming 1 February.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
