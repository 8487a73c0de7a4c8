package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the output layout of ParseDate (DD-MM-YYYY).
const DateLayout = "02-01-2006"

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var (
	ordinalRgx = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)

	// 10 December 2020, 10-Dec-2020, 10 Dec. 2020, 10th (day) of December 2020
	dayMonthNameRgx = regexp.MustCompile(`(?i)\b(\d{1,2})[\s\-]+(?:(?:day\s+)?of\s+)?([A-Za-z]{3,9})\.?[\s\-,]+(\d{4})\b`)
	// December 10, 2020
	monthNameDayRgx = regexp.MustCompile(`\b([A-Za-z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
	// 2020-12-10, 2020/12/10
	isoRgx = regexp.MustCompile(`\b(\d{4})[\-/.](\d{1,2})[\-/.](\d{1,2})\b`)
	// 10/12/2020, 10.12.2020, 10-12-2020 (day first)
	numericRgx = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})\b`)
)

// ParseDate finds a date in s and formats it as DD-MM-YYYY.
// "10 December 2020" becomes "10-12-2020". Numeric dates are read day
// first. When no valid date is found s is returned unchanged with ok=false.
func ParseDate(s string) (string, bool) {
	text := ordinalRgx.ReplaceAllString(strings.TrimSpace(s), "$1")
	if text == "" {
		return s, false
	}

	if m := dayMonthNameRgx.FindStringSubmatch(text); m != nil {
		if month, ok := monthByName(m[2]); ok {
			if out, ok := format(m[3], int(month), m[1]); ok {
				return out, true
			}
		}
	}
	if m := monthNameDayRgx.FindStringSubmatch(text); m != nil {
		if month, ok := monthByName(m[1]); ok {
			if out, ok := format(m[3], int(month), m[2]); ok {
				return out, true
			}
		}
	}
	if m := isoRgx.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[2])
		if out, ok := format(m[1], month, m[3]); ok {
			return out, true
		}
	}
	if m := numericRgx.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[2])
		if out, ok := format(m[3], month, m[1]); ok {
			return out, true
		}
	}

	return s, false
}

func monthByName(name string) (time.Month, bool) {
	m, ok := months[strings.ToLower(name)]
	return m, ok
}

// format validates the calendar date (no 31 February) before rendering.
func format(yearStr string, month int, dayStr string) (string, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return "", false
	}
	if month < 1 || month > 12 || day < 1 {
		return "", false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return "", false
	}
	return fmt.Sprintf("%02d-%02d-%04d", day, month, year), true
}
