package fields

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var numberRgx = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// ParseNumber extracts the first number from s. "Combined KW 2864" gives
// 2864, "1,250.5 GT" gives 1250.5 and "12,5 m" gives 12.5. A hyphen counts
// as a minus sign only when it does not follow a letter or digit, so
// "KW-2864" gives 2864.
func ParseNumber(s string) (float64, bool) {
	loc := numberRgx.FindStringIndex(s)
	if loc == nil {
		return 0, false
	}
	token := s[loc[0]:loc[1]]
	if negativeAt(s, loc[0]) {
		token = "-" + token
	}

	v, err := strconv.ParseFloat(normalizeSeparators(token), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeSeparators rewrites a number token to use '.' as the decimal
// point and no grouping separators.
func normalizeSeparators(token string) string {
	commas := strings.Count(token, ",")
	dots := strings.Count(token, ".")

	switch {
	case commas > 0 && dots > 0:
		// the separator that appears last is the decimal point
		if strings.LastIndex(token, ",") > strings.LastIndex(token, ".") {
			token = strings.ReplaceAll(token, ".", "")
			return strings.Replace(token, ",", ".", 1)
		}
		return strings.ReplaceAll(token, ",", "")
	case commas == 1:
		if len(token)-strings.Index(token, ",")-1 == 3 {
			return strings.ReplaceAll(token, ",", "")
		}
		return strings.Replace(token, ",", ".", 1)
	case commas > 1:
		return strings.ReplaceAll(token, ",", "")
	case dots > 1:
		return strings.ReplaceAll(token, ".", "")
	}
	return token
}

// negativeAt reports whether the digits starting at i carry a leading minus.
func negativeAt(s string, i int) bool {
	if i == 0 || s[i-1] != '-' {
		return false
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i-1])
	return prev == utf8.RuneError || !(unicode.IsLetter(prev) || unicode.IsDigit(prev))
}
