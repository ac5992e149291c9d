package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

var (
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	firstDigits   = regexp.MustCompile(`\d+`)
)

// ParseNumber reads a locale-formatted quantity. Thousands separators and
// whitespace are stripped, then the leading numeric prefix is parsed
// ("1,250 pcs" is 1250). It returns false when no number is present.
func ParseNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	}

	s := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, models.ValueText(v))

	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FirstInteger extracts the first run of consecutive digits in the value's
// text ("Priority 12 - urgent" is 12).
func FirstInteger(v interface{}) (int, bool) {
	if models.IsEmptyValue(v) {
		return 0, false
	}
	m := firstDigits.FindString(models.ValueText(v))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
