package parser

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

// DisplayLayout renders dates day first, unpadded, dot separated (he-IL style).
const DisplayLayout = "2.1.2006"

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// fallbackLayouts are tried in order for strings that are neither serial
// numbers nor D.M.YYYY.
var fallbackLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// SerialToDate converts a spreadsheet serial day count to a calendar date.
// Fractional days (time of day) are dropped.
func SerialToDate(serial float64) time.Time {
	return serialEpoch.AddDate(0, 0, int(math.Trunc(serial)))
}

// NormalizeDate converts a raw cell value to a calendar date at UTC midnight.
// It returns false for empty or unparseable values.
func NormalizeDate(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case int64:
		return SerialToDate(float64(t)), true
	case int:
		return SerialToDate(float64(t)), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, false
		}
		return SerialToDate(t), true
	case time.Time:
		return truncateDay(t), true
	}
	return NormalizeDateString(models.ValueText(v))
}

// NormalizeDateString applies the date rules to text: serial number first,
// then D.M.YYYY, then the generic layouts.
func NormalizeDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return SerialToDate(f), true
	}

	if parts := strings.Split(s, "."); len(parts) == 3 {
		return dayMonthYear(parts)
	}

	for _, layout := range fallbackLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return truncateDay(d), true
		}
	}
	return time.Time{}, false
}

// dayMonthYear reads day.month.year. Out-of-range parts roll over the way
// calendar arithmetic does (32.01.2024 is 1 February). Years 0-99 are
// offset by TwoDigitYearBase.
func dayMonthYear(parts []string) (time.Time, bool) {
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if year >= 0 && year <= 99 {
		year += TwoDigitYearBase
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// TwoDigitYearBase is added to two-digit years, matching spreadsheet date
// construction (05.03.24 is 5 March 1924).
const TwoDigitYearBase = 1900

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders d in DisplayLayout.
func FormatDate(d time.Time) string {
	return d.Format(DisplayLayout)
}

// FormatDateValue renders a raw date cell for display. Values that do not
// normalize are returned as their original text.
func FormatDateValue(v interface{}) string {
	if d, ok := NormalizeDate(v); ok {
		return FormatDate(d)
	}
	return models.ValueText(v)
}
