// Package parser decodes spreadsheet rows and the loosely typed values in them.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

// HoursPerDay is the number of hours in a spreadsheet day fraction.
// Standard-time cells hold either a fraction of a day (0..1) or decimal hours.
const HoursPerDay = 24

// FormatStandardTime renders a standard-time cell as H:MM.
// A comma decimal separator is accepted. Values that are not numeric are
// returned unchanged, and empty values render as "".
func FormatStandardTime(v interface{}) string {
	if models.IsEmptyValue(v) {
		return ""
	}
	text := models.ValueText(v)

	num, ok := leadingFloat(strings.Replace(strings.TrimSpace(text), ",", ".", 1))
	if !ok {
		return text
	}

	hoursValue := num
	if num >= 0 && num <= 1 {
		hoursValue = num * HoursPerDay
	}

	hours := math.Floor(hoursValue)
	minutes := math.Round((hoursValue - hours) * 60)
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", int64(hours), int64(minutes))
}

func leadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
