package parser

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected time.Time
		ok       bool
	}{
		{int64(45000), date(2023, time.March, 15), true},
		{"45000", date(2023, time.March, 15), true},
		{45000.75, date(2023, time.March, 15), true},
		{int64(0), date(1899, time.December, 30), true},
		{int64(1), date(1899, time.December, 31), true},
		{"05.03.2024", date(2024, time.March, 5), true},
		{"5.3.2024", date(2024, time.March, 5), true},
		{"32.01.2024", date(2024, time.February, 1), true},
		{"05.03.24", date(1924, time.March, 5), true},
		{"1.1.0", date(1900, time.January, 1), true},
		{"1.1.100", date(100, time.January, 1), true},
		{"2024-01-15", date(2024, time.January, 15), true},
		{"2024-01-15T10:30:00Z", date(2024, time.January, 15), true},
		{"Jan 2, 2024", date(2024, time.January, 2), true},
		{"aa.bb.cccc", time.Time{}, false},
		{"1.2.3.4", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{nil, time.Time{}, false},
	}

	for _, tt := range tests {
		result, ok := NormalizeDate(tt.input)
		if ok != tt.ok || !result.Equal(tt.expected) {
			t.Errorf("NormalizeDate(%v) = (%v, %v), expected (%v, %v)",
				tt.input, result, ok, tt.expected, tt.ok)
		}
	}
}

func TestSerialToDateDayCount(t *testing.T) {
	// Verified by direct day arithmetic from the 1899-12-30 epoch.
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	for _, serial := range []int{1, 60, 61, 366, 45000, 45292} {
		expected := epoch.Add(time.Duration(serial) * 24 * time.Hour)
		if got := SerialToDate(float64(serial)); !got.Equal(expected) {
			t.Errorf("SerialToDate(%d) = %v, expected %v", serial, got, expected)
		}
	}
}

func TestFormatDateValue(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected string
	}{
		{int64(45000), "15.3.2023"},
		{"05.03.2024", "5.3.2024"},
		{"TBD", "TBD"},
		{"", ""},
	}

	for _, tt := range tests {
		result := FormatDateValue(tt.input)
		if result != tt.expected {
			t.Errorf("FormatDateValue(%v) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}
