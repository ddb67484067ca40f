package datetime

import (
	"testing"
	"time"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
		wantErr  bool
	}{
		{name: "Plain year", value: "2019", expected: 2019},
		{name: "Padded year", value: " 1998 ", expected: 1998},
		{name: "ISO date", value: "2005-06-30", expected: 2005},
		{name: "Year and month", value: "2011-02", expected: 2011},
		{name: "European date", value: "15/09/2001", expected: 2001},
		{name: "Empty", value: "", wantErr: true},
		{name: "Garbage", value: "founded long ago", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseYear(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseYear(%q) expected error", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseYear(%q) unexpected error: %v", tt.value, err)
			}
			if result != tt.expected {
				t.Errorf("ParseYear(%q) = %d, expected %d", tt.value, result, tt.expected)
			}
		})
	}
}

func TestResolveAsOfYear(t *testing.T) {
	now := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name               string
		explicit, historic int
		expected           int
	}{
		{"Explicit wins", 2024, 2023, 2024},
		{"Latest historical", 0, 2023, 2023},
		{"Falls back to now", 0, 0, 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveAsOfYear(tt.explicit, tt.historic, now); got != tt.expected {
				t.Errorf("ResolveAsOfYear() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestYearsBetween(t *testing.T) {
	tests := []struct {
		start, end, expected int
	}{
		{1994, 2024, 30},
		{2024, 2024, 0},
		{2025, 2024, 0},
		{0, 2024, 0},
	}
	for _, tt := range tests {
		if got := YearsBetween(tt.start, tt.end); got != tt.expected {
			t.Errorf("YearsBetween(%d, %d) = %d, expected %d", tt.start, tt.end, got, tt.expected)
		}
	}
}
