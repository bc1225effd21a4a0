package profile

import (
	"strconv"
	"testing"
)

func TestFormatHeight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "inches", input: "71", expected: `5'11"`},
		{name: "exact feet", input: "72", expected: `6'0"`},
		{name: "already formatted", input: `5'7"`, expected: `5'7"`},
		{name: "ft notation passes through", input: "5 ft 7", expected: "5 ft 7"},
		{name: "zero", input: "0", expected: ""},
		{name: "garbage", input: "tall", expected: ""},
		{name: "empty", input: "", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatHeight(tt.input); got != tt.expected {
				t.Errorf("FormatHeight(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseHeight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "feet and inches", input: `5'11"`, expected: 71},
		{name: "feet and inches no quote", input: "5'7", expected: 67},
		{name: "plain inches", input: "71", expected: 71},
		{name: "padded", input: "  68 ", expected: 68},
		{name: "empty", input: "", expected: 0},
		{name: "garbage", input: "tall", expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHeight(tt.input); got != tt.expected {
				t.Errorf("ParseHeight(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHeightRoundTrip(t *testing.T) {
	for _, inches := range []int{60, 67, 71, 72, 80} {
		formatted := FormatHeight(strconv.Itoa(inches))
		if got := ParseHeight(formatted); got != inches {
			t.Errorf("round trip %d -> %q -> %d", inches, formatted, got)
		}
	}
}
