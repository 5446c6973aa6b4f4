package utils

import (
	"errors"
	"testing"
	"time"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"$284", 284.0},
		{"$19.50", 19.5},
		{"$1,024", 1024.0},
		{"", 0.0},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.input)
		if err != nil {
			t.Errorf("ParsePrice(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParsePriceInvalid(t *testing.T) {
	for _, input := range []string{"$abc", "$-10", "price unknown"} {
		_, err := ParsePrice(input)
		if err == nil {
			t.Errorf("ParsePrice(%q) expected error", input)
			continue
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("ParsePrice(%q) error type = %T, want *ParseError", input, err)
		}
	}
}

func TestParseFlightDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"3 hr 53 min", 3*time.Hour + 53*time.Minute},
		{"2 hr", 2 * time.Hour},
		{"", 0},
	}

	for _, tt := range tests {
		got, err := ParseFlightDuration(tt.input)
		if err != nil {
			t.Errorf("ParseFlightDuration(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFlightDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFlightDurationInvalid(t *testing.T) {
	for _, input := range []string{"soon", "x hr", "3 hr y min"} {
		if _, err := ParseFlightDuration(input); err == nil {
			t.Errorf("ParseFlightDuration(%q) expected error", input)
		}
	}
}

func TestParseFlightTime(t *testing.T) {
	got, err := ParseFlightTime("8:45 PM on Thu, Mar 7, 2024")
	if err != nil {
		t.Fatalf("ParseFlightTime() error = %v", err)
	}
	want := time.Date(2024, time.March, 7, 20, 45, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseFlightTime() = %v, want %v", got, want)
	}
}

func TestParseFlightTimeFallbackYear(t *testing.T) {
	// Text without a year picks up the fixed fallback year.
	got, err := ParseFlightTime("8:45 PM on Fri, Mar 7")
	if err != nil {
		t.Fatalf("ParseFlightTime() error = %v", err)
	}
	if got.Year() != fallbackYear {
		t.Errorf("ParseFlightTime() year = %d, want %d", got.Year(), fallbackYear)
	}
	if got.Month() != time.March || got.Day() != 7 {
		t.Errorf("ParseFlightTime() date = %v, want Mar 7", got)
	}
}

func TestParseFlightTimeInvalid(t *testing.T) {
	_, err := ParseFlightTime("tomorrow at noon")
	if err == nil {
		t.Fatal("ParseFlightTime() expected error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
}

func TestFormatInterval(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{3*time.Hour + 53*time.Minute, "3 hours 53 minutes"},
		{2 * time.Hour, "2 hours 0 minutes"},
		{0, "0 hours 0 minutes"},
	}

	for _, tt := range tests {
		if got := FormatInterval(tt.input); got != tt.want {
			t.Errorf("FormatInterval(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
