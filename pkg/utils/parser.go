package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlightTimeLayout matches the fare source's departure/arrival text,
// e.g. "8:45 PM on Thu, Mar 7, 2024"
const FlightTimeLayout = "3:04 PM on Mon, Jan 2, 2006"

// fallbackYear is appended when the source omits the year. Known hazard:
// any deployment spanning a year boundary mis-dates those rows. Kept to
// match the upstream behavior rather than silently reinterpreting it.
const fallbackYear = 2025

// ParseError reports an unexpected text shape in a date, price or
// duration field.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFlightTime converts departure/arrival text into a timestamp. Text
// without a year is retried with the fallback year appended.
func ParseFlightTime(s string) (time.Time, error) {
	t, err := time.Parse(FlightTimeLayout, s)
	if err == nil {
		return t, nil
	}
	t, retryErr := time.Parse(FlightTimeLayout, s+", "+strconv.Itoa(fallbackYear))
	if retryErr == nil {
		return t, nil
	}
	return time.Time{}, &ParseError{Field: "datetime", Input: s, Err: err}
}

// ParsePrice converts price text like "$284" or "$19.50" into a
// non-negative amount. Empty text yields 0.0: a deliberate zero-sentinel
// meaning "no price reported", distinct from unknown.
func ParsePrice(s string) (float64, error) {
	if s == "" {
		return 0.0, nil
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, "$", ""))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &ParseError{Field: "price", Input: s, Err: err}
	}
	if price < 0 {
		return 0, &ParseError{Field: "price", Input: s, Err: fmt.Errorf("negative amount")}
	}
	return price, nil
}

// ParseFlightDuration converts duration text like "3 hr 53 min" into a
// duration. The minutes clause is optional; empty text yields zero.
func ParseFlightDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	parts := strings.Fields(s)
	if len(parts) < 2 || !strings.HasPrefix(parts[1], "hr") {
		return 0, &ParseError{Field: "duration", Input: s, Err: fmt.Errorf("want \"H hr M min\"")}
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &ParseError{Field: "duration", Input: s, Err: err}
	}
	minutes := 0
	if len(parts) > 2 {
		minutes, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, &ParseError{Field: "duration", Input: s, Err: err}
		}
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// FormatInterval renders a duration as a PostgreSQL interval literal
func FormatInterval(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%d hours %d minutes", hours, minutes)
}
