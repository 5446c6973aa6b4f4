package entity

import (
	"fmt"
	"time"
)

// TripType is the kind of journey a search covers
type TripType string

// SeatClass is the cabin class requested for a search
type SeatClass string

// FetchMode selects how the fare source is queried
type FetchMode string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"

	SeatEconomy  SeatClass = "economy"
	SeatBusiness SeatClass = "business"

	FetchNormal   FetchMode = "normal"
	FetchFallback FetchMode = "fallback"
)

// TaskDateLayout is the calendar-date format used in batch files and the CLI
const TaskDateLayout = "2006-01-02"

// SearchTask is one planned, not-yet-executed fare lookup. Tasks are
// immutable once created; the executor only reads them.
type SearchTask struct {
	FromAirport string    `json:"from_airport"`
	ToAirport   string    `json:"to_airport"`
	Date        string    `json:"date"`
	TripType    TripType  `json:"trip_type"`
	SeatClass   SeatClass `json:"seat_class"`
	MaxStops    int       `json:"max_stops"`
	NumAdults   int       `json:"num_adults"`
	FetchMode   FetchMode `json:"fetch_mode"`
}

// DepartureDate parses the task's calendar date
func (t SearchTask) DepartureDate() (time.Time, error) {
	d, err := time.Parse(TaskDateLayout, t.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("task date %q: %w", t.Date, err)
	}
	return d, nil
}

// Route renders the task's direction for logs and reports
func (t SearchTask) Route() string {
	return t.FromAirport + " -> " + t.ToAirport
}

// TaskBatch is an ordered sequence of search tasks produced together and
// executed together. Re-running a batch re-executes all of its tasks; the
// executor's past-date filter is the only idempotence guard.
type TaskBatch []SearchTask

// SearchOptions are the per-batch settings applied uniformly to every
// generated task.
type SearchOptions struct {
	TripType  TripType
	SeatClass SeatClass
	MaxStops  int
	NumAdults int
	FetchMode FetchMode
}

// DefaultSearchOptions mirrors the defaults of the command surface
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		TripType:  TripOneWay,
		SeatClass: SeatEconomy,
		MaxStops:  0,
		NumAdults: 1,
		FetchMode: FetchNormal,
	}
}
