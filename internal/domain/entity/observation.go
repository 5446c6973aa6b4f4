package entity

import (
	"time"
)

// Observation is one permanently retained record of a single fare lookup's
// primary result at a point in time. The observation log is append-only:
// rows are never updated or deleted, and each row is one query event, not a
// deduplicated fact.
type Observation struct {
	ID               uint
	QueryTime        time.Time
	FromAirport      string
	ToAirport        string
	Trip             TripType
	Seat             SeatClass
	AirlineName      *string
	Departure        *time.Time
	Arrival          *time.Time
	Duration         time.Duration
	Stops            *int
	Price            float64
	IsBest           *bool
	ArrivalTimeAhead *string
	Delay            *int
	CreatedAt        time.Time
}
