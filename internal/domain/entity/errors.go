package entity

import "errors"

// ErrNoAvailability is returned by a fare provider when the source reports
// no flights for the queried route and date. It is treated as an empty
// result, not a failure.
var ErrNoAvailability = errors.New("no flights available")

// ErrInvalidPlan marks generator input validation failures (bad weekday,
// identical airports, out-of-range stops).
var ErrInvalidPlan = errors.New("invalid search plan")

// ErrUnknownView is returned when a refresh names a view that is not part
// of the fixed analysis-view set.
var ErrUnknownView = errors.New("unknown analysis view")
