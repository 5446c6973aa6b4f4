package usecase

import (
	"fmt"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/pkg/logger"
)

// TaskGenerator turns a date range and weekday rule into a batch of
// search tasks. Generation is pure: no side effects, same inputs always
// yield the same batch.
type TaskGenerator struct {
	logger logger.Logger
}

// NewTaskGenerator creates a new task generator
func NewTaskGenerator(logger logger.Logger) *TaskGenerator {
	return &TaskGenerator{
		logger: logger,
	}
}

// Generate emits one outbound task per date in [start, end] whose weekday
// matches outboundDay, then one return task (destination back to origin)
// per date matching returnDay. Weekdays use the Monday=0..Sunday=6
// convention of the batch-file format. An inverted range yields an empty
// batch, not an error. Overlapping outbound/return dates are kept as-is;
// the generator never deduplicates.
func (g *TaskGenerator) Generate(
	fromAirport, toAirport string,
	start, end time.Time,
	outboundDay, returnDay int,
	opts entity.SearchOptions,
) (entity.TaskBatch, error) {
	if err := validatePlan(fromAirport, toAirport, outboundDay, returnDay, opts); err != nil {
		return nil, err
	}

	var batch entity.TaskBatch
	for _, date := range dateSequence(start, end, outboundDay) {
		batch = append(batch, newTask(fromAirport, toAirport, date, opts))
	}
	for _, date := range dateSequence(start, end, returnDay) {
		batch = append(batch, newTask(toAirport, fromAirport, date, opts))
	}

	g.logger.Info("Generated task batch",
		"route", fromAirport+" <-> "+toAirport,
		"start", start.Format(entity.TaskDateLayout),
		"end", end.Format(entity.TaskDateLayout),
		"tasks", len(batch))
	return batch, nil
}

func newTask(from, to string, date time.Time, opts entity.SearchOptions) entity.SearchTask {
	return entity.SearchTask{
		FromAirport: from,
		ToAirport:   to,
		Date:        date.Format(entity.TaskDateLayout),
		TripType:    opts.TripType,
		SeatClass:   opts.SeatClass,
		MaxStops:    opts.MaxStops,
		NumAdults:   opts.NumAdults,
		FetchMode:   opts.FetchMode,
	}
}

func validatePlan(from, to string, outboundDay, returnDay int, opts entity.SearchOptions) error {
	switch {
	case len(from) != 3 || len(to) != 3:
		return fmt.Errorf("%w: airport codes must be 3 letters, got %q and %q", entity.ErrInvalidPlan, from, to)
	case from == to:
		return fmt.Errorf("%w: origin and destination are both %s", entity.ErrInvalidPlan, from)
	case outboundDay < 0 || outboundDay > 6:
		return fmt.Errorf("%w: outbound weekday %d outside 0..6", entity.ErrInvalidPlan, outboundDay)
	case returnDay < 0 || returnDay > 6:
		return fmt.Errorf("%w: return weekday %d outside 0..6", entity.ErrInvalidPlan, returnDay)
	case opts.MaxStops < 0 || opts.MaxStops > 2:
		return fmt.Errorf("%w: max stops %d outside 0..2", entity.ErrInvalidPlan, opts.MaxStops)
	case opts.NumAdults < 1:
		return fmt.Errorf("%w: adult count %d below 1", entity.ErrInvalidPlan, opts.NumAdults)
	}
	return nil
}

// dateSequence enumerates every date in [start, end] falling on weekday
// (Monday=0..Sunday=6), ascending
func dateSequence(start, end time.Time, weekday int) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if mondayBasedWeekday(d) == weekday {
			dates = append(dates, d)
		}
	}
	return dates
}

// mondayBasedWeekday maps Go's Sunday-first weekday onto Monday=0..Sunday=6
func mondayBasedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
