package usecase

import (
	"context"
	"fmt"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/utils"
)

// Ingestor converts one raw fare result into a canonical observation and
// appends it to the observation log. All free-text parsing happens here,
// behind the pure functions in pkg/utils, so the pipeline's correctness
// is testable without the real fare source.
type Ingestor struct {
	observations repository.ObservationRepository
	logger       logger.Logger
	now          func() time.Time
}

// NewIngestor creates a new ingestor
func NewIngestor(observations repository.ObservationRepository, logger logger.Logger) *Ingestor {
	return &Ingestor{
		observations: observations,
		logger:       logger,
		now:          time.Now,
	}
}

// Ingest normalizes the first offer of result into an observation and
// writes it durably before returning. A nil result or empty offer list
// yields (nil, nil): the task counts as "no results", not a failure. The
// source's own ranking is trusted; offers are never re-ranked here.
func (in *Ingestor) Ingest(ctx context.Context, result *entity.FareResult, task entity.SearchTask) (*entity.Observation, error) {
	if result == nil || len(result.Offers) == 0 {
		in.logger.Info("No offers returned", "route", task.Route(), "date", task.Date)
		return nil, nil
	}

	obs, err := in.normalize(result.Offers[0], task)
	if err != nil {
		return nil, err
	}

	id, err := in.observations.Insert(ctx, obs)
	if err != nil {
		return nil, fmt.Errorf("store observation: %w", err)
	}

	in.logger.Info("Stored observation",
		"id", id,
		"route", task.Route(),
		"date", task.Date,
		"price", obs.Price)
	return obs, nil
}

// normalize parses the offer's textual fields into the typed observation
func (in *Ingestor) normalize(offer entity.FareOffer, task entity.SearchTask) (*entity.Observation, error) {
	obs := &entity.Observation{
		QueryTime:   in.now(),
		FromAirport: task.FromAirport,
		ToAirport:   task.ToAirport,
		Trip:        task.TripType,
		Seat:        task.SeatClass,
		Stops:       intPtr(offer.Stops),
		IsBest:      boolPtr(offer.IsBest),
		Delay:       offer.Delay,
	}

	if offer.Name != "" {
		obs.AirlineName = &offer.Name
	}
	if offer.ArrivalTimeAhead != "" {
		obs.ArrivalTimeAhead = &offer.ArrivalTimeAhead
	}

	if offer.Departure != "" {
		departure, err := utils.ParseFlightTime(offer.Departure)
		if err != nil {
			return nil, err
		}
		obs.Departure = &departure
	}
	if offer.Arrival != "" {
		arrival, err := utils.ParseFlightTime(offer.Arrival)
		if err != nil {
			return nil, err
		}
		obs.Arrival = &arrival
	}

	price, err := utils.ParsePrice(offer.Price)
	if err != nil {
		return nil, err
	}
	obs.Price = price

	duration, err := utils.ParseFlightDuration(offer.Duration)
	if err != nil {
		return nil, err
	}
	obs.Duration = duration

	return obs, nil
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
