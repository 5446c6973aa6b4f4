package repository

import (
	"context"

	"farewatch-service/internal/domain/entity"
)

// FareProvider defines the interface for the external fare source. A
// lookup that finds no availability returns entity.ErrNoAvailability;
// callers treat that as an empty result rather than a failure.
type FareProvider interface {
	Lookup(ctx context.Context, task entity.SearchTask) (*entity.FareResult, error)
}
