package repository

import (
	"context"

	"farewatch-service/internal/domain/entity"
)

// ObservationRepository defines the interface for the append-only
// observation log.
type ObservationRepository interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, obs *entity.Observation) (uint, error)
}
