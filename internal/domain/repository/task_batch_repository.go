package repository

import (
	"farewatch-service/internal/domain/entity"
)

// TaskBatchRepository defines the interface for durable task-batch
// persistence. Save returns the absolute path written; Load fails with a
// not-found error when the path does not exist.
type TaskBatchRepository interface {
	Save(batch entity.TaskBatch, path string) (string, error)
	Load(path string) (entity.TaskBatch, error)
}
