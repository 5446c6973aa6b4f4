package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
)

// FileTaskBatchRepository implements TaskBatchRepository over JSON files.
// The file is the interchange format between generate-batch and run-batch:
// an ordered array of task records with stable field names, indented so
// operators can inspect and hand-edit it.
type FileTaskBatchRepository struct {
	logger logger.Logger
}

// NewFileTaskBatchRepository creates a new file-backed task batch repository
func NewFileTaskBatchRepository(logger logger.Logger) repository.TaskBatchRepository {
	return &FileTaskBatchRepository{
		logger: logger,
	}
}

// Save writes the batch to path and returns the absolute path written
func (r *FileTaskBatchRepository) Save(batch entity.TaskBatch, path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve batch path: %w", err)
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode batch: %w", err)
	}

	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write batch file: %w", err)
	}

	r.logger.Info("Saved task batch", "path", absPath, "tasks", len(batch))
	return absPath, nil
}

// Load reads a batch back from path, preserving task order. A missing
// file surfaces as a wrapped fs.ErrNotExist.
func (r *FileTaskBatchRepository) Load(path string) (entity.TaskBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var batch entity.TaskBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode batch file %s: %w", path, err)
	}

	return batch, nil
}
