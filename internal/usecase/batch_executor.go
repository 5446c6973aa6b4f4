package usecase

import (
	"context"
	"errors"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"
	"farewatch-service/pkg/utils"

	"github.com/google/uuid"
)

// BatchExecutor runs a task batch against the fare source: one task at a
// time, a fixed delay between requests, every failure isolated to its
// task, and a single best-effort view refresh once all tasks have been
// attempted.
type BatchExecutor struct {
	provider  repository.FareProvider
	ingestor  *Ingestor
	refresher *ViewRefresher
	logger    logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewBatchExecutor creates a new batch executor. metrics may be nil for
// one-off CLI runs; refresher may be nil to skip the post-batch refresh.
func NewBatchExecutor(
	provider repository.FareProvider,
	ingestor *Ingestor,
	refresher *ViewRefresher,
	logger logger.Logger,
	m *metrics.Metrics,
) *BatchExecutor {
	return &BatchExecutor{
		provider:  provider,
		ingestor:  ingestor,
		refresher: refresher,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// FilterValid partitions the batch into tasks departing today or later
// and tasks whose date has already passed. This is the batch's only
// idempotence guard: a reused batch file never re-queries expired dates.
func (e *BatchExecutor) FilterValid(batch entity.TaskBatch) (valid, skipped entity.TaskBatch) {
	today := dateOnly(e.now())
	for _, task := range batch {
		departure, err := task.DepartureDate()
		if err != nil || departure.Before(today) {
			skipped = append(skipped, task)
			continue
		}
		valid = append(valid, task)
	}
	return valid, skipped
}

// Execute runs every valid task in order and returns the accumulated
// report. No per-task failure aborts the batch; the report carries the
// counts and failure details instead.
func (e *BatchExecutor) Execute(ctx context.Context, batch entity.TaskBatch, delay time.Duration) *entity.ExecutionReport {
	report := &entity.ExecutionReport{
		ID:        uuid.NewString(),
		StartedAt: e.now(),
	}

	valid, skipped := e.FilterValid(batch)
	report.Skipped = len(skipped)
	report.SkippedTasks = skipped
	for _, task := range skipped {
		e.logger.Info("Skipping past-date task", "route", task.Route(), "date", task.Date)
		e.count(func(m *metrics.Metrics) { m.TasksSkipped.Inc() })
	}

	if len(valid) == 0 {
		e.logger.Warn("No valid tasks to process", "skipped", report.Skipped)
	}

	for i, task := range valid {
		// Coarse cancellation: between tasks only, never mid-lookup.
		select {
		case <-ctx.Done():
			e.logger.Warn("Batch cancelled", "attempted", report.Attempted(), "remaining", len(valid)-i)
			e.finish(ctx, report)
			return report
		default:
		}

		e.logger.Info("Processing task", "route", task.Route(), "date", task.Date)
		e.runTask(ctx, task, report)

		if i < len(valid)-1 {
			if !sleepCtx(ctx, delay) {
				e.logger.Warn("Batch cancelled during delay", "attempted", report.Attempted())
				e.finish(ctx, report)
				return report
			}
		}
	}

	e.finish(ctx, report)
	return report
}

// runTask attempts a single task and records the outcome on the report
func (e *BatchExecutor) runTask(ctx context.Context, task entity.SearchTask, report *entity.ExecutionReport) {
	lookupStart := e.now()
	result, err := e.provider.Lookup(ctx, task)
	if e.metrics != nil {
		e.metrics.LookupDuration.Observe(e.now().Sub(lookupStart).Seconds())
	}

	if err != nil {
		if errors.Is(err, entity.ErrNoAvailability) {
			report.NoResults++
			e.logger.Info("No availability", "route", task.Route(), "date", task.Date)
			e.count(func(m *metrics.Metrics) { m.TasksNoResults.Inc() })
			return
		}
		e.fail(report, task, entity.StageLookup, err)
		return
	}

	obs, err := e.ingestor.Ingest(ctx, result, task)
	if err != nil {
		stage := entity.StageStorage
		var parseErr *utils.ParseError
		if errors.As(err, &parseErr) {
			stage = entity.StageParse
		}
		e.fail(report, task, stage, err)
		return
	}
	if obs == nil {
		report.NoResults++
		e.count(func(m *metrics.Metrics) { m.TasksNoResults.Inc() })
		return
	}

	report.Succeeded++
	e.count(func(m *metrics.Metrics) { m.TasksSucceeded.Inc() })
}

// finish triggers the post-batch view refresh exactly once, best-effort
func (e *BatchExecutor) finish(ctx context.Context, report *entity.ExecutionReport) {
	if e.refresher != nil && report.Attempted() > 0 {
		report.ViewResults = e.refresher.RefreshAll(ctx)
	}
	report.FinishedAt = e.now()
	e.logger.Info("Batch finished",
		"report", report.ID,
		"succeeded", report.Succeeded,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"noResults", report.NoResults)
}

func (e *BatchExecutor) fail(report *entity.ExecutionReport, task entity.SearchTask, stage string, err error) {
	report.Failed++
	report.Failures = append(report.Failures, entity.TaskFailure{
		Task:  task,
		Stage: stage,
		Err:   err.Error(),
	})
	e.logger.Error("Task failed", "route", task.Route(), "date", task.Date, "stage", stage, "error", err)
	e.count(func(m *metrics.Metrics) {
		m.TasksFailed.Inc()
		m.ErrorsCount.WithLabelValues(stage).Inc()
	})
}

func (e *BatchExecutor) count(fn func(*metrics.Metrics)) {
	if e.metrics != nil {
		fn(e.metrics)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sleepCtx waits for d or until ctx is cancelled; false means cancelled
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
