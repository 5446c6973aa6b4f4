package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
)

// SchedulerConfig fixes the route and cadence of the continuous cycle
type SchedulerConfig struct {
	FromAirport string
	ToAirport   string
	OutboundDay int
	ReturnDay   int
	HorizonDays int
	Options     entity.SearchOptions

	Interval time.Duration
	Backoff  time.Duration
	Delay    time.Duration
	BatchDir string
}

// Scheduler repeats the full generate -> save -> execute -> refresh cycle
// on a fixed interval. A failed cycle is logged and retried after the
// shorter backoff interval; the scheduler itself never crashes. Run exits
// only when its context is cancelled.
type Scheduler struct {
	generator *TaskGenerator
	batches   repository.TaskBatchRepository
	executor  *BatchExecutor
	logger    logger.Logger
	cfg       SchedulerConfig
	now       func() time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(
	generator *TaskGenerator,
	batches repository.TaskBatchRepository,
	executor *BatchExecutor,
	logger logger.Logger,
	cfg SchedulerConfig,
) *Scheduler {
	return &Scheduler{
		generator: generator,
		batches:   batches,
		executor:  executor,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run loops until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Scheduler started",
		"route", s.cfg.FromAirport+" <-> "+s.cfg.ToAirport,
		"interval", s.cfg.Interval)

	for {
		wait := s.cfg.Interval
		if err := s.runCycle(ctx); err != nil {
			s.logger.Error("Cycle failed, backing off", "error", err, "backoff", s.cfg.Backoff)
			wait = s.cfg.Backoff
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-time.After(wait):
		}
	}
}

// runCycle performs one generate -> save -> execute pass. Per-task
// failures stay inside the execution report; only planning and batch-file
// errors fail the cycle.
func (s *Scheduler) runCycle(ctx context.Context) error {
	start := dateOnly(s.now())
	end := start.AddDate(0, 0, s.cfg.HorizonDays)

	batch, err := s.generator.Generate(
		s.cfg.FromAirport, s.cfg.ToAirport,
		start, end,
		s.cfg.OutboundDay, s.cfg.ReturnDay,
		s.cfg.Options,
	)
	if err != nil {
		return fmt.Errorf("generate batch: %w", err)
	}

	path := filepath.Join(s.cfg.BatchDir,
		fmt.Sprintf("flight_batch_%s.json", s.now().Format("20060102_150405")))
	savedPath, err := s.batches.Save(batch, path)
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}

	report := s.executor.Execute(ctx, batch, s.cfg.Delay)
	s.logger.Info("Cycle completed",
		"batchFile", savedPath,
		"report", report.ID,
		"succeeded", report.Succeeded,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"noResults", report.NoResults)
	return nil
}
