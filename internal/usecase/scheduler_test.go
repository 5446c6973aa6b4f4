package usecase

import (
	"context"
	"testing"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/pkg/logger"
)

type fakeBatchStore struct {
	saved   entity.TaskBatch
	savedTo string
	loadRet entity.TaskBatch
}

func (s *fakeBatchStore) Save(batch entity.TaskBatch, path string) (string, error) {
	s.saved = batch
	s.savedTo = path
	return path, nil
}

func (s *fakeBatchStore) Load(string) (entity.TaskBatch, error) {
	return s.loadRet, nil
}

func testSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		FromAirport: "SEA",
		ToAirport:   "MKE",
		OutboundDay: 3,
		ReturnDay:   6,
		HorizonDays: 14,
		Options:     entity.DefaultSearchOptions(),
		Interval:    time.Hour,
		Backoff:     time.Minute,
		Delay:       0,
		BatchDir:    "/tmp",
	}
}

func TestSchedulerCycle(t *testing.T) {
	log := logger.NewNop()
	p := &fakeProvider{lookup: func(entity.SearchTask) (*entity.FareResult, error) {
		return offerResult("$210"), nil
	}}
	batches := &fakeBatchStore{}

	s := NewScheduler(
		NewTaskGenerator(log),
		batches,
		newTestExecutor(p, &fakeObservationStore{}, nil),
		log,
		testSchedulerConfig(),
	)
	s.now = func() time.Time {
		return time.Date(2024, time.March, 8, 6, 0, 0, 0, time.UTC)
	}

	if err := s.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle() error = %v", err)
	}

	// Two weeks out from Fri 2024-03-08: Thursdays 14, 21 outbound and
	// Sundays 10, 17 return.
	if len(batches.saved) != 4 {
		t.Fatalf("saved %d tasks, want 4", len(batches.saved))
	}
	if batches.savedTo == "" {
		t.Fatal("batch was not saved to a file")
	}
	if len(p.lookups) != 4 {
		t.Errorf("provider saw %d lookups, want 4", len(p.lookups))
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	log := logger.NewNop()
	p := &fakeProvider{lookup: func(entity.SearchTask) (*entity.FareResult, error) {
		return &entity.FareResult{}, nil
	}}

	s := NewScheduler(
		NewTaskGenerator(log),
		&fakeBatchStore{},
		newTestExecutor(p, &fakeObservationStore{}, nil),
		log,
		testSchedulerConfig(),
	)
	s.now = func() time.Time {
		return time.Date(2024, time.March, 8, 6, 0, 0, 0, time.UTC)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
