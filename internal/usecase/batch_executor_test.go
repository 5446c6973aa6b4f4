package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/pkg/logger"
)

type fakeProvider struct {
	lookup  func(task entity.SearchTask) (*entity.FareResult, error)
	lookups []entity.SearchTask
}

func (p *fakeProvider) Lookup(_ context.Context, task entity.SearchTask) (*entity.FareResult, error) {
	p.lookups = append(p.lookups, task)
	return p.lookup(task)
}

type fakeObservationStore struct {
	inserted  []*entity.Observation
	insertErr error
}

func (s *fakeObservationStore) EnsureSchema(context.Context) error {
	return nil
}

func (s *fakeObservationStore) Insert(_ context.Context, obs *entity.Observation) (uint, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.inserted = append(s.inserted, obs)
	return uint(len(s.inserted)), nil
}

type fakeViewStore struct {
	names      []string
	refreshed  []string
	refreshErr map[string]error
}

func (s *fakeViewStore) CreateViews(context.Context) error {
	return nil
}

func (s *fakeViewStore) ViewNames() []string {
	return s.names
}

func (s *fakeViewStore) RefreshView(_ context.Context, name string) error {
	s.refreshed = append(s.refreshed, name)
	return s.refreshErr[name]
}

func offerResult(price string) *entity.FareResult {
	return &entity.FareResult{
		Offers: []entity.FareOffer{{
			Name:      "Alaska",
			Departure: "8:45 PM on Thu, Mar 7, 2024",
			Arrival:   "11:10 PM on Thu, Mar 7, 2024",
			Duration:  "2 hr 25 min",
			Stops:     0,
			Price:     price,
			IsBest:    true,
		}},
	}
}

func task(from, to, date string) entity.SearchTask {
	return entity.SearchTask{
		FromAirport: from,
		ToAirport:   to,
		Date:        date,
		TripType:    entity.TripOneWay,
		SeatClass:   entity.SeatEconomy,
		NumAdults:   1,
		FetchMode:   entity.FetchNormal,
	}
}

func newTestExecutor(p *fakeProvider, obs *fakeObservationStore, views *fakeViewStore) *BatchExecutor {
	log := logger.NewNop()
	var refresher *ViewRefresher
	if views != nil {
		refresher = NewViewRefresher(views, log, nil)
	}
	e := NewBatchExecutor(p, NewIngestor(obs, log), refresher, log, nil)
	e.now = func() time.Time {
		return time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func TestExecuteFiltersPastDates(t *testing.T) {
	p := &fakeProvider{lookup: func(entity.SearchTask) (*entity.FareResult, error) {
		return offerResult("$284"), nil
	}}
	obs := &fakeObservationStore{}
	e := newTestExecutor(p, obs, nil)

	// "Today" is 2024-03-08: the first task is expired regardless of
	// its position in the batch, the same-day task is still valid.
	batch := entity.TaskBatch{
		task("SEA", "MKE", "2024-03-07"),
		task("SEA", "MKE", "2024-03-08"),
		task("MKE", "SEA", "2024-03-10"),
	}
	report := e.Execute(context.Background(), batch, 0)

	if report.Skipped != 1 || report.Succeeded != 2 {
		t.Fatalf("report = %d skipped / %d succeeded, want 1 / 2", report.Skipped, report.Succeeded)
	}
	if len(p.lookups) != 2 {
		t.Fatalf("provider saw %d lookups, want 2", len(p.lookups))
	}
	for _, looked := range p.lookups {
		if looked.Date == "2024-03-07" {
			t.Error("expired task was sent to the provider")
		}
	}
	if len(report.SkippedTasks) != 1 || report.SkippedTasks[0].Date != "2024-03-07" {
		t.Errorf("SkippedTasks = %v, want the 2024-03-07 task", report.SkippedTasks)
	}
}

func TestExecuteIsolatesTaskFailures(t *testing.T) {
	p := &fakeProvider{lookup: func(task entity.SearchTask) (*entity.FareResult, error) {
		if task.Date == "2024-03-14" {
			return nil, fmt.Errorf("connection reset")
		}
		return offerResult("$199"), nil
	}}
	obs := &fakeObservationStore{}
	e := newTestExecutor(p, obs, nil)

	batch := entity.TaskBatch{
		task("SEA", "MKE", "2024-03-14"),
		task("SEA", "MKE", "2024-03-21"),
	}
	report := e.Execute(context.Background(), batch, 0)

	if report.Failed != 1 || report.Succeeded != 1 {
		t.Fatalf("report = %d failed / %d succeeded, want 1 / 1", report.Failed, report.Succeeded)
	}
	if len(report.Failures) != 1 || report.Failures[0].Stage != entity.StageLookup {
		t.Fatalf("Failures = %+v, want one lookup-stage failure", report.Failures)
	}
	if len(obs.inserted) != 1 {
		t.Errorf("stored %d observations, want 1", len(obs.inserted))
	}
}

func TestExecuteZeroOffersIsNotAFailure(t *testing.T) {
	p := &fakeProvider{lookup: func(entity.SearchTask) (*entity.FareResult, error) {
		return &entity.FareResult{}, nil
	}}
	obs := &fakeObservationStore{}
	e := newTestExecutor(p, obs, nil)

	report := e.Execute(context.Background(), entity.TaskBatch{
		task("SEA", "MKE", "2024-03-14"),
	}, 0)

	if report.NoResults != 1 || report.Failed != 0 {
		t.Fatalf("report = %d noResults / %d failed, want 1 / 0", report.NoResults, report.Failed)
	}
	if len(obs.inserted) != 0 {
		t.Errorf("stored %d observations for an empty result, want 0", len(obs.inserted))
	}
}

func TestExecuteNoAvailabilityIsNotAFailure(t *testing.T) {
	p := &fakeProvider{lookup: func(entity.SearchTask) (*entity.FareResult, error) {
		return nil, entity.ErrNoAvailability
	}}
	e := newTestExecutor(p, &fakeObservationStore{}, nil)

	report := e.Execute(context.Background(), entity.TaskBatch{
		task("SEA", "MKE", "2024-03-14"),
	}, 0)

	if report.NoResults != 1 || report.Failed != 0 {
		t.Fatalf("report = %d noResults / %d failed, want 1 / 0", report.NoResults, report.Failed)
	}
}

func TestExecuteClassifiesParseAndStorageFailures(t *testing.T) {
	tests := []struct {
		name      string
		result    *entity.FareResult
		insertErr error
		wantStage string
	}{
		{
			name: "parse failure",
			result: &entity.FareResult{Offers: []entity.FareOffer{{
				Price: "call us", Duration: "2 hr",
			}}},
			wantStage: entity.StageParse,
		},
		{
			name:      "storage failure",
			result:    offerResult("$99"),
			insertErr: errors.New("connection refused"),
			wantStage: entity.StageStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{lookup: func(entity.SearchTask) (*entity.FareResult, error) {
				return tt.result, nil
			}}
			e := newTestExecutor(p, &fakeObservationStore{insertErr: tt.insertErr}, nil)

			report := e.Execute(context.Background(), entity.TaskBatch{
				task("SEA", "MKE", "2024-03-14"),
			}, 0)

			if report.Failed != 1 {
				t.Fatalf("Failed = %d, want 1", report.Failed)
			}
			if report.Failures[0].Stage != tt.wantStage {
				t.Errorf("stage = %s, want %s", report.Failures[0].Stage, tt.wantStage)
			}
		})
	}
}

func TestExecuteRefreshesViewsOnceAfterBatch(t *testing.T) {
	p := &fakeProvider{lookup: func(task entity.SearchTask) (*entity.FareResult, error) {
		if task.Date == "2024-03-14" {
			return nil, fmt.Errorf("boom")
		}
		return offerResult("$150"), nil
	}}
	views := &fakeViewStore{names: []string{"latest_prices", "lowest_prices"}}
	e := newTestExecutor(p, &fakeObservationStore{}, views)

	report := e.Execute(context.Background(), entity.TaskBatch{
		task("SEA", "MKE", "2024-03-14"),
		task("SEA", "MKE", "2024-03-21"),
	}, 0)

	// Refresh runs exactly once per view even with task failures.
	if len(views.refreshed) != 2 {
		t.Fatalf("refreshed %v, want each view once", views.refreshed)
	}
	if len(report.ViewResults) != 2 {
		t.Fatalf("ViewResults = %d entries, want 2", len(report.ViewResults))
	}
}

func TestExecuteAllPastDatesSkipsRefresh(t *testing.T) {
	p := &fakeProvider{lookup: func(entity.SearchTask) (*entity.FareResult, error) {
		t.Fatal("provider should not be called")
		return nil, nil
	}}
	views := &fakeViewStore{names: []string{"latest_prices"}}
	e := newTestExecutor(p, &fakeObservationStore{}, views)

	report := e.Execute(context.Background(), entity.TaskBatch{
		task("SEA", "MKE", "2023-01-05"),
	}, 0)

	if report.Skipped != 1 || report.Attempted() != 0 {
		t.Fatalf("report = %d skipped / %d attempted, want 1 / 0", report.Skipped, report.Attempted())
	}
	if len(views.refreshed) != 0 {
		t.Errorf("views refreshed with nothing attempted: %v", views.refreshed)
	}
}

func TestExecuteHonorsCancellationBetweenTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakeProvider{lookup: func(entity.SearchTask) (*entity.FareResult, error) {
		cancel()
		return offerResult("$120"), nil
	}}
	e := newTestExecutor(p, &fakeObservationStore{}, nil)

	report := e.Execute(ctx, entity.TaskBatch{
		task("SEA", "MKE", "2024-03-14"),
		task("SEA", "MKE", "2024-03-21"),
	}, 0)

	if len(p.lookups) != 1 {
		t.Fatalf("provider saw %d lookups after cancellation, want 1", len(p.lookups))
	}
	if report.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", report.Succeeded)
	}
}
