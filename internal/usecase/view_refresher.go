package usecase

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

// ViewRefresher fully recomputes the analysis views. Each view refreshes
// in isolation: one view's failure never blocks the others. Concurrent
// refreshes of the same view collapse into a single flight, since the
// store takes an exclusive lock per view; different views may refresh
// concurrently.
type ViewRefresher struct {
	views   repository.AnalysisViewRepository
	logger  logger.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
	now     func() time.Time
}

// NewViewRefresher creates a new view refresher. metrics may be nil.
func NewViewRefresher(views repository.AnalysisViewRepository, logger logger.Logger, m *metrics.Metrics) *ViewRefresher {
	return &ViewRefresher{
		views:   views,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// RefreshAll recomputes every analysis view in order and reports each
// view's duration and outcome
func (r *ViewRefresher) RefreshAll(ctx context.Context) []entity.ViewRefreshResult {
	names := r.views.ViewNames()
	results := make([]entity.ViewRefreshResult, 0, len(names))
	for _, name := range names {
		results = append(results, r.Refresh(ctx, name))
	}
	return results
}

// Refresh recomputes a single view by name
func (r *ViewRefresher) Refresh(ctx context.Context, name string) entity.ViewRefreshResult {
	v, _, shared := r.group.Do(name, func() (interface{}, error) {
		start := r.now()
		err := r.views.RefreshView(ctx, name)
		duration := r.now().Sub(start)

		if r.metrics != nil {
			r.metrics.ViewRefreshDuration.WithLabelValues(name).Observe(duration.Seconds())
		}
		if err != nil {
			r.logger.Error("View refresh failed", "view", name, "error", err)
			if r.metrics != nil {
				r.metrics.ErrorsCount.WithLabelValues("refresh").Inc()
			}
		} else {
			r.logger.Info("Refreshed view", "view", name, "duration", duration)
		}

		return entity.ViewRefreshResult{View: name, Duration: duration, Err: err}, nil
	})
	if shared {
		r.logger.Debug("Coalesced concurrent refresh", "view", name)
	}
	return v.(entity.ViewRefreshResult)
}
