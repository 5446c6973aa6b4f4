package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	TasksSucceeded prometheus.Counter
	TasksFailed    prometheus.Counter
	TasksSkipped   prometheus.Counter
	TasksNoResults prometheus.Counter

	LookupDuration      prometheus.Histogram
	ViewRefreshDuration *prometheus.HistogramVec
	ErrorsCount         *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TasksSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_succeeded_total",
			Help:      "The total number of search tasks that produced an observation",
		}),
		TasksFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_failed_total",
			Help:      "The total number of search tasks that failed",
		}),
		TasksSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_skipped_total",
			Help:      "The total number of search tasks skipped for past dates",
		}),
		TasksNoResults: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_no_results_total",
			Help:      "The total number of search tasks that returned zero offers",
		}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Time taken by external fare lookups",
			Buckets:   prometheus.DefBuckets,
		}),
		ViewRefreshDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_refresh_duration_seconds",
			Help:      "Time taken to refresh each analysis view",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
