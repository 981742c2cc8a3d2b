package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess        = "success"
	statusFailure        = "failure"
	statusNotImplemented = "not_implemented"
)

// metrics is a container of metrics for an engine.
type metrics struct {
	queries      *prometheus.CounterVec
	rowsProduced prometheus.Counter

	planning  prometheus.Histogram
	execution prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		queries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "quiver_engine_queries_total",
			Help: "Total number of queries by completion status",
		}, []string{"status"}),
		rowsProduced: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "quiver_engine_rows_produced_total",
			Help: "Total number of result rows produced by successful queries",
		}),

		planning: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name: "quiver_engine_planning_seconds",
			Help: "Number of seconds spent compiling a query into an executable physical plan",

			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: time.Hour,
		}),
		execution: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name: "quiver_engine_execution_seconds",
			Help: "Number of seconds spent streaming the results of a query",

			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: time.Hour,
		}),
	}
}
