package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type EngineMetrics struct {
	OperationsTotal  *prometheus.CounterVec
	ScheduleLength   prometheus.Histogram
	CacheLookupTotal *prometheus.CounterVec
}

var Engine = EngineMetrics{
	OperationsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_engine_operations_total",
			Help: "Total number of engine operations by outcome.",
		},
		[]string{"operation", "status"},
	),
	ScheduleLength: promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loan_engine_schedule_rows",
			Help:    "Number of rows in generated amortization schedules.",
			Buckets: []float64{12, 24, 60, 120, 240, 360, 480, 600},
		},
	),
	CacheLookupTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_engine_schedule_cache_lookups_total",
			Help: "Schedule cache lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	),
}

func RecordOperation(operation, status string) {
	Engine.OperationsTotal.WithLabelValues(operation, status).Inc()
}

func RecordScheduleLength(rows int) {
	Engine.ScheduleLength.Observe(float64(rows))
}

func RecordCacheLookup(result string) {
	Engine.CacheLookupTotal.WithLabelValues(result).Inc()
}
