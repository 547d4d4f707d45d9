package metrics

import "github.com/prometheus/client_golang/prometheus"

// StorageMetrics covers Postgres queries and the Redis circuit breaker.
type StorageMetrics struct {
	QueryDuration       *prometheus.HistogramVec
	QueryErrors         *prometheus.CounterVec
	CircuitBreakerState *prometheus.GaugeVec

	CircuitBreakerRejections *prometheus.CounterVec
}

func NewStorageMetrics(reg prometheus.Registerer) *StorageMetrics {
	m := &StorageMetrics{
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds, by statement kind.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"query"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of failed database queries, by statement kind.",
		}, []string{"query"}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open), by breaker.",
		}, []string{"name"}),
		CircuitBreakerRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "rejections_total",
			Help:      "Calls refused without reaching the dependency because the breaker was open.",
		}, []string{"name"}),
	}

	reg.MustRegister(m.QueryDuration, m.QueryErrors, m.CircuitBreakerState, m.CircuitBreakerRejections)
	return m
}
