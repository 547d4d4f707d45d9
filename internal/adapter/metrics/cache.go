package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for the placeholder image cache.
type CacheMetrics struct {
	Hits   prometheus.Counter
	Misses prometheus.Counter
	Loads  *prometheus.CounterVec
}

func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "placeholder_cache",
			Name:      "hits_total",
			Help:      "Total number of placeholder lookups that found an entry.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "placeholder_cache",
			Name:      "misses_total",
			Help:      "Total number of placeholder lookups without an entry.",
		}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "placeholder_cache",
			Name:      "loads_total",
			Help:      "Total number of manifest loads, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Loads)
	return m
}
