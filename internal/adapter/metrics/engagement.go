package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngagementMetrics covers writes to the shared record and their fan-out.
type EngagementMetrics struct {
	Writes           *prometheus.CounterVec
	WriteDuration    *prometheus.HistogramVec
	ChangesPublished *prometheus.CounterVec
	ChangesReceived  prometheus.Counter
	CommentsCreated  prometheus.Counter
}

func NewEngagementMetrics(reg prometheus.Registerer) *EngagementMetrics {
	m := &EngagementMetrics{
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "writes_total",
			Help:      "Total number of engagement record writes, by operation and result.",
		}, []string{"op", "result"}),
		WriteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "write_duration_seconds",
			Help:      "Duration of engagement record writes in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"op"}),
		ChangesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "changes_published_total",
			Help:      "Total number of change events published to the bus, by result.",
		}, []string{"result"}),
		ChangesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "changes_received_total",
			Help:      "Total number of change events received from the bus.",
		}),
		CommentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comments",
			Name:      "created_total",
			Help:      "Total number of comments created.",
		}),
	}

	reg.MustRegister(m.Writes, m.WriteDuration, m.ChangesPublished, m.ChangesReceived, m.CommentsCreated)
	return m
}
