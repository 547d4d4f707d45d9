package metrics

import "github.com/prometheus/client_golang/prometheus"

type WebSocketMetrics struct {
	ActiveConnections   prometheus.Gauge
	ConnectionsRejected prometheus.Counter
	MessagesPublished   prometheus.Counter
	SlowClientsEvicted  prometheus.Counter
}

func NewWebSocketMetrics(reg prometheus.Registerer) *WebSocketMetrics {
	m := &WebSocketMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active WebSocket connections.",
		}),
		ConnectionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connections_rejected_total",
			Help:      "Total number of WebSocket connections rejected at capacity.",
		}),
		MessagesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_published_total",
			Help:      "Total number of snapshots queued to WebSocket clients.",
		}),
		SlowClientsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "slow_clients_evicted_total",
			Help:      "Total number of clients disconnected for falling behind.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.ConnectionsRejected, m.MessagesPublished, m.SlowClientsEvicted)
	return m
}
