package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
)

// MetricsTracer records query latency and failures by statement kind
// (SELECT, INSERT, UPDATE, ...), keeping label cardinality small.
type MetricsTracer struct {
	metrics *metrics.StorageMetrics
}

var _ pgx.QueryTracer = (*MetricsTracer)(nil)

func NewMetricsTracer(m *metrics.StorageMetrics) *MetricsTracer {
	return &MetricsTracer{metrics: m}
}

type queryContextKey struct{}

type queryContext struct {
	start time.Time
	kind  string
}

func (t *MetricsTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryContextKey{}, queryContext{start: time.Now(), kind: statementKind(data.SQL)})
}

func (t *MetricsTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qctx, ok := ctx.Value(queryContextKey{}).(queryContext)
	if !ok {
		return
	}

	t.metrics.QueryDuration.WithLabelValues(qctx.kind).Observe(time.Since(qctx.start).Seconds())
	if data.Err != nil {
		t.metrics.QueryErrors.WithLabelValues(qctx.kind).Inc()
	}
}

func statementKind(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	kind := strings.ToUpper(fields[0])
	switch kind {
	case "SELECT", "INSERT", "UPDATE", "DELETE", "WITH", "BEGIN", "COMMIT", "ROLLBACK":
		return kind
	default:
		return "OTHER"
	}
}
