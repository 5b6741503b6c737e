package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements StageHooks, CacheHooks, and HTTPHooks backed by
// Prometheus collectors. Register it at startup:
//
//	reg := prometheus.NewRegistry()
//	prom := observability.NewPrometheus(reg)
//	observability.SetStageHooks(prom)
//	observability.SetCacheHooks(prom)
//	observability.SetHTTPHooks(prom)
//
// All metrics live under the "scrub" namespace.
type Prometheus struct {
	stageDuration  *prometheus.HistogramVec
	stageRows      *prometheus.GaugeVec
	stageErrors    *prometheus.CounterVec
	columnOutcomes *prometheus.CounterVec
	cacheRequests  *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpErrors     *prometheus.CounterVec
}

var (
	_ StageHooks = (*Prometheus)(nil)
	_ CacheHooks = (*Prometheus)(nil)
	_ HTTPHooks  = (*Prometheus)(nil)
)

// NewPrometheus creates collectors on reg and returns hooks that feed them.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scrub",
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of each cleaning stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		stageRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "scrub",
			Name:      "stage_rows",
			Help:      "Dataset row count after each cleaning stage.",
		}, []string{"stage"}),
		stageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scrub",
			Name:      "stage_errors_total",
			Help:      "Cleaning stages that returned an error.",
		}, []string{"stage"}),
		columnOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scrub",
			Name:      "column_outcomes_total",
			Help:      "Per-column stage outcomes by action.",
		}, []string{"stage", "action"}),
		cacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scrub",
			Name:      "cache_requests_total",
			Help:      "Cache lookups by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scrub",
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scrub",
			Name:      "http_requests_total",
			Help:      "HTTP requests served by method, path, and status code.",
		}, []string{"method", "path", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scrub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scrub",
			Name:      "http_errors_total",
			Help:      "Requests that failed before a response was written.",
		}, []string{"method", "path"}),
	}
}

// =============================================================================
// StageHooks
// =============================================================================

func (p *Prometheus) OnStageStart(ctx context.Context, stage string, rows int) {}

func (p *Prometheus) OnStageComplete(ctx context.Context, stage string, rows int, duration time.Duration, err error) {
	p.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	p.stageRows.WithLabelValues(stage).Set(float64(rows))
	if err != nil {
		p.stageErrors.WithLabelValues(stage).Inc()
	}
}

func (p *Prometheus) OnColumnOutcome(ctx context.Context, stage, column, action string) {
	p.columnOutcomes.WithLabelValues(stage, action).Inc()
}

// =============================================================================
// CacheHooks
// =============================================================================

func (p *Prometheus) OnCacheHit(ctx context.Context, keyType string) {
	p.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(ctx context.Context, keyType string) {
	p.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(ctx context.Context, keyType string, size int) {
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTPHooks
// =============================================================================

func (p *Prometheus) OnRequest(ctx context.Context, method, path string) {}

func (p *Prometheus) OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	p.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	p.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (p *Prometheus) OnError(ctx context.Context, method, path string, err error) {
	p.httpErrors.WithLabelValues(method, path).Inc()
}
