package extensions

import (
	"context"
	"time"

	"github.com/depreq/depreq"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-request counters and latency histograms through
// Prometheus collectors, registered against the supplied Registerer (pass
// prometheus.DefaultRegisterer for the global registry).
type Metrics struct {
	depreq.BaseExtension
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics builds and registers the collectors Metrics needs.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "depreq_requests_total",
			Help: "Total requests dispatched.",
		}, []string{"method", "path"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "depreq_failures_total",
			Help: "Total requests that ended in a Failure.",
		}, []string{"kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "depreq_request_duration_seconds",
			Help:    "Request handling duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(m.requests, m.failures, m.latency)
	return m
}

func (m *Metrics) Wrap(ctx context.Context, req *depreq.Request) (context.Context, func(), error) {
	start := time.Now()
	m.requests.WithLabelValues(req.Method(), req.Path()).Inc()
	return ctx, func() {
		m.latency.WithLabelValues(req.Method(), req.Path()).Observe(time.Since(start).Seconds())
	}, nil
}

func (m *Metrics) OnError(_ context.Context, _ *depreq.Request, f *depreq.Failure) {
	m.failures.WithLabelValues(string(f.Kind)).Inc()
}
