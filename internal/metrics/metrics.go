package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	SalesCommitted    prometheus.Counter
	CommitFailures    prometheus.Counter
	StockConflicts    prometheus.Counter
	SalesDeleted      prometheus.Counter
	CommitLatencySec  prometheus.Histogram
	AnalyticsRequests prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	committed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_committed_total",
		Help: "Sales durably committed.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sale_commit_failures_total",
		Help: "Sale commits that rolled back.",
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_stock_conflicts_total",
		Help: "Commits lost to a concurrent stock decrement.",
	})
	deleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_deleted_total",
		Help: "Sales deleted with stock restored.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_sale_commit_latency_seconds",
		Help:    "Wall time of successful sale commits.",
		Buckets: prometheus.DefBuckets,
	})
	analytics := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_analytics_requests_total",
		Help: "Analytics and chart computations served.",
	})

	r.MustRegister(committed, failures, conflicts, deleted, latency, analytics)
	return &Registry{
		reg:               r,
		SalesCommitted:    committed,
		CommitFailures:    failures,
		StockConflicts:    conflicts,
		SalesDeleted:      deleted,
		CommitLatencySec:  latency,
		AnalyticsRequests: analytics,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
