package search

import (
	"time"

	"github.com/poiesic/promptsearch/core"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMonitor is a SearchMonitor that exports query telemetry as
// Prometheus metrics. One instance serves all queries; it holds no
// per-query state.
type MetricsMonitor struct {
	queriesTotal  *prometheus.CounterVec
	queryLatency  prometheus.Histogram
	resultsCount  prometheus.Histogram
	rerankedTotal prometheus.Counter
}

var _ SearchMonitor = (*MetricsMonitor)(nil)

// NewMetricsMonitor creates a monitor and registers its collectors with
// the given registerer (use prometheus.DefaultRegisterer for the global
// registry).
func NewMetricsMonitor(reg prometheus.Registerer) (*MetricsMonitor, error) {
	m := &MetricsMonitor{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptsearch_queries_total",
				Help: "Total search queries by outcome (hit, zero_result).",
			},
			[]string{"outcome"},
		),
		queryLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "promptsearch_query_duration_seconds",
				Help:    "Search pipeline latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		resultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "promptsearch_query_results",
				Help:    "Number of results returned per query.",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
		rerankedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "promptsearch_reranked_candidates_total",
				Help: "Total candidates that went through the semantic rerank pass.",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.queriesTotal, m.queryLatency, m.resultsCount, m.rerankedTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsMonitor) Start(_ string)              {}
func (m *MetricsMonitor) AfterTokenize(_ []string)    {}
func (m *MetricsMonitor) AfterExpansion(_ []string)   {}
func (m *MetricsMonitor) AfterLexicalSearch(_ int)    {}
func (m *MetricsMonitor) AfterFilter(_ int)           {}

func (m *MetricsMonitor) AfterRerank(candidates int) {
	m.rerankedTotal.Add(float64(candidates))
}

func (m *MetricsMonitor) Finish(results []*core.SearchResult, elapsed time.Duration) {
	outcome := "hit"
	if len(results) == 0 {
		outcome = "zero_result"
	}
	m.queriesTotal.WithLabelValues(outcome).Inc()
	m.queryLatency.Observe(elapsed.Seconds())
	m.resultsCount.Observe(float64(len(results)))
}
