package services

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics holds the pipeline's observability instruments. They are
// registered on an injected registry so tests and the serving process each own
// their registration.
type PipelineMetrics struct {
	Requests     prometheus.Counter
	Latency      prometheus.Histogram
	Faithfulness prometheus.Gauge
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		Requests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rag_requests_total",
			Help: "Total number of RAG pipeline requests.",
		}),
		Latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rag_generation_latency_seconds",
			Help:    "End-to-end pipeline latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		Faithfulness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rag_faithfulness_score",
			Help: "Faithfulness score of the latest successful answer.",
		}),
	}
	reg.MustRegister(m.Requests, m.Latency, m.Faithfulness)
	return m
}
