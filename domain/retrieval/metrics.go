package retrieval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retrieval_searches_total",
		Help: "Total number of hybrid searches, labeled by whether any vector hit came back",
	}, []string{"outcome"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "retrieval_search_duration_seconds",
		Help:    "End-to-end hybrid search latency including graph enrichment",
		Buckets: prometheus.DefBuckets,
	})

	enrichmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retrieval_enrichment_failures_total",
		Help: "Graph enrichment failures that degraded a hit instead of failing the search",
	}, []string{"kind"})

	partialWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retrieval_partial_writes_total",
		Help: "Dual writes where the vector index succeeded but the graph store failed",
	})

	malformedDocIDs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retrieval_malformed_document_ids_total",
		Help: "Vector hits whose document id did not yield a task id",
	})
)
