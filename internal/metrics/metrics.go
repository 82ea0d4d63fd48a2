// Package metrics holds Ground's Prometheus instrumentation: a
// package-level block of metric handles built once at init, rather
// than ad hoc meter calls scattered through the kernel. Ground has no
// distributed tracing pipeline to feed (see DESIGN.md's note on why
// an otel SDK was not adopted) but still wants counters/histograms a
// `/metrics` scrape endpoint can export, so it uses
// github.com/prometheus/client_golang's promauto. promauto registers
// each metric against the default registry at package initialization;
// package-level var initialization already runs exactly once, so no
// additional guard is needed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SimilarityDuration times one ComputePair call, per §4.C.
	SimilarityDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "ground_similarity_duration_seconds",
		Help: "Duration of a single duplicate-pair similarity computation.",
	})

	// PageRankIterations records how many power-iteration rounds a
	// PageRank run took to converge (or exhaust MaxIterations), per §4.E.
	PageRankIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ground_pagerank_iterations",
		Help:    "Number of power-iteration rounds a PageRank run performed.",
		Buckets: prometheus.LinearBuckets(0, 10, 10),
	})

	// RegistryWritesTotal counts evidence records persisted, labeled by
	// variant, per §4.G.
	RegistryWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ground_registry_writes_total",
		Help: "Total evidence records persisted to the registry, by variant.",
	}, []string{"variant"})
)
