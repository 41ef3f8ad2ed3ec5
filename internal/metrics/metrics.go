package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fallback stages.
const (
	StageIntentLLM    = "intent_llm"
	StageVision       = "vision"
	StageCatalogStore = "catalog_store"
	StageDemoCatalog  = "demo_catalog"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_chat_requests_total",
			Help: "Chat requests answered, by classified intent",
		},
		[]string{"intent"},
	)

	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_fallbacks_total",
			Help: "Fallback transitions taken, by pipeline stage",
		},
		[]string{"stage"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_upstream_duration_seconds",
			Help:    "Latency of calls to hosted models and the catalog store",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	ProductsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_products_returned",
			Help:    "Number of products attached to product_search answers",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)
)
