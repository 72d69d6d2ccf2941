package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IngestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marque_ingests_total",
		Help: "Bookmark ingestions by outcome.",
	}, []string{"outcome"})

	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "marque_ingest_duration_seconds",
		Help:    "Time to turn a URL into a stored bookmark.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	})

	MetadataFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marque_metadata_fallbacks_total",
		Help: "Ingestions where the page title degraded to the raw URL.",
	})

	ReaderEmptyTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marque_reader_empty_total",
		Help: "Ingestions where readable-text extraction produced nothing.",
	})
)
