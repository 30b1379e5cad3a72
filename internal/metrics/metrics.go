// Package metrics exposes Prometheus collectors for the crawl engine.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchesTotal         *prometheus.CounterVec
	fetchErrorsTotal     *prometheus.CounterVec
	fetchBytesTotal      prometheus.Counter
	fetchDurationSeconds prometheus.Histogram
	documentsEmitted     prometheus.Counter
	duplicatesDropped    prometheus.Counter
	linksFilteredTotal   prometheus.Counter
	queueDepth           prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus collectors. It is safe to call multiple
// times; engines call it on construction.
func Init() {
	once.Do(func() {
		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_fetches_total",
				Help: "Total number of completed fetches, labeled by HTTP status.",
			},
			[]string{"status"},
		)

		fetchErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_fetch_errors_total",
				Help: "Total number of failed fetches, labeled by error kind.",
			},
			[]string{"kind"},
		)

		fetchBytesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_fetch_bytes_total",
				Help: "Total number of body bytes fetched.",
			},
		)

		fetchDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "harvester_fetch_duration_seconds",
				Help:    "Histogram of fetch latencies.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		)

		documentsEmitted = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_documents_emitted_total",
				Help: "Total number of documents pushed to the record sink.",
			},
		)

		duplicatesDropped = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_duplicates_dropped_total",
				Help: "Total number of pages dropped by content-hash dedup.",
			},
		)

		linksFilteredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_links_filtered_total",
				Help: "Total number of discovered links rejected by the URL filter.",
			},
		)

		queueDepth = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "harvester_queue_depth",
				Help: "Number of tasks currently pending in the crawl frontier.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records a completed fetch.
func ObserveFetch(status int, bodyBytes int, duration time.Duration) {
	fetchesTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	if bodyBytes > 0 {
		fetchBytesTotal.Add(float64(bodyBytes))
	}
	fetchDurationSeconds.Observe(duration.Seconds())
}

// ObserveFetchError records a failed fetch by error kind.
func ObserveFetchError(kind string) {
	fetchErrorsTotal.WithLabelValues(kind).Inc()
}

// ObserveDocumentEmitted increments the emitted-document counter.
func ObserveDocumentEmitted() {
	documentsEmitted.Inc()
}

// ObserveDuplicate increments the dedup-dropped counter.
func ObserveDuplicate() {
	duplicatesDropped.Inc()
}

// ObserveLinkFiltered increments the filtered-link counter.
func ObserveLinkFiltered() {
	linksFilteredTotal.Inc()
}

// SetQueueDepth reports the current frontier size.
func SetQueueDepth(depth int) {
	queueDepth.Set(float64(depth))
}
