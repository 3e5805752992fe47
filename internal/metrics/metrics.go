// Package metrics exposes Prometheus instrumentation for the flixvec server.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/liliang-cn/flixvec/pkg/core"
)

// Recommendation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	// Ranking Metrics
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flixvec_recommendations_total",
			Help: "Total number of recommendation queries by outcome",
		},
		[]string{"outcome"},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flixvec_ranking_duration_seconds",
			Help:    "Duration of a full similarity scan in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flixvec_recommendations_returned",
			Help:    "Number of titles returned per successful query",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// Dataset Metrics
	StoreMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flixvec_store_movies",
			Help: "Number of movies in the loaded vector store",
		},
	)

	StoreDimensions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flixvec_store_dimensions",
			Help: "Vector dimensionality of the loaded store",
		},
	)

	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flixvec_catalog_entries",
			Help: "Number of titles with catalog metadata",
		},
	)

	LoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flixvec_load_duration_seconds",
			Help: "Time taken to load the dataset at startup",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flixvec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flixvec_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flixvec_api_active_requests",
			Help: "Number of API requests in flight",
		},
	)
)

// Outcome classifies a recommendation error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, core.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, core.ErrInvalidCount):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// RecordRecommendation records one recommendation query.
func RecordRecommendation(duration time.Duration, returned int, err error) {
	Recommendations.WithLabelValues(Outcome(err)).Inc()
	if err == nil {
		RankingDuration.Observe(duration.Seconds())
		RecommendationsReturned.Observe(float64(returned))
	}
}

// SetDataset publishes the size of the loaded dataset.
func SetDataset(movies, dimensions, catalogEntries int, loadDuration time.Duration) {
	StoreMovies.Set(float64(movies))
	StoreDimensions.Set(float64(dimensions))
	CatalogEntries.Set(float64(catalogEntries))
	LoadDuration.Set(loadDuration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
