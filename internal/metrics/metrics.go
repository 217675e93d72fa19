// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package metrics provides Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation requests per algorithm
// - Build assembly and persistence
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"algorithm"}, // "popularity", "item_based", "user_based"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Recommendation computation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_errors_total",
			Help: "Total number of rejected recommendation requests",
		},
		[]string{"algorithm", "reason"}, // "unknown_artist", "internal"
	)

	// Build Metrics
	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "build_duration_seconds",
			Help:    "Duration of dataset preparation and build assembly in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	BuildTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "build_created_timestamp",
			Help: "Unix timestamp of the build currently served",
		},
	)

	BuildDatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "build_dataset_rows",
			Help: "Filtered dataset rows of the build currently served",
		},
	)

	BuildMatrixCells = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "build_matrix_nonzero_cells",
			Help: "Nonzero cells of the served user by artist rating matrix",
		},
	)
)

// RecordAPIRequest records an API request with its outcome and latency.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records a served recommendation request.
func RecordRecommendation(algorithm string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(algorithm).Inc()
	RecommendationDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordRecommendationError records a rejected recommendation request.
func RecordRecommendationError(algorithm, reason string) {
	RecommendationErrors.WithLabelValues(algorithm, reason).Inc()
}

// ObserveBuildDuration records how long a build took to assemble and persist.
func ObserveBuildDuration(duration time.Duration) {
	BuildDuration.Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
