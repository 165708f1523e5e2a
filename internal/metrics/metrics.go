// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package metrics exposes Prometheus instrumentation for the serving layer
// and the recommendation engine.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
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
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Engine metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total recommendations served, by serving path",
		},
		[]string{"path"}, // "content", "collaborative", "popularity"
	)

	ModelFitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_fit_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	ModelFitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_fit_total",
			Help: "Total model training runs by outcome",
		},
		[]string{"outcome"}, // "success", "error"
	)

	ModelVocabSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_vocab_size",
			Help: "Vocabulary size of the currently published model",
		},
	)

	ModelCourseCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_course_count",
			Help: "Catalog size of the currently published model",
		},
	)

	RatingsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratings_ingested_total",
			Help: "Total ratings accepted through the API",
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordFit records a training run and refreshes the model gauges on
// success.
func RecordFit(duration time.Duration, vocabSize, courseCount int, err error) {
	ModelFitDuration.Observe(duration.Seconds())
	if err != nil {
		ModelFitTotal.WithLabelValues("error").Inc()
		return
	}
	ModelFitTotal.WithLabelValues("success").Inc()
	ModelVocabSize.Set(float64(vocabSize))
	ModelCourseCount.Set(float64(courseCount))
}
