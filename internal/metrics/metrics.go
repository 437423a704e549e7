// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

// Package metrics defines the Prometheus counters, histograms and gauges
// exported by the ingestion and API processes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IngestionEventsReceived counts every event decoded off the relay socket, by kind.
	IngestionEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestion_events_received_total",
			Help: "Total number of Nostr events decoded from the relay",
		},
		[]string{"kind"},
	)

	// IngestionEventsWritten counts events that made it into a successfully flushed batch.
	IngestionEventsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingestion_events_written_total",
			Help: "Total number of events written to the analytics store",
		},
	)

	// IngestionBatchSize observes the size of every flush.
	IngestionBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingestion_batch_size",
			Help:    "Number of events in each flushed batch",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	// IngestionWriteLatency observes store insert durations.
	IngestionWriteLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingestion_clickhouse_write_latency_seconds",
			Help:    "Duration of analytics store batch inserts in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// IngestionLag is the age, in seconds, of the oldest unflushed event.
	IngestionLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingestion_lag_seconds",
			Help: "Age in seconds of the oldest event currently buffered in the batcher",
		},
	)

	// APIRequestsTotal counts every handled API request, by endpoint.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests handled",
		},
		[]string{"endpoint"},
	)

	// APIQueryDuration observes the store-query portion of handling a request.
	APIQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_clickhouse_query_duration_seconds",
			Help:    "Duration of analytics store queries issued by API handlers",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// APIRequestDuration observes total handler latency (auth + validation + query + encode).
	// Supplemental to the store-query histogram above; see SPEC_FULL.md.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Total duration of API request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// RecordEventReceived increments the received-events counter for kind.
func RecordEventReceived(kind int64) {
	IngestionEventsReceived.WithLabelValues(kindLabel(kind)).Inc()
}

// RecordFlush records a successful batch flush of n events taking duration d.
func RecordFlush(n int, d time.Duration) {
	IngestionEventsWritten.Add(float64(n))
	IngestionBatchSize.Observe(float64(n))
	IngestionWriteLatency.Observe(d.Seconds())
}

// RecordAPIRequest records that endpoint was served, with total duration d.
func RecordAPIRequest(endpoint string, d time.Duration) {
	APIRequestsTotal.WithLabelValues(endpoint).Inc()
	APIRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordStoreQuery records the duration of a single store query issued by endpoint.
func RecordStoreQuery(endpoint string, d time.Duration) {
	APIQueryDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordIngestionLag sets the current age, in seconds, of the oldest
// buffered event. Callers pass 0 once the buffer has been drained.
func RecordIngestionLag(seconds float64) {
	IngestionLag.Set(seconds)
}

func kindLabel(kind int64) string {
	switch kind {
	case 0:
		return "0"
	case 1:
		return "1"
	case 6:
		return "6"
	case 7:
		return "7"
	case 16:
		return "16"
	case 34235:
		return "34235"
	case 34236:
		return "34236"
	default:
		return "other"
	}
}
