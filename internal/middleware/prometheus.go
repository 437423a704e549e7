// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package middleware

import (
	"net/http"
	"time"

	"github.com/nostr-funnel/funnel/internal/metrics"
)

// PrometheusMetrics counts each request against the named endpoint
// (api_requests_total) and records its total handling time in the
// supplemental api_request_duration_seconds histogram.
func PrometheusMetrics(endpoint string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapper := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(wrapper, r)

			metrics.RecordAPIRequest(endpoint, time.Since(start))
		}
	}
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
