// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

/*
Package middleware provides HTTP middleware components for the query API.

Key Components:

  - Compression: Gzip compression for every response, whatever its size
  - Request ID: UUID-based request tracking for distributed tracing
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware Stack:

The query API's router mounts RequestID and Compression router-wide and
wraps each route in PrometheusMetrics, so an endpoint is served as
(the /api routes also pass the auth check between Compression and
PrometheusMetrics):

	middleware.RequestID(
	    middleware.Compression(
	        middleware.PrometheusMetrics("videos.stats")(
	            handler,
	        ),
	    ),
	)

Usage Example - Request ID:

	http.HandleFunc("/v1/videos/{id}",
	    middleware.RequestID(handler),
	)

	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    log.Printf("[%s] processing request", requestID)
	}

See Also:

  - internal/api: HTTP handlers wrapped by this middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
