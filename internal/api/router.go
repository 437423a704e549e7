// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

// Package api implements spec.md 4.4's read-only HTTP query surface:
// routing, bearer-token auth, and response encoding.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nostr-funnel/funnel/internal/middleware"
)

// chiMiddleware adapts our http.HandlerFunc-based middleware to Chi's
// func(http.Handler) http.Handler signature.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// NewRouter builds the query API's HTTP handler. authToken is
// spec.md 6's API_TOKEN; an empty value disables auth.
func NewRouter(h *Handlers, authToken string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.Compression))

	r.Get("/health", withMetrics("health", h.Health))
	r.Handle("/metrics", noStore(promhttp.InstrumentMetricHandler(prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true}))))

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware(RequireAuth(authToken)))
		r.Get("/videos", withMetrics("videos.list", h.ListVideos))
		r.Get("/videos/{id}/stats", withMetrics("videos.stats", h.VideoStats))
		r.Get("/users/{pubkey}/videos", withMetrics("users.videos", h.UserVideos))
		r.Get("/search", withMetrics("search", h.Search))
		r.Get("/stats", withMetrics("stats", h.GlobalStats))
	})

	return r
}

func withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return middleware.PrometheusMetrics(endpoint)(handler)
}

// noStore sets Cache-Control: no-store, matching /health's policy, per
// spec.md 4.4's route table.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
