// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

/*
Package api implements the query process's HTTP surface (spec.md 4.4):

	GET /health                              public, no cache
	GET /metrics                             public, no cache, Prometheus exposition
	GET /api/videos?sort=&kind=&limit=       recent | trending | popular
	GET /api/videos/{id}/stats
	GET /api/users/{pubkey}/videos?limit=
	GET /api/search?tag=&q=&limit=
	GET /api/stats

Every /api/* route requires a bearer token when API_TOKEN is
configured; /health and /metrics are always public. Handlers depend on
store.VideoQueries and store.StatsQueries rather than *store.Store
directly, so tests substitute an in-memory fake instead of an embedded
DuckDB file.
*/
package api
