// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package api

import (
	"errors"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/go-chi/chi/v5"

	"github.com/nostr-funnel/funnel/internal/logging"
	"github.com/nostr-funnel/funnel/internal/store"
)

const (
	defaultLimit       = 50
	recentCacheTTL     = 60 * time.Second
	videoStatsCacheTTL = 30 * time.Second
	searchCacheTTL     = 60 * time.Second
	statsCacheTTL      = 60 * time.Second
)

// Handlers wires the query surface to a store. Store access is
// expressed as two narrow interfaces (store.VideoQueries,
// store.StatsQueries) so tests can substitute a fake without a real
// DuckDB file. Every store call runs behind a circuit breaker so a
// wedged store degrades to fast 503s instead of piling up hanging
// HTTP requests.
type Handlers struct {
	videos store.VideoQueries
	stats  store.StatsQueries
	cb     *gobreaker.CircuitBreaker[interface{}]
}

// NewHandlers builds the query API's handler set.
func NewHandlers(videos store.VideoQueries, stats store.StatsQueries) *Handlers {
	return &Handlers{videos: videos, stats: stats, cb: newStoreBreaker()}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, 0, map[string]string{"status": "ok"})
}

// ListVideos handles GET /api/videos?sort=&kind=&limit=.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	p, verr := parseListVideosParams(r.URL.Query())
	if verr != nil {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	limit := p.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	ctx := r.Context()
	switch p.Sort {
	case "recent":
		videos, err := execStore(h.cb, func() ([]store.VideoStats, error) { return h.videos.VideosRecent(ctx, p.Kind, limit) })
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, recentCacheTTL, newVideoResponses(videos))
	case "trending", "popular":
		videos, err := execStore(h.cb, func() ([]store.VideoStats, error) { return h.videos.VideosTrending(ctx, p.Kind, limit) })
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, recentCacheTTL, newVideoResponses(videos))
	}
}

// VideoStats handles GET /api/videos/{id}/stats.
func (h *Handlers) VideoStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	video, err := execStore(h.cb, func() (*store.VideoStats, error) { return h.videos.VideoStatsByID(r.Context(), id) })
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videoStatsCacheTTL, newVideoResponse(*video))
}

// UserVideos handles GET /api/users/{pubkey}/videos?limit=.
func (h *Handlers) UserVideos(w http.ResponseWriter, r *http.Request) {
	pubkey := chi.URLParam(r, "pubkey")
	limit := parseLimit(r.URL.Query().Get("limit"), defaultLimit)

	videos, err := execStore(h.cb, func() ([]store.VideoStats, error) { return h.videos.VideosByAuthor(r.Context(), pubkey, limit) })
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recentCacheTTL, newVideoResponses(videos))
}

// Search handles GET /api/search?tag=&q=&limit=.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	p, verr := parseSearchParams(r.URL.Query())
	if verr != nil {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	limit := p.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	ctx := r.Context()
	switch {
	case p.Tag != "":
		hits, err := execStore(h.cb, func() ([]store.HashtagHit, error) { return h.videos.SearchByHashtag(ctx, p.Tag, limit) })
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, searchCacheTTL, newHashtagResponses(hits))
	case p.Q != "":
		videos, err := execStore(h.cb, func() ([]store.VideoStats, error) { return h.videos.SearchByText(ctx, p.Q, limit) })
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, searchCacheTTL, newVideoResponses(videos))
	default:
		writeError(w, http.StatusBadRequest, "Search requires 'tag' or 'q' parameter")
	}
}

// GlobalStats handles GET /api/stats.
func (h *Handlers) GlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := execStore(h.cb, func() (store.GlobalStats, error) { return h.stats.GlobalStats(r.Context()) })
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsCacheTTL, StatsResponse{TotalEvents: stats.TotalEvents, TotalVideos: stats.TotalVideos})
}

func (h *Handlers) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		writeError(w, http.StatusServiceUnavailable, "store temporarily unavailable")
		return
	}
	logging.Error().Err(err).Str("path", r.URL.Path).Msg("store query failed")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
