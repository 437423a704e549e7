// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/nostr-funnel/funnel/internal/store"
)

func TestHealthReturnsOK(t *testing.T) {
	h := NewHandlers(newFakeStore(), newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected no-store cache control, got %s", rec.Header().Get("Cache-Control"))
	}
}

func TestListVideosDefaultsToRecent(t *testing.T) {
	fs := newFakeStore()
	fs.recent = []store.VideoStats{{ID: strings.Repeat("a", 64), CreatedAt: 1700000000, Kind: 34235}}
	h := NewHandlers(fs, fs)

	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	rec := httptest.NewRecorder()
	h.ListVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "2023-11-14") {
		t.Errorf("expected ISO-8601 timestamp in body, got %s", rec.Body.String())
	}
}

func TestListVideosTrendingIncludesScore(t *testing.T) {
	score := 4.2
	fs := newFakeStore()
	fs.trending = []store.VideoStats{{ID: strings.Repeat("a", 64), TrendingScore: &score}}
	h := NewHandlers(fs, fs)

	req := httptest.NewRequest(http.MethodGet, "/api/videos?sort=trending", nil)
	rec := httptest.NewRecorder()
	h.ListVideos(rec, req)

	if !strings.Contains(rec.Body.String(), `"trending_score":4.2`) {
		t.Errorf("expected trending_score in body, got %s", rec.Body.String())
	}
}

func TestListVideosPopularIsSynonymForTrending(t *testing.T) {
	fs := newFakeStore()
	fs.trending = []store.VideoStats{{ID: strings.Repeat("b", 64)}}
	h := NewHandlers(fs, fs)

	req := httptest.NewRequest(http.MethodGet, "/api/videos?sort=popular", nil)
	rec := httptest.NewRecorder()
	h.ListVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListVideosRejectsUnknownSort(t *testing.T) {
	h := NewHandlers(newFakeStore(), newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/api/videos?sort=bogus", nil)
	rec := httptest.NewRecorder()
	h.ListVideos(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVideoStatsByIDNotFound(t *testing.T) {
	h := NewHandlers(newFakeStore(), newFakeStore())

	r := chi.NewRouter()
	r.Get("/api/videos/{id}/stats", h.VideoStats)

	req := httptest.NewRequest(http.MethodGet, "/api/videos/"+strings.Repeat("a", 64)+"/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if want := `{"error":"Video not found"}` + "\n"; rec.Body.String() != want {
		t.Errorf("expected %q, got %q", want, rec.Body.String())
	}
}

func TestVideoStatsByIDFound(t *testing.T) {
	id := strings.Repeat("c", 64)
	fs := newFakeStore()
	fs.byID[id] = store.VideoStats{ID: id, Title: "hello"}
	h := NewHandlers(fs, fs)

	r := chi.NewRouter()
	r.Get("/api/videos/{id}/stats", h.VideoStats)

	req := httptest.NewRequest(http.MethodGet, "/api/videos/"+id+"/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Cache-Control") != "public, max-age=30" {
		t.Errorf("expected 30s cache, got %s", rec.Header().Get("Cache-Control"))
	}
}

func TestSearchRequiresTagOrQuery(t *testing.T) {
	h := NewHandlers(newFakeStore(), newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if want := `{"error":"Search requires 'tag' or 'q' parameter"}` + "\n"; rec.Body.String() != want {
		t.Errorf("expected %q, got %q", want, rec.Body.String())
	}
}

func TestSearchTagWinsWhenBothPresent(t *testing.T) {
	fs := newFakeStore()
	fs.hashtags["cats"] = []store.HashtagHit{{EventID: strings.Repeat("d", 64), Hashtag: "cats"}}
	fs.text["ignored"] = []store.VideoStats{{ID: strings.Repeat("e", 64)}}
	h := NewHandlers(fs, fs)

	req := httptest.NewRequest(http.MethodGet, "/api/search?tag=cats&q=ignored", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if !strings.Contains(rec.Body.String(), "cats") {
		t.Errorf("expected tag search result, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), strings.Repeat("e", 64)) {
		t.Errorf("expected q search to be ignored when tag present, got %s", rec.Body.String())
	}
}

func TestGlobalStatsInternalError(t *testing.T) {
	fs := newFakeStore()
	fs.err = errors.New("boom")
	h := NewHandlers(fs, fs)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	h.GlobalStats(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if want := `{"error":"Internal server error"}` + "\n"; rec.Body.String() != want {
		t.Errorf("expected %q, got %q", want, rec.Body.String())
	}
}
