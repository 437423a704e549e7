// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package store

import (
	"context"

	"github.com/nostr-funnel/funnel/internal/nostr"
)

// VideoStats is the row shape returned by every read query that
// resolves to an addressable video, per spec.md 4.2.
type VideoStats struct {
	ID              string
	PubKey          string
	CreatedAt       int64
	Kind            int64
	DTag            string
	Title           string
	Thumbnail       string
	Reactions       int64
	Comments        int64
	Reposts         int64
	EngagementScore int64
	TrendingScore   *float64
}

// HashtagHit is one row of a search_by_hashtag result.
type HashtagHit struct {
	EventID   string
	Hashtag   string
	CreatedAt int64
	PubKey    string
	Kind      int64
	Title     string
	Thumbnail string
	DTag      string
}

// GlobalStats is the global_stats() result.
type GlobalStats struct {
	TotalEvents int64
	TotalVideos int64
}

// EventWriter accepts decoded events for durable storage.
type EventWriter interface {
	InsertBatch(ctx context.Context, events []*nostr.Event, relaySource string) (int, error)
}

// VideoQueries is the read surface the API handlers depend on. Defined
// as an interface so handler tests can substitute a fake store.
type VideoQueries interface {
	VideoStatsByID(ctx context.Context, id string) (*VideoStats, error)
	VideosRecent(ctx context.Context, kind *int64, limit int) ([]VideoStats, error)
	VideosTrending(ctx context.Context, kind *int64, limit int) ([]VideoStats, error)
	VideosByAuthor(ctx context.Context, pubkey string, limit int) ([]VideoStats, error)
	SearchByHashtag(ctx context.Context, tag string, limit int) ([]HashtagHit, error)
	SearchByText(ctx context.Context, q string, limit int) ([]VideoStats, error)
}

// StatsQueries exposes the store's global and resume-point queries.
type StatsQueries interface {
	GlobalStats(ctx context.Context) (GlobalStats, error)
	LatestEventAt(ctx context.Context) (*int64, error)
}
