// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package api

import (
	"time"

	"github.com/nostr-funnel/funnel/internal/store"
)

// VideoResponse is the wire shape for a VideoStats row. Timestamps are
// rendered as ISO-8601 Z per spec.md 4.4.
type VideoResponse struct {
	ID              string   `json:"id"`
	PubKey          string   `json:"pubkey"`
	CreatedAt       string   `json:"created_at"`
	Kind            int64    `json:"kind"`
	DTag            string   `json:"d_tag"`
	Title           string   `json:"title"`
	Thumbnail       string   `json:"thumbnail"`
	Reactions       int64    `json:"reactions"`
	Comments        int64    `json:"comments"`
	Reposts         int64    `json:"reposts"`
	EngagementScore int64    `json:"engagement_score"`
	TrendingScore   *float64 `json:"trending_score,omitempty"`
}

func newVideoResponse(v store.VideoStats) VideoResponse {
	return VideoResponse{
		ID:              v.ID,
		PubKey:          v.PubKey,
		CreatedAt:       formatTimestamp(v.CreatedAt),
		Kind:            v.Kind,
		DTag:            v.DTag,
		Title:           v.Title,
		Thumbnail:       v.Thumbnail,
		Reactions:       v.Reactions,
		Comments:        v.Comments,
		Reposts:         v.Reposts,
		EngagementScore: v.EngagementScore,
		TrendingScore:   v.TrendingScore,
	}
}

func newVideoResponses(vs []store.VideoStats) []VideoResponse {
	out := make([]VideoResponse, len(vs))
	for i, v := range vs {
		out[i] = newVideoResponse(v)
	}
	return out
}

// HashtagResponse is the wire shape for a hashtag search hit.
type HashtagResponse struct {
	EventID   string `json:"event_id"`
	Hashtag   string `json:"hashtag"`
	CreatedAt string `json:"created_at"`
	PubKey    string `json:"pubkey"`
	Kind      int64  `json:"kind"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	DTag      string `json:"d_tag"`
}

func newHashtagResponses(hs []store.HashtagHit) []HashtagResponse {
	out := make([]HashtagResponse, len(hs))
	for i, h := range hs {
		out[i] = HashtagResponse{
			EventID:   h.EventID,
			Hashtag:   h.Hashtag,
			CreatedAt: formatTimestamp(h.CreatedAt),
			PubKey:    h.PubKey,
			Kind:      h.Kind,
			Title:     h.Title,
			Thumbnail: h.Thumbnail,
			DTag:      h.DTag,
		}
	}
	return out
}

// StatsResponse is the wire shape for the global stats endpoint.
type StatsResponse struct {
	TotalEvents int64 `json:"total_events"`
	TotalVideos int64 `json:"total_videos"`
}

func formatTimestamp(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).UTC().Format(time.RFC3339)
}
