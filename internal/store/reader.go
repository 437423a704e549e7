// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// maxLimit is the hard cap spec.md 4.2 places on every read query.
const maxLimit = 100

// ErrNotFound is returned by single-row queries that resolve no rows.
var ErrNotFound = errors.New("store: not found")

func clampLimit(limit int) int {
	if limit <= 0 {
		return maxLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// VideoStatsByID joins the videos view with the three count aggregates
// for a single event id, zero-filling reactions/comments/reposts when
// no engagement rows exist.
func (s *Store) VideoStatsByID(ctx context.Context, id string) (*VideoStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, pubkey, created_at, kind, d_tag, title, thumbnail, reactions, comments, reposts, engagement_score
		FROM video_stats WHERE id = ?`, id)

	var v VideoStats
	err := row.Scan(&v.ID, &v.PubKey, &v.CreatedAt, &v.Kind, &v.DTag, &v.Title, &v.Thumbnail,
		&v.Reactions, &v.Comments, &v.Reposts, &v.EngagementScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: video_stats_by_id: %w", err)
	}
	return &v, nil
}

// VideosRecent lists videos ordered by created_at DESC, optionally
// filtered to a single kind.
func (s *Store) VideosRecent(ctx context.Context, kind *int64, limit int) ([]VideoStats, error) {
	limit = clampLimit(limit)
	query := `SELECT id, pubkey, created_at, kind, d_tag, title, thumbnail, reactions, comments, reposts, engagement_score
		FROM video_stats`
	args := []any{}
	if kind != nil {
		query += " WHERE kind = ?"
		args = append(args, *kind)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: videos_recent: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanVideoStats(rows)
}

// VideosTrending lists videos ordered by exponentially decayed
// engagement over the last 7 days, per spec.md 9.
func (s *Store) VideosTrending(ctx context.Context, kind *int64, limit int) ([]VideoStats, error) {
	limit = clampLimit(limit)
	query := `SELECT id, pubkey, created_at, kind, d_tag, title, thumbnail, reactions, comments, reposts, engagement_score, trending_score
		FROM trending_videos`
	args := []any{}
	if kind != nil {
		query += " WHERE kind = ?"
		args = append(args, *kind)
	}
	query += " ORDER BY trending_score DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: videos_trending: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []VideoStats
	for rows.Next() {
		var v VideoStats
		var score float64
		if err := rows.Scan(&v.ID, &v.PubKey, &v.CreatedAt, &v.Kind, &v.DTag, &v.Title, &v.Thumbnail,
			&v.Reactions, &v.Comments, &v.Reposts, &v.EngagementScore, &score); err != nil {
			return nil, fmt.Errorf("store: videos_trending scan: %w", err)
		}
		v.TrendingScore = &score
		out = append(out, v)
	}
	return out, rows.Err()
}

// VideosByAuthor lists a pubkey's videos ordered by created_at DESC.
func (s *Store) VideosByAuthor(ctx context.Context, pubkey string, limit int) ([]VideoStats, error) {
	limit = clampLimit(limit)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pubkey, created_at, kind, d_tag, title, thumbnail, reactions, comments, reposts, engagement_score
		FROM video_stats WHERE pubkey = ? ORDER BY created_at DESC LIMIT ?`, pubkey, limit)
	if err != nil {
		return nil, fmt.Errorf("store: videos_by_author: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanVideoStats(rows)
}

// SearchByHashtag looks up videos tagged with tag (without the leading '#').
func (s *Store) SearchByHashtag(ctx context.Context, tag string, limit int) ([]HashtagHit, error) {
	limit = clampLimit(limit)
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, hashtag, created_at, pubkey, kind, title, thumbnail, d_tag
		FROM video_hashtags WHERE hashtag = ? ORDER BY created_at DESC LIMIT ?`, tag, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search_by_hashtag: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []HashtagHit
	for rows.Next() {
		var h HashtagHit
		if err := rows.Scan(&h.EventID, &h.Hashtag, &h.CreatedAt, &h.PubKey, &h.Kind, &h.Title, &h.Thumbnail, &h.DTag); err != nil {
			return nil, fmt.Errorf("store: search_by_hashtag scan: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// SearchByText tokenizes q on whitespace and requires a case-insensitive
// match of every token against title or content. An empty query matches
// nothing.
func (s *Store) SearchByText(ctx context.Context, q string, limit int) ([]VideoStats, error) {
	limit = clampLimit(limit)
	tokens := strings.Fields(q)
	if len(tokens) == 0 {
		return nil, nil
	}

	var conds []string
	args := []any{}
	for _, tok := range tokens {
		conds = append(conds, "(contains(lower(vs.title), lower(?)) OR contains(lower(coalesce(e.content, '')), lower(?)))")
		args = append(args, tok, tok)
	}
	query := fmt.Sprintf(`
		SELECT vs.id, vs.pubkey, vs.created_at, vs.kind, vs.d_tag, vs.title, vs.thumbnail,
		       vs.reactions, vs.comments, vs.reposts, vs.engagement_score
		FROM video_stats vs
		LEFT JOIN events_local e ON e.id = vs.id
		WHERE %s
		ORDER BY vs.created_at DESC LIMIT ?`, strings.Join(conds, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: search_by_text: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanVideoStats(rows)
}

// GlobalStats returns the total event and video counts.
func (s *Store) GlobalStats(ctx context.Context) (GlobalStats, error) {
	var g GlobalStats
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM events_local").Scan(&g.TotalEvents); err != nil {
		return GlobalStats{}, fmt.Errorf("store: global_stats total_events: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM videos").Scan(&g.TotalVideos); err != nil {
		return GlobalStats{}, fmt.Errorf("store: global_stats total_videos: %w", err)
	}
	return g, nil
}

// LatestEventAt returns the max created_at across events_local, or nil
// if the store is empty. The ingestion loop resumes its live
// subscription from this point minus a fixed buffer, so recent history
// is read again and absorbed by the id-keyed upsert.
func (s *Store) LatestEventAt(ctx context.Context) (*int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM events_local").Scan(&count); err != nil {
		return nil, fmt.Errorf("store: latest_event_at count: %w", err)
	}
	if count == 0 {
		return nil, nil
	}
	var ts int64
	if err := s.db.QueryRowContext(ctx, "SELECT max(created_at) FROM events_local").Scan(&ts); err != nil {
		return nil, fmt.Errorf("store: latest_event_at max: %w", err)
	}
	return &ts, nil
}

func scanVideoStats(rows *sql.Rows) ([]VideoStats, error) {
	var out []VideoStats
	for rows.Next() {
		var v VideoStats
		if err := rows.Scan(&v.ID, &v.PubKey, &v.CreatedAt, &v.Kind, &v.DTag, &v.Title, &v.Thumbnail,
			&v.Reactions, &v.Comments, &v.Reposts, &v.EngagementScore); err != nil {
			return nil, fmt.Errorf("store: scan video_stats: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
