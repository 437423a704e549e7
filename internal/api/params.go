// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package api

import (
	"net/url"
	"strconv"
)

// listVideosParams validates GET /api/videos's query string. Only sort
// is validator-enforced (400 on an unrecognized value, per section 7's
// "client request error" category); limit is clamped rather than
// rejected, matching the reference implementation's `.min(100)`.
type listVideosParams struct {
	Sort  string `validate:"omitempty,oneof=recent trending popular"`
	Limit int
	Kind  *int64
}

func parseListVideosParams(q url.Values) (listVideosParams, error) {
	p := listVideosParams{Sort: q.Get("sort"), Limit: parseLimit(q.Get("limit"), 0)}
	if k := q.Get("kind"); k != "" {
		if n, err := strconv.ParseInt(k, 10, 64); err == nil {
			p.Kind = &n
		}
	}
	if p.Sort == "" {
		p.Sort = "recent"
	}
	if err := validateParams(&p); err != nil {
		return p, err
	}
	return p, nil
}

// searchParams validates GET /api/search's query string.
type searchParams struct {
	Tag   string `validate:"omitempty,max=200"`
	Q     string `validate:"omitempty,max=500"`
	Limit int
}

func parseSearchParams(q url.Values) (searchParams, error) {
	p := searchParams{Tag: q.Get("tag"), Q: q.Get("q"), Limit: parseLimit(q.Get("limit"), 0)}
	if err := validateParams(&p); err != nil {
		return p, err
	}
	return p, nil
}

// parseLimit clamps to spec.md 4.4's default/cap. An invalid or
// missing value falls back to def rather than erroring, since limit
// is advisory, not part of the endpoint's required contract.
func parseLimit(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > 100 {
		return 100
	}
	return n
}
