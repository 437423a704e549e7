// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package api

import (
	"net/url"
	"testing"
)

func TestParseLimitClampsToHundred(t *testing.T) {
	if got := parseLimit("500", 50); got != 100 {
		t.Errorf("expected clamp to 100, got %d", got)
	}
}

func TestParseLimitFallsBackOnGarbage(t *testing.T) {
	if got := parseLimit("not-a-number", 50); got != 50 {
		t.Errorf("expected fallback to default, got %d", got)
	}
}

func TestParseListVideosParamsDefaultsSortToRecent(t *testing.T) {
	p, verr := parseListVideosParams(url.Values{})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if p.Sort != "recent" {
		t.Errorf("expected default sort recent, got %q", p.Sort)
	}
	if p.Kind != nil {
		t.Errorf("expected nil kind when absent, got %v", *p.Kind)
	}
}

func TestParseListVideosParamsRejectsUnknownSort(t *testing.T) {
	_, verr := parseListVideosParams(url.Values{"sort": {"bogus"}})
	if verr == nil {
		t.Fatal("expected validation error for unknown sort")
	}
}

func TestParseListVideosParamsKindZeroIsDistinctFromAbsent(t *testing.T) {
	p, verr := parseListVideosParams(url.Values{"kind": {"0"}})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if p.Kind == nil || *p.Kind != 0 {
		t.Errorf("expected kind=0 to be present, got %v", p.Kind)
	}
}
