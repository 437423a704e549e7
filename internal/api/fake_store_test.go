// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package api

import (
	"context"

	"github.com/nostr-funnel/funnel/internal/store"
)

type fakeStore struct {
	byID     map[string]store.VideoStats
	recent   []store.VideoStats
	trending []store.VideoStats
	byAuthor map[string][]store.VideoStats
	hashtags map[string][]store.HashtagHit
	text     map[string][]store.VideoStats
	global   store.GlobalStats
	latest   *int64
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byID:     map[string]store.VideoStats{},
		byAuthor: map[string][]store.VideoStats{},
		hashtags: map[string][]store.HashtagHit{},
		text:     map[string][]store.VideoStats{},
	}
}

func (f *fakeStore) VideoStatsByID(_ context.Context, id string) (*store.VideoStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

func (f *fakeStore) VideosRecent(_ context.Context, _ *int64, _ int) ([]store.VideoStats, error) {
	return f.recent, f.err
}

func (f *fakeStore) VideosTrending(_ context.Context, _ *int64, _ int) ([]store.VideoStats, error) {
	return f.trending, f.err
}

func (f *fakeStore) VideosByAuthor(_ context.Context, pubkey string, _ int) ([]store.VideoStats, error) {
	return f.byAuthor[pubkey], f.err
}

func (f *fakeStore) SearchByHashtag(_ context.Context, tag string, _ int) ([]store.HashtagHit, error) {
	return f.hashtags[tag], f.err
}

func (f *fakeStore) SearchByText(_ context.Context, q string, _ int) ([]store.VideoStats, error) {
	return f.text[q], f.err
}

func (f *fakeStore) GlobalStats(_ context.Context) (store.GlobalStats, error) {
	return f.global, f.err
}

func (f *fakeStore) LatestEventAt(_ context.Context) (*int64, error) {
	return f.latest, f.err
}
