// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package ingest

import (
	"math/rand"
	"time"
)

// backoff is the exponential-with-jitter ladder spec.md 4.3 assigns to
// both connection retries and flush retries: 1s doubling, capped at
// 60s, reset on success.
type backoff struct {
	delay time.Duration
	max   time.Duration
}

func newBackoff() *backoff {
	return &backoff{delay: time.Second, max: 60 * time.Second}
}

// next returns the jittered delay for this attempt and advances the ladder.
func (b *backoff) next() time.Duration {
	jittered := time.Duration(float64(b.delay) * (0.5 + rand.Float64()))
	b.delay *= 2
	if b.delay > b.max {
		b.delay = b.max
	}
	return jittered
}

func (b *backoff) reset() {
	b.delay = time.Second
}
