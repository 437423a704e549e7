// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package ingest

import (
	"context"
	"time"

	"github.com/nostr-funnel/funnel/internal/logging"
	"github.com/nostr-funnel/funnel/internal/metrics"
	"github.com/nostr-funnel/funnel/internal/nostr"
	"github.com/nostr-funnel/funnel/internal/store"
)

// flushWithRetry writes events to the store, retrying on the connection
// backoff ladder for as long as ctx is live. A failed write is never
// given up on by itself; it stops retrying, and the batch is not
// written, only once ctx is canceled.
func flushWithRetry(ctx context.Context, writer store.EventWriter, events []*nostr.Event, relaySource string) {
	if len(events) == 0 {
		return
	}
	bo := newBackoff()
	for {
		start := time.Now()
		n, err := writer.InsertBatch(ctx, events, relaySource)
		if err == nil {
			metrics.RecordFlush(n, time.Since(start))
			return
		}
		logging.Error().Err(err).Int("batch_size", len(events)).Msg("flush failed, retrying")
		select {
		case <-time.After(bo.next()):
		case <-ctx.Done():
			return
		}
	}
}
