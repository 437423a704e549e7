// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/nostr-funnel/funnel/internal/logging"
	"github.com/nostr-funnel/funnel/internal/metrics"
	"github.com/nostr-funnel/funnel/internal/nostr"
	"github.com/nostr-funnel/funnel/internal/store"
)

// defaultBackfillLimit is the page size spec.md 4.3 assigns to each
// backfill REQ.
const defaultBackfillLimit = 5000

// Backfill walks the relay's historical archive backwards in time,
// paginating with REQ/EOSE until a page returns zero events.
type Backfill struct {
	relayURL string
	dial     Dialer
	writer   store.EventWriter
	kinds    []int64
	limit    int
}

// NewBackfill builds a backfill run against relayURL. kinds may be nil
// to backfill every kind.
func NewBackfill(relayURL string, dial Dialer, writer store.EventWriter, kinds []int64) *Backfill {
	return &Backfill{relayURL: relayURL, dial: dial, writer: writer, kinds: kinds, limit: defaultBackfillLimit}
}

// Serve implements suture.Service, pinning the walk's starting point
// to the moment the service is (re)started.
func (b *Backfill) Serve(ctx context.Context) error {
	if err := b.Run(ctx, time.Now().Unix()); err != nil {
		return err
	}
	return suture.ErrDoNotRestart
}

// Run pages backward from now until a page comes back empty or ctx is
// canceled. Re-running is safe: every run starts again from now, and
// the store deduplicates by id, so pages already written are absorbed.
func (b *Backfill) Run(ctx context.Context, now int64) error {
	until := now
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := b.dial(ctx, b.relayURL)
		if err != nil {
			return fmt.Errorf("ingest: backfill dial: %w", err)
		}

		subID := newSubID()
		u := until
		filter := nostr.Filter{Kinds: b.kinds, Until: &u, Limit: b.limit}
		if err := conn.Subscribe(subID, filter); err != nil {
			_ = conn.Shutdown()
			return fmt.Errorf("ingest: backfill subscribe: %w", err)
		}

		events, minCreated, err := drainUntilEOSE(ctx, conn)
		_ = conn.Close(subID)
		_ = conn.Shutdown()
		if err != nil {
			return err
		}

		flushWithRetry(ctx, b.writer, events, b.relayURL)

		if len(events) == 0 {
			logging.Info().Int64("until", until).Msg("backfill complete")
			return nil
		}
		until = minCreated - 1
	}
}

// drainUntilEOSE reads frames from a freshly opened subscription until
// EOSE, returning the decoded events and the minimum created_at seen
// (for the next page's until).
func drainUntilEOSE(ctx context.Context, conn RelayConn) ([]*nostr.Event, int64, error) {
	var events []*nostr.Event
	var minCreated int64
	for {
		frame, err := conn.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, ErrConnLost) {
				return nil, 0, fmt.Errorf("ingest: backfill read: %w", err)
			}
			logging.Warn().Err(err).Msg("skipping bad frame during backfill")
			continue
		}
		switch frame.Kind {
		case nostr.FrameEvent:
			metrics.RecordEventReceived(frame.Event.Kind)
			events = append(events, frame.Event)
			if minCreated == 0 || frame.Event.CreatedAt < minCreated {
				minCreated = frame.Event.CreatedAt
			}
		case nostr.FrameEOSE:
			return events, minCreated, nil
		case nostr.FrameNotice:
			logging.Debug().Str("notice", frame.Notice).Msg("relay notice")
		}
	}
}
