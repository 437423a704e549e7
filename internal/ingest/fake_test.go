// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nostr-funnel/funnel/internal/nostr"
)

// fakeConn plays back a fixed list of frames, then blocks until ctx is
// done and reports the connection as lost.
type fakeConn struct {
	frames []nostr.Frame
	i      int

	subs     []string
	filters  []nostr.Filter
	closes   []string
	shutdown bool
}

func (f *fakeConn) Subscribe(subID string, filter nostr.Filter) error {
	f.subs = append(f.subs, subID)
	f.filters = append(f.filters, filter)
	return nil
}

func (f *fakeConn) ReadFrame(ctx context.Context) (nostr.Frame, error) {
	if f.i < len(f.frames) {
		fr := f.frames[f.i]
		f.i++
		return fr, nil
	}
	<-ctx.Done()
	return nostr.Frame{}, fmt.Errorf("%w: %v", ErrConnLost, ctx.Err())
}

func (f *fakeConn) Close(subID string) error {
	f.closes = append(f.closes, subID)
	return nil
}

func (f *fakeConn) Shutdown() error {
	f.shutdown = true
	return nil
}

// fakeWriter records flushed batches, optionally failing the first N calls.
type fakeWriter struct {
	mu      sync.Mutex
	batches [][]*nostr.Event
	failN   int
}

func (w *fakeWriter) InsertBatch(_ context.Context, events []*nostr.Event, _ string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failN > 0 {
		w.failN--
		return 0, errors.New("simulated write failure")
	}
	w.batches = append(w.batches, events)
	return len(events), nil
}

// fakeStats returns a canned resume point.
type fakeStats struct {
	latest *int64
	err    error
}

func (s fakeStats) LatestEventAt(_ context.Context) (*int64, error) {
	return s.latest, s.err
}
