// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

// Package ingest implements the relay subscription state machine,
// backfill pagination and batching policy described in spec.md 4.3.
package ingest

import (
	"time"

	"github.com/nostr-funnel/funnel/internal/nostr"
)

// BatchConfig controls the ingestion batcher's size and time bounds.
type BatchConfig struct {
	MaxBatchSize  int
	FlushInterval time.Duration
}

// DefaultBatchConfig matches spec.md 6's BATCH_SIZE/BATCH_INTERVAL_MS defaults.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{MaxBatchSize: 1000, FlushInterval: 100 * time.Millisecond}
}

// FlushReason explains why ShouldFlush returned true.
type FlushReason int

const (
	FlushNone FlushReason = iota
	FlushBatchFull
	FlushTimeoutReached
)

// BatchProcessor accumulates decoded events and decides when to flush.
// It performs no I/O; the caller is responsible for writing the batch
// to the store.
type BatchProcessor struct {
	cfg       BatchConfig
	batch     []*nostr.Event
	arrivals  []time.Time
	lastFlush time.Time
}

// NewBatchProcessor creates a batcher with the given configuration.
func NewBatchProcessor(cfg BatchConfig) *BatchProcessor {
	return &BatchProcessor{
		cfg:       cfg,
		batch:     make([]*nostr.Event, 0, cfg.MaxBatchSize),
		arrivals:  make([]time.Time, 0, cfg.MaxBatchSize),
		lastFlush: time.Now(),
	}
}

// Push adds an event to the batch, stamping it with the time it was
// pushed. Event.CreatedAt is the relay's self-declared publish time and
// is routinely back-dated relative to when Funnel actually received it
// (spec.md 4.3's resume buffer exists because of this skew), so lag
// reporting needs its own arrival stamp rather than that field.
func (p *BatchProcessor) Push(ev *nostr.Event) {
	p.batch = append(p.batch, ev)
	p.arrivals = append(p.arrivals, time.Now())
}

// ShouldFlush reports whether the batch has reached its size cap or
// its oldest buffered event has waited longer than FlushInterval.
func (p *BatchProcessor) ShouldFlush() FlushReason {
	if len(p.batch) >= p.cfg.MaxBatchSize {
		return FlushBatchFull
	}
	if len(p.arrivals) > 0 && time.Since(p.arrivals[0]) >= p.cfg.FlushInterval {
		return FlushTimeoutReached
	}
	return FlushNone
}

// TakeBatch returns the buffered events and resets the batch and flush
// timer. Returns nil if the batch is empty.
func (p *BatchProcessor) TakeBatch() []*nostr.Event {
	if len(p.batch) == 0 {
		return nil
	}
	return p.TakeBatchForce()
}

// TakeBatchForce returns the buffered events (possibly empty) and
// resets the batch and flush timer. Used on shutdown to force a final
// flush regardless of size or timing.
func (p *BatchProcessor) TakeBatchForce() []*nostr.Event {
	out := p.batch
	p.batch = make([]*nostr.Event, 0, p.cfg.MaxBatchSize)
	p.arrivals = make([]time.Time, 0, p.cfg.MaxBatchSize)
	p.lastFlush = time.Now()
	return out
}

// Len returns the number of events currently buffered.
func (p *BatchProcessor) Len() int { return len(p.batch) }

// IsEmpty reports whether the batch is empty.
func (p *BatchProcessor) IsEmpty() bool { return len(p.batch) == 0 }

// OldestEvent returns the first-pushed event in the current batch, or
// nil if empty.
func (p *BatchProcessor) OldestEvent() *nostr.Event {
	if len(p.batch) == 0 {
		return nil
	}
	return p.batch[0]
}

// OldestArrival returns the time the first-pushed event in the current
// batch was pushed, and whether the batch is non-empty. Used for lag
// reporting, per spec.md 8's ingestion_lag_seconds contract.
func (p *BatchProcessor) OldestArrival() (time.Time, bool) {
	if len(p.arrivals) == 0 {
		return time.Time{}, false
	}
	return p.arrivals[0], true
}

// TimeSinceFlush reports how long it has been since the batch was last taken.
func (p *BatchProcessor) TimeSinceFlush() time.Duration {
	return time.Since(p.lastFlush)
}
