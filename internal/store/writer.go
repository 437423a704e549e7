// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package store

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/nostr-funnel/funnel/internal/nostr"
)

// InsertBatch writes a batch of decoded events to events_local in a
// single transaction. Events are deduplicated by id: the row already on
// disk wins unless the incoming row's indexed_at is newer, matching
// spec.md 4.2's "last write, by indexed_at, wins" replacement rule.
// events with an empty relaySource default to "".
func (s *Store) InsertBatch(ctx context.Context, events []*nostr.Event, relaySource string) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertEventSQL)
	if err != nil {
		return 0, fmt.Errorf("store: prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ev := range events {
		tagsJSON, err := json.Marshal(ev.Tags)
		if err != nil {
			return 0, fmt.Errorf("store: marshal tags for %s: %w", ev.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			ev.ID, ev.PubKey, ev.CreatedAt, ev.Kind, ev.Content, ev.Sig,
			string(tagsJSON), relaySource,
		); err != nil {
			return 0, fmt.Errorf("store: insert event %s: %w", ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit batch: %w", err)
	}
	return len(events), nil
}

// insertEventSQL performs an id-keyed upsert that replaces the stored
// row only when the new indexed_at is strictly greater. current_timestamp
// is DuckDB's transaction start time, so a later batch for the same id
// replaces the stored row, while a second row for the same id inside
// one batch ties on indexed_at and does not replace the first.
var insertEventSQL = strings.TrimSpace(`
INSERT INTO events_local (id, pubkey, created_at, kind, content, sig, tags, relay_source, indexed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, current_timestamp)
ON CONFLICT (id) DO UPDATE SET
	pubkey       = excluded.pubkey,
	created_at   = excluded.created_at,
	kind         = excluded.kind,
	content      = excluded.content,
	sig          = excluded.sig,
	tags         = excluded.tags,
	relay_source = excluded.relay_source,
	indexed_at   = excluded.indexed_at
WHERE excluded.indexed_at > events_local.indexed_at
`)
