// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

/*
Package supervisor provides process supervision for the ingest process
using suture v4.

# Overview

	IngestionTree ("funnel-ingest")
	├── LiveLoop    (spec.md 4.3's Resolving/Connecting/Subscribed/Draining/Backoff state machine)
	└── Backfill    (spec.md 4.3's historical-archive walk, added only when BACKFILL is set)

Both services are suture.Service values: a panic or returned error
restarts that service alone, with exponential backoff between restart
attempts, without affecting its sibling. A canceled context stops the
whole tree.

# Event Logging

Supervisor lifecycle events (service start, stop, failure, backoff) are
routed through sutureslog into the application's structured logger via
the slog bridge in internal/logging.
*/
package supervisor
