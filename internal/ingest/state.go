// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package ingest

// State is one of the live-mode connection states spec.md 4.3 names.
type State int

const (
	StateResolving State = iota
	StateConnecting
	StateSubscribed
	StateDraining
	StateBackoff
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateDraining:
		return "draining"
	case StateBackoff:
		return "backoff"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
