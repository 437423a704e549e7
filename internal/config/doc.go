// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

// Package config loads IngestConfig and APIConfig from environment
// variables using knadh/koanf: struct-tagged defaults layered under
// an environment provider restricted to the exact variable names
// spec.md 6 names. Unrecognized environment variables are ignored
// rather than erroring, so an operator's unrelated env does not leak
// into either process's configuration tree.
package config
