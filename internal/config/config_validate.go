// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package config

import (
	"fmt"
	"net/url"
)

// Validate checks that ingestion's required configuration is present,
// per spec.md 6's Required column and spec.md 7's "configuration
// error ... fatal at startup" category.
func (c *IngestConfig) Validate() error {
	if c.RelayURL == "" {
		return fmt.Errorf("RELAY_URL is required")
	}
	if u, err := url.Parse(c.RelayURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("RELAY_URL %q is not a valid URL", c.RelayURL)
	}
	if c.Store.URL == "" {
		return fmt.Errorf("CLICKHOUSE_URL is required")
	}
	if c.Store.Password == "" {
		return fmt.Errorf("CLICKHOUSE_PASSWORD is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.BatchIntervalMS <= 0 {
		return fmt.Errorf("BATCH_INTERVAL_MS must be positive, got %d", c.BatchIntervalMS)
	}
	return nil
}

// Validate checks the query API's required configuration.
func (c *APIConfig) Validate() error {
	if c.Store.URL == "" {
		return fmt.Errorf("CLICKHOUSE_URL is required")
	}
	if c.Store.Password == "" {
		return fmt.Errorf("CLICKHOUSE_PASSWORD is required")
	}
	return nil
}
