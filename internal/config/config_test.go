// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package config

import (
	"testing"
	"time"
)

func setIngestEnv(t *testing.T, extra map[string]string) {
	t.Helper()
	base := map[string]string{
		"RELAY_URL":           "wss://relay.example",
		"CLICKHOUSE_URL":      "/data/funnel.duckdb",
		"CLICKHOUSE_PASSWORD": "s3cret",
	}
	for k, v := range extra {
		base[k] = v
	}
	for k, v := range base {
		t.Setenv(k, v)
	}
}

func TestLoadIngestConfigAppliesDefaults(t *testing.T) {
	setIngestEnv(t, nil)

	cfg, err := LoadIngestConfig()
	if err != nil {
		t.Fatalf("LoadIngestConfig: %v", err)
	}
	if cfg.BatchSize != 1000 {
		t.Errorf("expected default batch size 1000, got %d", cfg.BatchSize)
	}
	if cfg.BatchInterval() != 100*time.Millisecond {
		t.Errorf("expected default batch interval 100ms, got %s", cfg.BatchInterval())
	}
	if cfg.Store.User != "default" {
		t.Errorf("expected default clickhouse user, got %q", cfg.Store.User)
	}
	if cfg.Store.Database != "nostr" {
		t.Errorf("expected default clickhouse database, got %q", cfg.Store.Database)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.Backfill {
		t.Error("expected backfill disabled by default")
	}
}

func TestLoadIngestConfigOverridesFromEnv(t *testing.T) {
	setIngestEnv(t, map[string]string{
		"BATCH_SIZE":        "50",
		"BATCH_INTERVAL_MS": "25",
		"BACKFILL":          "1",
	})

	cfg, err := LoadIngestConfig()
	if err != nil {
		t.Fatalf("LoadIngestConfig: %v", err)
	}
	if cfg.BatchSize != 50 {
		t.Errorf("expected overridden batch size 50, got %d", cfg.BatchSize)
	}
	if cfg.BatchInterval() != 25*time.Millisecond {
		t.Errorf("expected overridden batch interval 25ms, got %s", cfg.BatchInterval())
	}
	if !cfg.Backfill {
		t.Error("expected backfill enabled")
	}
}

func TestLoadIngestConfigRequiresRelayURL(t *testing.T) {
	t.Setenv("CLICKHOUSE_URL", "/data/funnel.duckdb")
	t.Setenv("CLICKHOUSE_PASSWORD", "s3cret")

	if _, err := LoadIngestConfig(); err == nil {
		t.Fatal("expected error when RELAY_URL is unset")
	}
}

func TestLoadIngestConfigRequiresStorePassword(t *testing.T) {
	t.Setenv("RELAY_URL", "wss://relay.example")
	t.Setenv("CLICKHOUSE_URL", "/data/funnel.duckdb")

	if _, err := LoadIngestConfig(); err == nil {
		t.Fatal("expected error when CLICKHOUSE_PASSWORD is unset")
	}
}

func TestLoadAPIConfigDefaultsAndOverrides(t *testing.T) {
	t.Setenv("CLICKHOUSE_URL", "/data/funnel.duckdb")
	t.Setenv("CLICKHOUSE_PASSWORD", "s3cret")
	t.Setenv("API_TOKEN", "s3cret-token")

	cfg, err := LoadAPIConfig()
	if err != nil {
		t.Fatalf("LoadAPIConfig: %v", err)
	}
	if cfg.APIToken != "s3cret-token" {
		t.Errorf("expected API_TOKEN to be loaded, got %q", cfg.APIToken)
	}
	if cfg.Store.Database != "nostr" {
		t.Errorf("expected default clickhouse database, got %q", cfg.Store.Database)
	}
}

func TestLoadAPIConfigRequiresStoreURL(t *testing.T) {
	t.Setenv("CLICKHOUSE_PASSWORD", "s3cret")

	if _, err := LoadAPIConfig(); err == nil {
		t.Fatal("expected error when CLICKHOUSE_URL is unset")
	}
}
